// Package log provides structured event logging for HomeWeb.
//
// This package defines the Logger interface and Event type for capturing
// activity on a device tree: dispatcher registrations, served requests,
// discovery announcements, and work ticks. It is separate from operational
// logging (slog) - event capture provides a complete machine-readable trace
// for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/homeweb/device.hlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/homeweb/device.hlog"),
//	)
//
// # File Format
//
// Log files use CBOR encoding with .hlog extension. The homeweb-log CLI
// tool provides viewing, filtering, and export capabilities.
package log
