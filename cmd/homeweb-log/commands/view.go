// Package commands implements the homeweb-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/homeweb-protocol/homeweb-go/pkg/log"
)

// ParseCategoryFlag converts a category flag value to a log.Category.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch s {
	case "request":
		return log.CategoryRequest, nil
	case "registration":
		return log.CategoryRegistration, nil
	case "discovery":
		return log.CategoryDiscovery, nil
	case "tick":
		return log.CategoryTick, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q (want request, registration, discovery, tick, error)", s)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s %-12s", ts, event.Category.String())

	if event.Path != "" {
		fmt.Fprintf(w, " %s", event.Path)
	}
	if event.Target != "" {
		fmt.Fprintf(w, " target=%s", event.Target)
	}
	if event.Status != 0 {
		fmt.Fprintf(w, " status=%d", event.Status)
	}
	if event.RemoteAddr != "" {
		fmt.Fprintf(w, " from=%s", event.RemoteAddr)
	}
	if event.Detail != "" {
		fmt.Fprintf(w, " %s", event.Detail)
	}
	if event.Error != "" {
		fmt.Fprintf(w, " error=%q", event.Error)
	}
	fmt.Fprintln(w)
}

// RunView reads the log file and writes matching events to w in
// human-readable form.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading event: %w", err)
		}
		formatEvent(w, event)
		count++
	}

	fmt.Fprintf(w, "\n%d events\n", count)
	return nil
}
