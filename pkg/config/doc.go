// Package config loads device trees from YAML files.
//
// A config file describes the HTTP port, log destination and the full
// device hierarchy (root, embedded devices and their services). Build
// turns a loaded Config into a ready-to-attach model.RootDevice.
package config
