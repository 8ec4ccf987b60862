package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/homeweb-protocol/homeweb-go/pkg/log"
)

// jsonEvent is the JSONL export shape, with the category rendered as
// its name rather than its wire integer.
type jsonEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category"`
	Path       string    `json:"path,omitempty"`
	Target     string    `json:"target,omitempty"`
	Status     int       `json:"status,omitempty"`
	RemoteAddr string    `json:"remoteAddr,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// RunExport reads the log file and writes it in the given format
// (jsonl or csv) to the output file, or stdout when output is empty.
func RunExport(path, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(path, w)
	case "csv":
		return exportCSV(path, w)
	default:
		return fmt.Errorf("unknown format %q (want jsonl, csv)", format)
	}
}

func exportJSONL(path string, w io.Writer) error {
	enc := json.NewEncoder(w)
	return forEachEvent(path, func(event log.Event) error {
		return enc.Encode(jsonEvent{
			Timestamp:  event.Timestamp,
			Category:   event.Category.String(),
			Path:       event.Path,
			Target:     event.Target,
			Status:     event.Status,
			RemoteAddr: event.RemoteAddr,
			Detail:     event.Detail,
			Error:      event.Error,
		})
	})
}

func exportCSV(path string, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "category", "path", "target", "status", "remoteAddr", "detail", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}

	return forEachEvent(path, func(event log.Event) error {
		status := ""
		if event.Status != 0 {
			status = strconv.Itoa(event.Status)
		}
		return cw.Write([]string{
			event.Timestamp.UTC().Format(time.RFC3339Nano),
			event.Category.String(),
			event.Path,
			event.Target,
			status,
			event.RemoteAddr,
			event.Detail,
			event.Error,
		})
	})
}

// forEachEvent streams all events from path through fn.
func forEachEvent(path string, fn func(log.Event) error) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}
