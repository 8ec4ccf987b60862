package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/homeweb-protocol/homeweb-go/pkg/log"
)

// RunFilter reads the log file, applies the filter and writes matching
// events to a new log file in the same CBOR format.
func RunFilter(path string, filter log.Filter, output string) error {
	if output == "" {
		return fmt.Errorf("output file required")
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer reader.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	enc := log.NewEncoder(out)
	count := 0
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading event: %w", err)
		}
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
		count++
	}

	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", count, output)
	return nil
}
