package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/homeweb-protocol/homeweb-go/pkg/log"
)

// Stats summarizes the contents of a log file.
type Stats struct {
	Total      int
	First      time.Time
	Last       time.Time
	ByCategory map[log.Category]int
	ByPath     map[string]int
	ByStatus   map[int]int
}

// CollectStats reads the whole log file and builds its statistics.
func CollectStats(path string) (*Stats, error) {
	stats := &Stats{
		ByCategory: make(map[log.Category]int),
		ByPath:     make(map[string]int),
		ByStatus:   make(map[int]int),
	}

	err := forEachEvent(path, func(event log.Event) error {
		if stats.Total == 0 || event.Timestamp.Before(stats.First) {
			stats.First = event.Timestamp
		}
		if event.Timestamp.After(stats.Last) {
			stats.Last = event.Timestamp
		}
		stats.Total++

		stats.ByCategory[event.Category]++
		if event.Path != "" {
			stats.ByPath[event.Path]++
		}
		if event.Status != 0 {
			stats.ByStatus[event.Status]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// RunStats writes a statistics summary for the log file to w.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Events:   %d\n", stats.Total)
	if stats.Total > 0 {
		fmt.Fprintf(w, "First:    %s\n", stats.First.UTC().Format(time.RFC3339))
		fmt.Fprintf(w, "Last:     %s\n", stats.Last.UTC().Format(time.RFC3339))
		fmt.Fprintf(w, "Duration: %s\n", stats.Last.Sub(stats.First).Round(time.Millisecond))
	}

	fmt.Fprintln(w, "\nBy category:")
	for cat := log.CategoryRequest; cat <= log.CategoryError; cat++ {
		if n := stats.ByCategory[cat]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String(), n)
		}
	}

	if len(stats.ByStatus) > 0 {
		fmt.Fprintln(w, "\nBy status:")
		statuses := make([]int, 0, len(stats.ByStatus))
		for s := range stats.ByStatus {
			statuses = append(statuses, s)
		}
		sort.Ints(statuses)
		for _, s := range statuses {
			fmt.Fprintf(w, "  %d  %d\n", s, stats.ByStatus[s])
		}
	}

	if len(stats.ByPath) > 0 {
		fmt.Fprintln(w, "\nTop paths:")
		for _, pc := range topPaths(stats.ByPath, 10) {
			fmt.Fprintf(w, "  %-32s %d\n", pc.path, pc.count)
		}
	}

	return nil
}

type pathCount struct {
	path  string
	count int
}

func topPaths(byPath map[string]int, limit int) []pathCount {
	counts := make([]pathCount, 0, len(byPath))
	for p, n := range byPath {
		counts = append(counts, pathCount{p, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].path < counts[j].path
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
