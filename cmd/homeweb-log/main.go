// Command homeweb-log is a tool for viewing and analyzing HomeWeb log files.
//
// Log files are created by homeweb-device with the -log-file flag.
//
// Usage:
//
//	homeweb-log <command> [flags] <file.hlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	homeweb-log view hub.hlog
//
//	# View only request events
//	homeweb-log view -category request hub.hlog
//
//	# Export to JSONL
//	homeweb-log export -format jsonl hub.hlog
//
//	# Filter by path and save to new file
//	homeweb-log filter -path /root/clock/now -o filtered.hlog hub.hlog
//
//	# Show statistics
//	homeweb-log stats hub.hlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/homeweb-protocol/homeweb-go/cmd/homeweb-log/commands"
	"github.com/homeweb-protocol/homeweb-go/pkg/log"
)

const usage = `homeweb-log - HomeWeb Log Analyzer

Usage:
  homeweb-log <command> [flags] <file.hlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "homeweb-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the shared filter flags on fs and returns a
// builder that assembles the log.Filter after parsing.
func filterFlags(fs *flag.FlagSet) func() log.Filter {
	category := fs.String("category", "", "Filter by category (request, registration, discovery, tick, error)")
	path := fs.String("path", "", "Filter by exact path")
	target := fs.String("target", "", "Filter by exact target")

	return func() log.Filter {
		var filter log.Filter
		if *category != "" {
			c, err := commands.ParseCategoryFlag(*category)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			filter.Category = &c
		}
		filter.Path = *path
		filter.Target = *target
		return filter
	}
}

func logFileArg(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	buildFilter := filterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if err := commands.RunView(logFileArg(fs), buildFilter(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if err := commands.RunExport(logFileArg(fs), *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	buildFilter := filterFlags(fs)
	output := fs.String("o", "", "Output file (required)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if err := commands.RunFilter(logFileArg(fs), buildFilter(), *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if err := commands.RunStats(logFileArg(fs), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
