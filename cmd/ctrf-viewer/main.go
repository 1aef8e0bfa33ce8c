package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ctrf-viewer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Command-line flags
	summary := fs.Bool("s", false, "Show only the status summary")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	dir := fs.String("d", "", "Directory to search for CTRF reports")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Get report file(s)
	var files []string
	if *dir != "" {
		found, err := findReports(*dir)
		if err != nil {
			fmt.Fprintf(stderr, "Error searching directory: %v\n", err)
			return 1
		}
		files = found
	} else if fs.NArg() > 0 {
		files = fs.Args()
	} else {
		// Default: the report written with default options
		defaultPath := filepath.Join("ctrf", "ctrf-report.json")
		if _, err := os.Stat(defaultPath); err == nil {
			files = []string{defaultPath}
		} else {
			fmt.Fprintf(stderr, "Usage: ctrf-viewer [options] <report> [<report>...]\n")
			fmt.Fprintf(stderr, "   or: ctrf-viewer -d <directory>\n\n")
			fmt.Fprintf(stderr, "Options:\n")
			fs.PrintDefaults()
			fmt.Fprintf(stderr, "\nIf no file is specified, looks for %s\n", defaultPath)
			return 1
		}
	}

	if len(files) == 0 {
		fmt.Fprintf(stderr, "No CTRF reports found\n")
		return 1
	}

	enableColors := false
	if f, ok := stdout.(*os.File); ok && !*noColor {
		enableColors = ui.IsColorEnabled(f)
	}
	renderer := ui.NewRenderer(stdout, enableColors)

	failed := 0
	for _, file := range files {
		report, err := ctrf.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing %s: %v\n", file, err)
			failed++
			continue
		}

		renderer.RenderSummary(filepath.Base(file), report)
		if !*summary {
			renderer.RenderFailures(report)
		}
		failed += report.Results.Summary.Failed
	}

	// Exit with error code if tests failed
	if failed > 0 {
		return 1
	}
	return 0
}

// findReports lists the JSON files below dir
func findReports(dir string) ([]string, error) {
	return doublestar.FilepathGlob(filepath.Join(dir, "**", "*.json"), doublestar.WithFilesOnly())
}
