// Package source loads completed test runs from disk into the Newman run
// summary model.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/newman"
)

var (
	// ErrNoInputs is returned when input patterns match no file
	ErrNoInputs = errors.New("no input files")
	// ErrUnknownFormat is returned for an unsupported input format
	ErrUnknownFormat = errors.New("unknown input format")
	// ErrMalformedInput is returned when an input is not a document of its format
	ErrMalformedInput = errors.New("malformed input")
)

// Format is the format of an input file
type Format string

const (
	// FormatAuto picks junit for .xml files and newman otherwise
	FormatAuto   Format = "auto"
	FormatNewman Format = "newman"
	FormatJUnit  Format = "junit"
)

// Formats lists the accepted format names
var Formats = []Format{FormatAuto, FormatNewman, FormatJUnit}

// ParseFormat validates a format name. The empty name means auto.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatAuto, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Detect resolves FormatAuto for path
func (f Format) Detect(path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return FormatJUnit
	}
	return FormatNewman
}

// Load reads path in the given format
func Load(path string, f Format) (*newman.RunSummary, error) {
	switch f.Detect(path) {
	case FormatNewman:
		return LoadNewman(path)
	case FormatJUnit:
		return LoadJUnit(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// LoadNewman reads a Newman JSON export
func LoadNewman(path string) (*newman.RunSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	summary, err := newman.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return summary, nil
}

// Expand resolves glob patterns (with ** support) to file paths, in
// pattern order without duplicates. A pattern that matches nothing is an
// error.
func Expand(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, ErrNoInputs
	}

	seen := map[string]bool{}
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s matched nothing", ErrNoInputs, pattern)
		}

		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	return files, nil
}

// ReportName derives a report file name from an input path
// (runs/orders.json -> orders.json, junit.xml -> junit.json).
func ReportName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}
