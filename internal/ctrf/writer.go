package ctrf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// EnsureDir creates dir and any missing parents
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}

// Marshal renders the report as indented JSON with a trailing newline.
// HTML characters in names and messages are written verbatim.
func Marshal(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile marshals the report and writes it to path
func WriteFile(path string, r *Report) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a report written by WriteFile
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}

// Writer persists reports and logs the outcome
type Writer struct {
	log *slog.Logger
}

// NewWriter creates a writer logging to log
func NewWriter(log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{log: log}
}

// Write writes the report to path. The error is returned for callers that
// track outcomes; it is already logged.
func (w *Writer) Write(path string, r *Report) error {
	if err := WriteFile(path, r); err != nil {
		w.log.Error("Error writing CTRF report", "output-file", path, "error", err)
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w.log.Info("CTRF report written", "output-file", abs, "tests", r.Results.Summary.Tests)
	return nil
}
