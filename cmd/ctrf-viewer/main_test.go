package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
)

func writeReport(t *testing.T, path string, failed bool) {
	t.Helper()

	report := ctrf.NewReport()
	report.Results.Tool.Name = ctrf.ToolName
	report.AddTest(ctrf.Test{Name: "GET /health - Status code is 200", Status: ctrf.StatusPassed})
	if failed {
		report.AddTest(ctrf.Test{
			Name:    "POST /orders - Status code is 201",
			Status:  ctrf.StatusFailed,
			Suite:   ctrf.StringPtr("Orders API > Orders"),
			Message: ctrf.StringPtr("expected 201\ngot 500"),
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := ctrf.WriteFile(path, report); err != nil {
		t.Fatal(err)
	}
}

func TestRunShowsFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	writeReport(t, path, true)

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1 with failed tests, got %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "report.json") {
		t.Errorf("expected title in output, got:\n%s", out)
	}
	if !strings.Contains(out, "expected 201") || strings.Contains(out, "got 500") {
		t.Errorf("expected first message line only, got:\n%s", out)
	}
}

func TestRunSummaryOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	writeReport(t, path, false)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-s", path}, &stdout, &stderr)

	if code != 0 {
		t.Errorf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "TOTAL") {
		t.Errorf("expected summary table, got:\n%s", stdout.String())
	}
}

func TestRunDirectory(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, filepath.Join(dir, "a", "orders.json"), false)
	writeReport(t, filepath.Join(dir, "b", "payments.json"), false)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-d", dir}, &stdout, &stderr)

	if code != 0 {
		t.Errorf("expected exit 0, got %d: %s", code, stderr.String())
	}
	for _, name := range []string{"orders.json", "payments.json"} {
		if !strings.Contains(stdout.String(), name) {
			t.Errorf("expected %s in output", name)
		}
	}
}

func TestRunBadReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Error parsing") {
		t.Errorf("expected parse error, got: %s", stderr.String())
	}
}
