package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
)

func sampleReport() *ctrf.Report {
	r := ctrf.NewReport()
	r.Results.Summary.Start = 1000
	r.Results.Summary.Stop = 2500
	r.AddTest(ctrf.Test{Name: "Health - Status code is 200", Status: ctrf.StatusPassed, Suite: ctrf.StringPtr("API")})
	r.AddTest(ctrf.Test{
		Name:    "Create - Status code is 201",
		Status:  ctrf.StatusFailed,
		Suite:   ctrf.StringPtr("API > Orders"),
		Message: ctrf.StringPtr("expected \x1b[31m500\x1b[0m to equal 201\nsecond line"),
	})
	r.AddTest(ctrf.Test{Name: "Refund - skipped", Status: ctrf.StatusSkipped})
	return r
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	r.RenderSummary("orders.json", sampleReport())
	out := buf.String()

	for _, want := range []string{"orders.json", "passed", "failed", "skipped", "pending", "other", "TOTAL", "1.5s", "newman"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain output contains escape codes:\n%q", out)
	}
}

func TestRenderSummaryColored(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderSummary("orders.json", sampleReport())

	if !strings.Contains(buf.String(), ColorGreen) {
		t.Error("colored output should contain color codes")
	}
}

func TestRenderFailures(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	r.RenderFailures(sampleReport())
	out := buf.String()

	if !strings.Contains(out, "1 failed") {
		t.Errorf("missing failure count:\n%s", out)
	}
	if !strings.Contains(out, "expected 500 to equal 201") {
		t.Errorf("expected sanitized first message line:\n%s", out)
	}
	if strings.Contains(out, "second line") {
		t.Errorf("only the first message line should be shown:\n%s", out)
	}
	if strings.Contains(out, "Health") {
		t.Errorf("passed tests should not be listed:\n%s", out)
	}
}

func TestRenderFailuresNone(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	report := ctrf.NewReport()
	report.AddTest(ctrf.Test{Name: "ok", Status: ctrf.StatusPassed})
	r.RenderFailures(report)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", buf.String())
	}
}

func TestRenderConversions(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	r.RenderConversions([]ConversionResult{
		{Input: "runs/a.json", Output: "ctrf/a.json", Summary: ctrf.Summary{Tests: 3, Passed: 3}},
		{Input: "runs/b.json", Output: "ctrf/b.json", Summary: ctrf.Summary{Tests: 2, Passed: 1, Failed: 1}},
		{Input: "runs/c.json", Err: errors.New("bad json")},
	})
	out := buf.String()

	for _, want := range []string{"runs/a.json", "ctrf/b.json", "PASS", "FAIL", "ERROR", "2 WRITTEN"} {
		if !strings.Contains(out, want) {
			t.Errorf("conversions missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0ms"},
		{250, "250ms"},
		{1500, "1.5s"},
		{61000, "1m1s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.ms); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
