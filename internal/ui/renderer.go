package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
)

// Renderer prints reports and conversion results as tables
type Renderer struct {
	out    io.Writer
	colors *Colors
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, enableColors bool) *Renderer {
	return &Renderer{
		out:    out,
		colors: NewColors(enableColors),
	}
}

// ConversionResult is the outcome of converting one input
type ConversionResult struct {
	Input   string
	Output  string
	Summary ctrf.Summary
	Err     error
}

var statusOrder = []ctrf.Status{
	ctrf.StatusPassed,
	ctrf.StatusFailed,
	ctrf.StatusSkipped,
	ctrf.StatusPending,
	ctrf.StatusOther,
}

func countFor(s ctrf.Summary, status ctrf.Status) int {
	switch status {
	case ctrf.StatusPassed:
		return s.Passed
	case ctrf.StatusFailed:
		return s.Failed
	case ctrf.StatusSkipped:
		return s.Skipped
	case ctrf.StatusPending:
		return s.Pending
	default:
		return s.Other
	}
}

// RenderSummary prints the status counters of a report
func (r *Renderer) RenderSummary(title string, report *ctrf.Report) {
	s := report.Results.Summary

	t := table.NewWriter()
	t.SetTitle("%s", title)
	t.AppendHeader(table.Row{"Status", "Tests"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Tests", Align: text.AlignRight},
	})

	for _, status := range statusOrder {
		label := r.colors.StatusSymbol(status) + " " + r.colors.StatusColor(status, string(status))
		t.AppendRow(table.Row{label, countFor(s, status)})
	}

	t.AppendFooter(table.Row{"Total", s.Tests})
	t.SetCaption("tool: %s, duration: %s", report.Results.Tool.Name, formatDuration(s.Stop-s.Start))
	r.style(t, s)

	r.write(t.Render() + "\n")
}

// RenderFailures lists failed tests with their messages. Nothing is
// printed when no test failed.
func (r *Renderer) RenderFailures(report *ctrf.Report) {
	var failed []ctrf.Test
	for _, test := range report.Results.Tests {
		if test.Status == ctrf.StatusFailed {
			failed = append(failed, test)
		}
	}
	if len(failed) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetTitle("%s", r.colors.Red(fmt.Sprintf("%d failed", len(failed))))
	t.AppendHeader(table.Row{"Test", "Suite", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Suite", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Message", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, test := range failed {
		t.AppendRow(table.Row{test.Name, deref(test.Suite), firstLine(deref(test.Message))})
	}
	t.SetStyle(table.StyleLight)

	r.write(t.Render() + "\n")
}

// RenderConversions prints one row per converted input
func (r *Renderer) RenderConversions(results []ConversionResult) {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Input", "Report", "Tests", "Passed", "Failed", "Skipped", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Input", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Report", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
	})

	var total ctrf.Summary
	errored := 0
	for _, res := range results {
		if res.Err != nil {
			errored++
			t.AppendRow(table.Row{res.Input, "-", "-", "-", "-", "-", r.colors.Red("ERROR")})
			continue
		}

		s := res.Summary
		total.Tests += s.Tests
		total.Passed += s.Passed
		total.Failed += s.Failed
		total.Skipped += s.Skipped

		status := r.colors.Green("PASS")
		if s.Failed > 0 {
			status = r.colors.Red("FAIL")
		}
		t.AppendRow(table.Row{res.Input, res.Output, s.Tests, s.Passed, s.Failed, s.Skipped, status})
	}

	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%d written", len(results)-errored), total.Tests, total.Passed, total.Failed, total.Skipped, ""})
	if errored > 0 {
		total.Failed++
	}
	r.style(t, total)

	r.write(t.Render() + "\n")
}

func (r *Renderer) style(t table.Writer, s ctrf.Summary) {
	if !r.colors.Enabled() {
		t.SetStyle(table.StyleLight)
		return
	}

	switch {
	case s.Failed > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case s.Skipped > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}
}

// write strips color codes, including those carried in test names and
// messages, when colors are disabled.
func (r *Renderer) write(s string) {
	if !r.colors.Enabled() {
		s = stripansi.Strip(s)
	}
	_, _ = io.WriteString(r.out, s)
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
