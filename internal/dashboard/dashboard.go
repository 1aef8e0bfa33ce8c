// Package dashboard aggregates the CTRF reports of a directory into a
// summary.json and a static report.html.
package dashboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
)

// MaxRecentReports bounds the report list of the summary
const MaxRecentReports = 20

// Summary holds aggregated data across all reports
type Summary struct {
	TotalReports  int                  `json:"totalReports"`
	RecentReports []ReportSummary      `json:"recentReports"`
	TestStats     map[string]TestStats `json:"testStats"`
	LastGenerated string               `json:"lastGenerated"`
}

// ReportSummary is a condensed view of a single report
type ReportSummary struct {
	Path      string `json:"path"`
	Start     int64  `json:"start"`
	Status    string `json:"status"` // "PASS", "FAIL", "SKIPPED"
	Duration  int64  `json:"duration"`
	Tests     int    `json:"tests"`
	PassCount int    `json:"passCount"`
	FailCount int    `json:"failCount"`
	SkipCount int    `json:"skipCount"`
}

// TestStats holds statistics for one test across reports. Tests are keyed
// by suite and name.
type TestStats struct {
	Name        string  `json:"name"`
	Suite       string  `json:"suite,omitempty"`
	TotalRuns   int     `json:"totalRuns"`
	PassCount   int     `json:"passCount"`
	FailCount   int     `json:"failCount"`
	SkipCount   int     `json:"skipCount"`
	AvgDuration float64 `json:"avgDuration"`
	LastStatus  string  `json:"lastStatus"`
	// Flaky is set when the test both passed and failed
	Flaky bool `json:"flaky"`
}

type loadedReport struct {
	path   string
	report *ctrf.Report
}

// Generate reads every report below dir and writes summary.json and
// report.html into dir. Files that are not CTRF reports are skipped.
func Generate(dir string) (Summary, error) {
	reports, err := loadReports(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load reports: %w", err)
	}

	summary := aggregate(reports, time.Now())

	if err := writeSummaryJSON(filepath.Join(dir, "summary.json"), summary); err != nil {
		return Summary{}, fmt.Errorf("failed to write summary.json: %w", err)
	}
	if err := writeHTMLDashboard(filepath.Join(dir, "report.html"), summary); err != nil {
		return Summary{}, fmt.Errorf("failed to write report.html: %w", err)
	}

	return summary, nil
}

// loadReports reads all CTRF reports below dir, newest first
func loadReports(dir string) ([]loadedReport, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	paths, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*.json"), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	var reports []loadedReport
	for _, path := range paths {
		if filepath.Base(path) == "summary.json" {
			continue
		}

		report, err := ctrf.ReadFile(path)
		if err != nil || report.Results.Tool.Name == "" {
			continue // Skip anything that is not a report
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		reports = append(reports, loadedReport{path: filepath.ToSlash(rel), report: report})
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].report.Results.Summary.Start > reports[j].report.Results.Summary.Start
	})

	return reports, nil
}

// aggregate creates a summary from reports ordered newest first
func aggregate(reports []loadedReport, now time.Time) Summary {
	summary := Summary{
		TotalReports:  len(reports),
		RecentReports: []ReportSummary{},
		TestStats:     make(map[string]TestStats),
		LastGenerated: now.UTC().Format(time.RFC3339),
	}

	// Track test durations
	durations := make(map[string][]int64)

	for i, r := range reports {
		if i < MaxRecentReports {
			summary.RecentReports = append(summary.RecentReports, summarizeReport(r))
		}

		for _, test := range r.report.Results.Tests {
			key := testKey(test)
			stats, exists := summary.TestStats[key]
			if !exists {
				stats = TestStats{Name: test.Name}
				if test.Suite != nil {
					stats.Suite = *test.Suite
				}
				// reports are newest first
				stats.LastStatus = string(test.Status)
			}

			stats.TotalRuns++
			switch test.Status {
			case ctrf.StatusPassed:
				stats.PassCount++
			case ctrf.StatusFailed:
				stats.FailCount++
			case ctrf.StatusSkipped:
				stats.SkipCount++
			}
			stats.Flaky = stats.PassCount > 0 && stats.FailCount > 0

			if test.Status != ctrf.StatusSkipped {
				durations[key] = append(durations[key], test.Duration)
			}

			summary.TestStats[key] = stats
		}
	}

	for key, ds := range durations {
		var sum int64
		for _, d := range ds {
			sum += d
		}
		stats := summary.TestStats[key]
		stats.AvgDuration = float64(sum) / float64(len(ds))
		summary.TestStats[key] = stats
	}

	return summary
}

func testKey(test ctrf.Test) string {
	if test.Suite == nil {
		return test.Name
	}
	return *test.Suite + " / " + test.Name
}

// summarizeReport creates a ReportSummary from a report
func summarizeReport(r loadedReport) ReportSummary {
	s := r.report.Results.Summary
	summary := ReportSummary{
		Path:      r.path,
		Start:     s.Start,
		Duration:  s.Stop - s.Start,
		Tests:     s.Tests,
		PassCount: s.Passed,
		FailCount: s.Failed,
		SkipCount: s.Skipped,
	}

	switch {
	case s.Failed > 0:
		summary.Status = "FAIL"
	case s.Tests > 0 && s.Skipped == s.Tests:
		summary.Status = "SKIPPED"
	default:
		summary.Status = "PASS"
	}

	return summary
}

// writeSummaryJSON writes the summary to a JSON file
func writeSummaryJSON(path string, summary Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
