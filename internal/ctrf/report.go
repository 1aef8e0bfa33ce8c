// Package ctrf defines the Common Test Report Format document and how it is
// persisted and validated.
package ctrf

import "fmt"

// ToolName identifies the producing tool in every report
const ToolName = "newman"

// Status is the outcome of a single test
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusPending Status = "pending"
	StatusOther   Status = "other"
)

// Report is the root of a CTRF document
type Report struct {
	Results Results `json:"results"`
}

// Results holds everything a run produced
type Results struct {
	Tool        Tool         `json:"tool"`
	Summary     Summary      `json:"summary"`
	Tests       []Test       `json:"tests"`
	Environment *Environment `json:"environment,omitempty"`
}

// Tool names the producer
type Tool struct {
	Name string `json:"name"`
}

// Summary holds the aggregate counters. Start and Stop are epoch
// milliseconds.
type Summary struct {
	Tests   int   `json:"tests"`
	Passed  int   `json:"passed"`
	Failed  int   `json:"failed"`
	Pending int   `json:"pending"`
	Skipped int   `json:"skipped"`
	Other   int   `json:"other"`
	Start   int64 `json:"start"`
	Stop    int64 `json:"stop"`
}

// Test is one assertion outcome. Suite and Type are nil in minimal
// reports; Message and Trace are set only for failures.
type Test struct {
	Name     string  `json:"name"`
	Status   Status  `json:"status"`
	Duration int64   `json:"duration"`
	Suite    *string `json:"suite,omitempty"`
	Type     *string `json:"type,omitempty"`
	Message  *string `json:"message,omitempty"`
	Trace    *string `json:"trace,omitempty"`
}

// Environment describes the system under test. Empty fields are omitted.
type Environment struct {
	AppName         string `json:"appName,omitempty"`
	AppVersion      string `json:"appVersion,omitempty"`
	OSPlatform      string `json:"osPlatform,omitempty"`
	OSRelease       string `json:"osRelease,omitempty"`
	OSVersion       string `json:"osVersion,omitempty"`
	BuildName       string `json:"buildName,omitempty"`
	BuildNumber     string `json:"buildNumber,omitempty"`
	BuildURL        string `json:"buildUrl,omitempty"`
	RepositoryName  string `json:"repositoryName,omitempty"`
	RepositoryURL   string `json:"repositoryUrl,omitempty"`
	BranchName      string `json:"branchName,omitempty"`
	TestEnvironment string `json:"testEnvironment,omitempty"`
}

// NewReport returns an empty report for the newman tool
func NewReport() *Report {
	return &Report{
		Results: Results{
			Tool:  Tool{Name: ToolName},
			Tests: []Test{},
		},
	}
}

// AddTest appends a test and counts it
func (r *Report) AddTest(t Test) {
	r.Results.Tests = append(r.Results.Tests, t)
	r.Results.Summary.Add(t.Status)
}

// Add counts one test with the given status. Unknown statuses count as
// other so the total always matches the status counters.
func (s *Summary) Add(status Status) {
	s.Tests++
	switch status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	case StatusPending:
		s.Pending++
	default:
		s.Other++
	}
}

// Check verifies the summary against itself and the test list
func (r *Report) Check() []error {
	var errs []error
	s := r.Results.Summary

	if sum := s.Passed + s.Failed + s.Skipped + s.Pending + s.Other; s.Tests != sum {
		errs = append(errs, fmt.Errorf("summary.tests is %d but status counters add up to %d", s.Tests, sum))
	}
	if s.Tests != len(r.Results.Tests) {
		errs = append(errs, fmt.Errorf("summary.tests is %d but the report lists %d tests", s.Tests, len(r.Results.Tests)))
	}
	if s.Stop < s.Start {
		errs = append(errs, fmt.Errorf("summary.stop %d is before summary.start %d", s.Stop, s.Start))
	}

	var counted Summary
	for _, t := range r.Results.Tests {
		counted.Add(t.Status)
	}
	counted.Start, counted.Stop = s.Start, s.Stop
	if counted != s && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("status counters %+v do not match the test list %+v", s, counted))
	}

	return errs
}

// Consistent reports whether Check finds nothing
func (r *Report) Consistent() bool {
	return len(r.Check()) == 0
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
