package reporter

import (
	"math"
	"strings"
	"time"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/newman"
)

// SuiteSeparator joins the segments of a suite path
const SuiteSeparator = " > "

// runState is the report under construction, carried from the start event
// to the done event.
type runState struct {
	cfg    config.Config
	report *ctrf.Report
}

func newRunState(cfg config.Config, start time.Time) *runState {
	report := ctrf.NewReport()
	report.Results.Summary.Start = start.UnixMilli()
	report.Results.Environment = environmentFrom(cfg.Environment)

	return &runState{cfg: cfg, report: report}
}

func (s *runState) aggregate(summary *newman.RunSummary) {
	collection := summary.Collection.Info.Name

	for _, exec := range summary.Run.Executions {
		if len(exec.Assertions) == 0 {
			continue
		}

		duration := durationMillis(exec.Response)
		suite := SuitePath(collection, exec.Item.Ancestors)

		for _, a := range exec.Assertions {
			test := ctrf.Test{
				Name:     TestName(exec.Item.Name, a.Assertion),
				Status:   statusOf(a),
				Duration: duration,
			}

			if !s.cfg.Minimal {
				test.Suite = ctrf.StringPtr(suite)
				test.Type = ctrf.StringPtr(s.cfg.TestType)
			}

			if a.Error != nil {
				test.Message = ctrf.StringPtr(a.Error.Message)
				if a.Error.Stack != "" {
					test.Trace = ctrf.StringPtr(a.Error.Stack)
				}
			}

			s.report.AddTest(test)
		}
	}
}

func (s *runState) finish(stop time.Time) *ctrf.Report {
	summary := &s.report.Results.Summary
	summary.Stop = stop.UnixMilli()
	if summary.Stop < summary.Start {
		summary.Stop = summary.Start
	}
	return s.report
}

func statusOf(a newman.Assertion) ctrf.Status {
	switch {
	case a.Failed():
		return ctrf.StatusFailed
	case a.Skipped:
		return ctrf.StatusSkipped
	default:
		return ctrf.StatusPassed
	}
}

// TestName is the name of an assertion's test record
func TestName(item, assertion string) string {
	if item == "" {
		return assertion
	}
	return item + " - " + assertion
}

// SuitePath joins the collection name and the ancestor folders. Empty
// segments are dropped.
func SuitePath(collection string, ancestors []string) string {
	segments := make([]string, 0, len(ancestors)+1)
	for _, s := range append([]string{collection}, ancestors...) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, SuiteSeparator)
}

func durationMillis(resp *newman.Response) int64 {
	if resp == nil || resp.ResponseTime <= 0 || math.IsNaN(resp.ResponseTime) || math.IsInf(resp.ResponseTime, 0) {
		return 0
	}
	return int64(math.Round(resp.ResponseTime))
}

func environmentFrom(env config.Environment) *ctrf.Environment {
	if env == (config.Environment{}) {
		return nil
	}
	return &ctrf.Environment{
		AppName:         env.AppName,
		AppVersion:      env.AppVersion,
		OSPlatform:      env.OSPlatform,
		OSRelease:       env.OSRelease,
		OSVersion:       env.OSVersion,
		BuildName:       env.BuildName,
		BuildNumber:     env.BuildNumber,
		BuildURL:        env.BuildURL,
		RepositoryName:  env.RepositoryName,
		RepositoryURL:   env.RepositoryURL,
		BranchName:      env.BranchName,
		TestEnvironment: env.TestEnvironment,
	}
}
