package features

import (
	"errors"
	"fmt"
	"os"

	"github.com/cucumber/godog"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/source"
)

type reportGenerationContext struct {
	*sharedContext
}

func (c *reportGenerationContext) theNewmanRun(name string) error {
	summary, err := source.LoadNewman(fixture("newman", name))
	if err != nil {
		return err
	}
	c.summary = summary
	return nil
}

func (c *reportGenerationContext) theJUnitResults(name string) error {
	summary, err := source.LoadJUnit(fixture("junit", name))
	if err != nil {
		return err
	}
	c.summary = summary
	return nil
}

func (c *reportGenerationContext) theOptionIs(key, value string) error {
	c.opts[key] = value
	return nil
}

func (c *reportGenerationContext) theRunIsReported() error {
	r := c.newReporter()
	r.OnStart()
	r.OnDone(nil, c.summary)
	c.report = r.Report()
	return nil
}

func (c *reportGenerationContext) theRunIsReportedWithoutStart() error {
	r := c.newReporter()
	r.OnDone(nil, c.summary)
	c.report = r.Report()
	return nil
}

func (c *reportGenerationContext) theRunFailsWith(message string) error {
	r := c.newReporter()
	r.OnStart()
	r.OnDone(errors.New(message), c.summary)
	c.report = r.Report()
	return nil
}

func (c *reportGenerationContext) aReportIsWrittenTo(path string) error {
	full := c.scenarioPath(path)
	if _, err := os.Stat(full); err != nil {
		return fmt.Errorf("expected report at %s: %w", path, err)
	}
	if c.reporter.Path() != full {
		return fmt.Errorf("expected reporter path %s, got %s", full, c.reporter.Path())
	}
	return nil
}

func (c *reportGenerationContext) noReportIsWritten() error {
	if c.report != nil {
		return fmt.Errorf("expected no report, got %d tests", c.report.Results.Summary.Tests)
	}
	entries, err := os.ReadDir(c.scenarioPath("ctrf"))
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("expected empty output directory, found %s", entries[0].Name())
	}
	return nil
}

func (c *reportGenerationContext) theSummaryCounts(tests, passed, failed, skipped int) error {
	if c.report == nil {
		return fmt.Errorf("no report was produced")
	}
	s := c.report.Results.Summary
	if s.Tests != tests || s.Passed != passed || s.Failed != failed || s.Skipped != skipped {
		return fmt.Errorf("expected %d tests (%d passed, %d failed, %d skipped), got %+v", tests, passed, failed, skipped, s)
	}
	return nil
}

func (c *reportGenerationContext) theReportIsValidCTRF() error {
	return ctrf.ValidateFile(c.reporter.Path())
}

func (c *reportGenerationContext) theRunLasts(ms int64) error {
	s := c.report.Results.Summary
	if s.Stop-s.Start != ms {
		return fmt.Errorf("expected run to last %dms, got %dms", ms, s.Stop-s.Start)
	}
	return nil
}

func (c *reportGenerationContext) theTestHasStatus(name, status string) error {
	test, err := c.findTest(name)
	if err != nil {
		return err
	}
	if string(test.Status) != status {
		return fmt.Errorf("expected %q to be %s, got %s", name, status, test.Status)
	}
	return nil
}

func (c *reportGenerationContext) theTestHasSuite(name, suite string) error {
	test, err := c.findTest(name)
	if err != nil {
		return err
	}
	if test.Suite == nil || *test.Suite != suite {
		return fmt.Errorf("expected %q in suite %q, got %v", name, suite, test.Suite)
	}
	return nil
}

func (c *reportGenerationContext) theTestHasMessage(name, message string) error {
	test, err := c.findTest(name)
	if err != nil {
		return err
	}
	if test.Message == nil || *test.Message != message {
		return fmt.Errorf("expected %q to have message %q, got %v", name, message, test.Message)
	}
	return nil
}

func (c *reportGenerationContext) noTestHasASuiteOrType() error {
	for _, test := range c.report.Results.Tests {
		if test.Suite != nil || test.Type != nil {
			return fmt.Errorf("expected %q without suite and type", test.Name)
		}
	}
	return nil
}

func (c *reportGenerationContext) everyTestHasType(testType string) error {
	for _, test := range c.report.Results.Tests {
		if test.Type == nil || *test.Type != testType {
			return fmt.Errorf("expected %q to have type %q, got %v", test.Name, testType, test.Type)
		}
	}
	return nil
}

func (c *reportGenerationContext) theReportEnvironmentHas(field, value string) error {
	env := c.report.Results.Environment
	if env == nil {
		return fmt.Errorf("report has no environment")
	}
	got := map[string]string{
		"appName":         env.AppName,
		"appVersion":      env.AppVersion,
		"buildNumber":     env.BuildNumber,
		"branchName":      env.BranchName,
		"testEnvironment": env.TestEnvironment,
	}[field]
	if got != value {
		return fmt.Errorf("expected environment %s = %q, got %q", field, value, got)
	}
	return nil
}

func (c *reportGenerationContext) theReportHasNoEnvironment() error {
	if c.report.Results.Environment != nil {
		return fmt.Errorf("expected no environment, got %+v", *c.report.Results.Environment)
	}
	return nil
}

// InitializeReportGenerationScenario registers the report generation steps
func InitializeReportGenerationScenario(sc *godog.ScenarioContext, shared *sharedContext) {
	c := &reportGenerationContext{sharedContext: shared}

	sc.Step(`^the Newman run "([^"]*)"$`, c.theNewmanRun)
	sc.Step(`^the JUnit results "([^"]*)"$`, c.theJUnitResults)
	sc.Step(`^the option "([^"]*)" is "([^"]*)"$`, c.theOptionIs)
	sc.Step(`^the run is reported$`, c.theRunIsReported)
	sc.Step(`^the run is reported without a start event$`, c.theRunIsReportedWithoutStart)
	sc.Step(`^the run fails with "([^"]*)"$`, c.theRunFailsWith)
	sc.Step(`^a report is written to "([^"]*)"$`, c.aReportIsWrittenTo)
	sc.Step(`^no report is written$`, c.noReportIsWritten)
	sc.Step(`^the summary counts (\d+) tests, (\d+) passed, (\d+) failed, (\d+) skipped$`, c.theSummaryCounts)
	sc.Step(`^the report is valid CTRF$`, c.theReportIsValidCTRF)
	sc.Step(`^the run lasts (\d+)ms$`, c.theRunLasts)
	sc.Step(`^the test "([^"]*)" has status "([^"]*)"$`, c.theTestHasStatus)
	sc.Step(`^the test "([^"]*)" has suite "([^"]*)"$`, c.theTestHasSuite)
	sc.Step(`^the test "([^"]*)" has message "([^"]*)"$`, c.theTestHasMessage)
	sc.Step(`^no test has a suite or type$`, c.noTestHasASuiteOrType)
	sc.Step(`^every test has type "([^"]*)"$`, c.everyTestHasType)
	sc.Step(`^the report environment has (\w+) "([^"]*)"$`, c.theReportEnvironmentHas)
	sc.Step(`^the report has no environment$`, c.theReportHasNoEnvironment)
	sc.Step(`^the logs should contain "([^"]*)"$`, c.theLogsShouldContain)
}
