package features

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/newman"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/reporter"
)

// sharedContext holds ALL state for a scenario - used by all step definitions
type sharedContext struct {
	tempDir string
	opts    map[string]any
	logs    bytes.Buffer

	// Run fields
	summary  *newman.RunSummary
	reporter *reporter.Reporter
	report   *ctrf.Report

	// Option file fields
	optionFile string
	validation *config.ValidationResult
}

func newSharedContext() (*sharedContext, error) {
	dir, err := os.MkdirTemp("", "ctrf-features-")
	if err != nil {
		return nil, err
	}
	return &sharedContext{
		tempDir: dir,
		opts:    map[string]any{},
	}, nil
}

// fixture resolves a file under the repository testdata directory
func fixture(kind, name string) string {
	return filepath.Join("..", "testdata", kind, name)
}

// newReporter builds a reporter writing below the scenario directory
func (c *sharedContext) newReporter() *reporter.Reporter {
	// relative output directories land in the scenario directory
	opts := config.Merge(c.opts)
	if config.Normalize(opts).OutputDir == config.DefaultOutputDir {
		opts["outputDir"] = config.DefaultOutputDir
	}
	for _, key := range []string{"outputDir", "ctrfJsonOutputDir"} {
		if dir, ok := opts[key].(string); ok && dir != "" && !filepath.IsAbs(dir) {
			opts[key] = filepath.Join(c.tempDir, dir)
		}
	}

	log := slog.New(slog.NewTextHandler(&c.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	start := time.UnixMilli(1700000000000)
	calls := 0
	clock := func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 800 * time.Millisecond)
	}

	c.reporter = reporter.New(config.Normalize(opts), reporter.WithLogger(log), reporter.WithClock(clock))
	return c.reporter
}

// scenarioPath resolves a path relative to the scenario directory
func (c *sharedContext) scenarioPath(path string) string {
	return filepath.Join(c.tempDir, filepath.FromSlash(path))
}

// findTest returns the report test with the given name
func (c *sharedContext) findTest(name string) (*ctrf.Test, error) {
	if c.report == nil {
		return nil, fmt.Errorf("no report was produced")
	}
	var names []string
	for i := range c.report.Results.Tests {
		if c.report.Results.Tests[i].Name == name {
			return &c.report.Results.Tests[i], nil
		}
		names = append(names, c.report.Results.Tests[i].Name)
	}
	return nil, fmt.Errorf("test %q not found in [%s]", name, strings.Join(names, ", "))
}

// theLogsShouldContain checks the reporter log output
func (c *sharedContext) theLogsShouldContain(expected string) error {
	if !strings.Contains(c.logs.String(), expected) {
		return fmt.Errorf("expected logs to contain %q, got: %s", expected, c.logs.String())
	}
	return nil
}

// cleanup removes temporary directories
func (c *sharedContext) cleanup() {
	if c.tempDir != "" {
		_ = os.RemoveAll(c.tempDir)
	}
}
