package features

import (
	"context"
	"testing"

	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			// Create ONE shared context instance per scenario
			shared, err := newSharedContext()
			if err != nil {
				t.Fatalf("failed to create scenario directory: %v", err)
			}

			// Initialize all step definitions with the same shared context
			InitializeReportGenerationScenario(sc, shared)
			InitializeOptionValidationScenario(sc, shared)

			sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
				shared.cleanup()
				return ctx, err
			})
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"."},
			Tags:     "~@wip", // Exclude work-in-progress scenarios
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
