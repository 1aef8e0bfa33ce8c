package features

import (
	"fmt"
	"os"
	"strings"

	"github.com/cucumber/godog"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
)

type optionValidationContext struct {
	*sharedContext
}

func (c *optionValidationContext) anOptionFileWith(name string, content *godog.DocString) error {
	c.optionFile = c.scenarioPath(name)
	return os.WriteFile(c.optionFile, []byte(content.Content), 0644)
}

func (c *optionValidationContext) theOptionFileIsValidated() error {
	result, err := config.ValidateOptionsFile(c.optionFile)
	if err != nil {
		return err
	}
	c.validation = result
	return nil
}

func (c *optionValidationContext) theOptionFileIsLoaded() error {
	opts, err := config.LoadOptions(c.optionFile)
	if err != nil {
		return err
	}
	for k, v := range opts {
		c.opts[k] = v
	}
	return nil
}

func (c *optionValidationContext) theValidationShouldSucceed() error {
	if !c.validation.Valid {
		return fmt.Errorf("expected validation to succeed, got errors: %v", c.validation.Errors)
	}
	return nil
}

func (c *optionValidationContext) theValidationShouldFail() error {
	if c.validation.Valid {
		return fmt.Errorf("expected validation to fail")
	}
	return nil
}

func (c *optionValidationContext) thereShouldBeAWarningFor(field string) error {
	var fields []string
	for _, w := range c.validation.Warnings {
		if w.Field == field {
			return nil
		}
		fields = append(fields, w.Field)
	}
	return fmt.Errorf("expected a warning for %q, got warnings for [%s]", field, strings.Join(fields, ", "))
}

func (c *optionValidationContext) thereShouldBeNoWarnings() error {
	if len(c.validation.Warnings) > 0 {
		return fmt.Errorf("expected no warnings, got %v", c.validation.Warnings)
	}
	return nil
}

// InitializeOptionValidationScenario registers the option file steps
func InitializeOptionValidationScenario(sc *godog.ScenarioContext, shared *sharedContext) {
	c := &optionValidationContext{sharedContext: shared}

	sc.Step(`^an option file "([^"]*)" with:$`, c.anOptionFileWith)
	sc.Step(`^the option file is validated$`, c.theOptionFileIsValidated)
	sc.Step(`^the option file is loaded$`, c.theOptionFileIsLoaded)
	sc.Step(`^the validation should succeed$`, c.theValidationShouldSucceed)
	sc.Step(`^the validation should fail$`, c.theValidationShouldFail)
	sc.Step(`^there should be a warning for "([^"]*)"$`, c.thereShouldBeAWarningFor)
	sc.Step(`^there should be no warnings$`, c.thereShouldBeNoWarnings)
}
