package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/dashboard"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/source"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ui"
)

func (a *cliApp) validate(c *cli.Context) error {
	paths, err := source.Expand(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	colors := ui.NewColors(a.colors)
	renderer := a.renderer()

	invalid := 0
	for _, path := range paths {
		if err := ctrf.ValidateFile(path); err != nil {
			invalid++
			fmt.Fprintf(a.stdout, "%s %s\n", colors.Red("✗"), path)
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(a.stdout, "  - %s\n", line)
			}
			continue
		}

		fmt.Fprintf(a.stdout, "%s %s\n", colors.Green("✓"), path)
		if c.Bool(flagSummary) {
			report, err := ctrf.ReadFile(path)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			renderer.RenderSummary(path, report)
		}
	}

	if invalid > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d reports invalid", invalid, len(paths)), 1)
	}
	return nil
}

func (a *cliApp) validateConfig(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("no option file given", 2)
	}

	colors := ui.NewColors(a.colors)

	allValid := true
	for _, path := range c.Args().Slice() {
		result, err := config.ValidateOptionsFile(path)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}

		if result.Valid {
			fmt.Fprintf(a.stdout, "%s %s\n", colors.Green("✓"), path)
		} else {
			allValid = false
			fmt.Fprintf(a.stdout, "%s %s\n", colors.Red("✗"), path)
		}

		for _, e := range result.Errors {
			fmt.Fprintf(a.stdout, "  %s %s\n", colors.Red("ERROR:"), e.Error())
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(a.stdout, "  %s %s\n", colors.Yellow("WARNING:"), w.Error())
		}
	}

	if !allValid {
		return cli.Exit("option validation failed", 1)
	}
	return nil
}

func (a *cliApp) dashboard(c *cli.Context) error {
	dir := config.DefaultOutputDir
	if c.NArg() > 0 {
		dir = c.Args().First()
	}

	summary, err := dashboard.Generate(dir)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	colors := ui.NewColors(a.colors)
	fmt.Fprintf(a.stdout, "%s %s (%d reports, %d tests)\n",
		colors.Green("✓"), filepath.Join(dir, "report.html"), summary.TotalReports, len(summary.TestStats))
	return nil
}
