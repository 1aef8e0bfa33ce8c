package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/source"
)

// Flag names
const (
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
	flagNoColor     = "no-color"
	flagConfig      = "config"
	flagFormat      = "format"
	flagConcurrency = "concurrency"
	flagMetricsFile = "metrics-file"
	flagDetectGit   = "detect-git"
	flagDetectCI    = "detect-ci"
	flagQuiet       = "quiet"
	flagSummary     = "summary"
)

func prefixEnvVar(name string) []string {
	return []string{config.EnvVarPrefix + "_" + name}
}

// Flags are built per app: urfave/cli stores environment values in the
// flag itself.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagLogLevel,
			Value:   "info",
			EnvVars: prefixEnvVar("LOG_LEVEL"),
			Usage:   "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:    flagLogFormat,
			Value:   "text",
			EnvVars: prefixEnvVar("LOG_FORMAT"),
			Usage:   "Log format: text, json",
		},
		&cli.BoolFlag{
			Name:  flagNoColor,
			Usage: "Disable colored output (NO_COLOR is honored as well)",
		},
	}
}

func convertFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			EnvVars: prefixEnvVar("CONFIG"),
			Usage:   "Path to an option file (.toml, .yaml or .json)",
		},
		&cli.StringFlag{
			Name:    flagFormat,
			Value:   string(source.FormatAuto),
			EnvVars: prefixEnvVar("INPUT_FORMAT"),
			Usage:   "Input format: " + strings.Join(formatNames(), ", "),
		},
		&cli.IntFlag{
			Name:    flagConcurrency,
			Value:   4,
			EnvVars: prefixEnvVar("CONCURRENCY"),
			Usage:   "Maximum number of inputs converted at once",
		},
		&cli.StringFlag{
			Name:    flagMetricsFile,
			EnvVars: prefixEnvVar("METRICS_FILE"),
			Usage:   "Write Prometheus metrics in the text format to this file",
		},
		&cli.BoolFlag{
			Name:    flagDetectGit,
			EnvVars: prefixEnvVar("DETECT_GIT"),
			Usage:   "Fill repository and branch options from the git checkout",
		},
		&cli.BoolFlag{
			Name:    flagDetectCI,
			EnvVars: prefixEnvVar("DETECT_CI"),
			Usage:   "Fill build options from CI environment variables",
		},
		&cli.BoolFlag{
			Name:    flagQuiet,
			Aliases: []string{"q"},
			Usage:   "Do not print the conversion table",
		},
	}
	return append(flags, optionFlags()...)
}

func validateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  flagSummary,
			Usage: "Print a status table for every valid report",
		},
	}
}

// optionFlags exposes every reporter option as a flag and an environment
// variable (outputDir -> --output-dir, CTRF_OUTPUT_DIR).
func optionFlags() []cli.Flag {
	var flags []cli.Flag
	for _, o := range config.Options() {
		category := "Report options"
		if o.Group == "environment" {
			category = "Environment options"
		}

		// boolean environment values are read by optionsFromFlags so they
		// follow the same rules as option files
		if o.Kind == "bool" {
			flags = append(flags, &cli.BoolFlag{
				Name:     config.FlagName(o.Key),
				Usage:    fmt.Sprintf("%s [$%s]", o.Doc, config.EnvVar(o.Key)),
				Category: category,
			})
			continue
		}
		flags = append(flags, &cli.StringFlag{
			Name:     config.FlagName(o.Key),
			Value:    o.Default,
			EnvVars:  []string{config.EnvVar(o.Key)},
			Usage:    o.Doc,
			Category: category,
		})
	}
	return flags
}

// optionsFromFlags collects the options given on the command line or in
// the environment, keyed by canonical option name. Unset flags are absent
// so lower layers keep their values. A boolean flag wins over its
// environment variable, whose raw value is left to config.Normalize.
func optionsFromFlags(c *cli.Context, getenv func(string) string) map[string]any {
	opts := map[string]any{}
	for _, o := range config.Options() {
		name := config.FlagName(o.Key)
		switch {
		case o.Kind == "bool" && c.IsSet(name):
			opts[o.Key] = c.Bool(name)
		case o.Kind == "bool":
			if v := getenv(config.EnvVar(o.Key)); v != "" {
				opts[o.Key] = v
			}
		case c.IsSet(name):
			opts[o.Key] = c.String(name)
		}
	}
	return opts
}

func formatNames() []string {
	names := make([]string, len(source.Formats))
	for i, f := range source.Formats {
		names[i] = string(f)
	}
	return names
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}
