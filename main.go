// newman-ctrf converts Newman run exports and JUnit XML results into CTRF
// JSON reports.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ui"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr, os.Getenv)
	if err := app.RunContext(ctx, args); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)

		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

// cliApp carries what the commands share
type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	log    *slog.Logger
	colors bool
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *cli.App {
	a := &cliApp{
		stdout: stdout,
		stderr: stderr,
		getenv: getenv,
		log:    slog.New(slog.NewTextHandler(stderr, nil)),
	}

	version := Version
	if GitCommit != "" {
		version = fmt.Sprintf("%s-%s", Version, GitCommit)
	}

	app := &cli.App{
		Name:      "newman-ctrf",
		Usage:     "Convert Newman and JUnit test results to CTRF JSON reports",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Before:    a.setup,
		// errors are reported by run
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Write a CTRF report for every input file",
				ArgsUsage: "<input>...",
				Description: "Inputs are Newman JSON exports (newman run -r json) or JUnit XML files.\n" +
					"Glob patterns including ** are expanded. With more than one input every\n" +
					"report is named after its input file.",
				Flags:  convertFlags(),
				Action: a.convert,
			},
			{
				Name:      "validate",
				Usage:     "Check CTRF reports against the CTRF schema",
				ArgsUsage: "<report>...",
				Flags:     validateFlags(),
				Action:    a.validate,
			},
			{
				Name:      "dashboard",
				Usage:     "Aggregate the reports of a directory into summary.json and report.html",
				ArgsUsage: "[dir]",
				Action:    a.dashboard,
			},
			{
				Name:      "validate-config",
				Usage:     "Check an option file",
				ArgsUsage: "<file>...",
				Action:    a.validateConfig,
			},
		},
	}
	return app
}

// setup builds the logger and color settings from the global flags
func (a *cliApp) setup(c *cli.Context) error {
	level, err := parseLevel(c.String(flagLogLevel))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch c.String(flagLogFormat) {
	case "text":
		a.log = slog.New(slog.NewTextHandler(a.stderr, opts))
	case "json":
		a.log = slog.New(slog.NewJSONHandler(a.stderr, opts))
	default:
		return cli.Exit(fmt.Sprintf("invalid log format %q", c.String(flagLogFormat)), 2)
	}

	a.colors = false
	if f, ok := a.stdout.(*os.File); ok && !c.Bool(flagNoColor) {
		a.colors = ui.IsColorEnabled(f)
	}
	return nil
}

func (a *cliApp) renderer() *ui.Renderer {
	return ui.NewRenderer(a.stdout, a.colors)
}
