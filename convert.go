package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/git"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/metrics"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/reporter"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/source"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ui"
)

var errNoReport = errors.New("no report produced")

func (a *cliApp) convert(c *cli.Context) error {
	inputs, err := source.Expand(c.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	format, err := source.ParseFormat(c.String(flagFormat))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	opts, err := a.options(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	concurrency := c.Int(flagConcurrency)
	if concurrency < 1 {
		concurrency = 1
	}

	conv := &converter{
		cfg:      config.Normalize(opts),
		format:   format,
		log:      a.log,
		recorder: metrics.NewRecorder(),
		perInput: len(inputs) > 1,
		limit:    concurrency,
	}
	a.log.Debug("converting", "inputs", len(inputs), "format", format, "output-dir", conv.cfg.OutputDir)

	results := conv.run(c.Context, inputs)

	if !c.Bool(flagQuiet) {
		a.renderer().RenderConversions(results)
	}

	if path := c.String(flagMetricsFile); path != "" {
		if err := conv.recorder.WriteTextfile(path); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		a.log.Debug("metrics written", "metrics-file", path)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d inputs failed", failed, len(results)), 1)
	}
	return nil
}

// options layers the option file, then flags and environment variables,
// then detected git and CI values for options still undefined.
func (a *cliApp) options(c *cli.Context) (map[string]any, error) {
	fileOpts := map[string]any{}
	if path := c.String(flagConfig); path != "" {
		loaded, err := config.LoadOptions(path)
		if err != nil {
			return nil, err
		}
		fileOpts = loaded
	}

	opts := config.Merge(fileOpts, optionsFromFlags(c, a.getenv))

	if c.Bool(flagDetectCI) {
		ci := git.DetectCI(a.getenv)
		if ci.Provider != "" {
			a.log.Debug("CI detected", "provider", ci.Provider)
		}
		opts = config.FillMissing(opts, ci.Options())
	}
	if c.Bool(flagDetectGit) {
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		opts = config.FillMissing(opts, git.Detect(dir).Options())
	}

	result := config.ValidateOptions(opts)
	for _, e := range result.Errors {
		a.log.Warn("invalid option", "option", e.Field, "reason", e.Message)
	}
	for _, w := range result.Warnings {
		a.log.Warn("option ignored", "option", w.Field, "reason", w.Message)
	}

	return opts, nil
}

// converter runs one reporter per input
type converter struct {
	cfg      config.Config
	format   source.Format
	log      *slog.Logger
	recorder *metrics.Recorder
	perInput bool
	limit    int
}

func (cv *converter) run(ctx context.Context, inputs []string) []ui.ConversionResult {
	results := make([]ui.ConversionResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cv.limit)

	for i, input := range inputs {
		g.Go(func() error {
			results[i] = cv.convertOne(ctx, input)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (cv *converter) convertOne(ctx context.Context, input string) ui.ConversionResult {
	result := ui.ConversionResult{Input: input}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	log := cv.log.With("run-id", uuid.NewString(), "input", input)

	rep := reporter.New(cv.cfg, reporter.WithLogger(log), reporter.WithObserver(cv.recorder))
	if cv.perInput {
		rep.OverrideOutputFile(source.ReportName(input))
	}

	emitter := reporter.NewEmitter(log)
	if err := emitter.Register(rep); err != nil {
		result.Err = err
		return result
	}

	emitter.Start()

	summary, err := source.Load(input, cv.format)
	if err != nil {
		cv.recorder.InputFailed()
		emitter.Done(err, nil)
		result.Err = err
		return result
	}

	emitter.Done(nil, summary)

	result.Output = rep.Path()
	if rep.Report() == nil {
		result.Err = errNoReport
		return result
	}
	result.Summary = rep.Report().Results.Summary
	result.Err = rep.Err()
	return result
}
