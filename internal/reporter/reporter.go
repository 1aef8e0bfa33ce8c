// Package reporter turns the lifecycle events of a Newman run into a CTRF
// report.
//
// A Reporter is single-use: it moves from idle to started on the start
// event and to completed on the done event, writing the report exactly once.
package reporter

import (
	"log/slog"
	"time"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/config"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/newman"
)

// Name is the listener name of the reporter
const Name = "ctrf-json"

type state int

const (
	stateIdle state = iota
	stateStarted
	stateCompleted
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStarted:
		return "started"
	case stateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Observer is told about the outcome of the report write
type Observer interface {
	ReportWritten(path string, report *ctrf.Report)
	ReportFailed(path string, err error)
}

// Option configures a Reporter
type Option func(*Reporter)

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(r *Reporter) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// WithObserver registers an observer for the write outcome
func WithObserver(o Observer) Option {
	return func(r *Reporter) {
		r.observers = append(r.observers, o)
	}
}

// Reporter aggregates one run into a CTRF report
type Reporter struct {
	cfg       config.Config
	log       *slog.Logger
	now       func() time.Time
	writer    *ctrf.Writer
	observers []Observer

	state    state
	run      *runState
	override string
	report   *ctrf.Report
	path     string
	err      error
}

// New creates a reporter for cfg and creates the output directory. A
// directory failure is logged; the write at run end will then fail and be
// logged as well.
func New(cfg config.Config, opts ...Option) *Reporter {
	r := &Reporter{
		cfg: cfg,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.writer = ctrf.NewWriter(r.log)

	if err := ctrf.EnsureDir(cfg.OutputDir); err != nil {
		r.log.Error("Error creating output directory", "output-dir", cfg.OutputDir, "error", err)
	}

	return r
}

// Name implements Listener
func (r *Reporter) Name() string {
	return Name
}

// Config returns the configuration the reporter was built with
func (r *Reporter) Config() config.Config {
	return r.cfg
}

// OverrideOutputFile sets a report file name that replaces the configured
// one when the report is written. Empty names are ignored.
func (r *Reporter) OverrideOutputFile(name string) {
	r.override = name
}

// OnStart records the run start time and the environment descriptors
func (r *Reporter) OnStart() {
	if r.state != stateIdle {
		r.log.Warn("ignoring start event", "state", r.state)
		return
	}

	r.run = newRunState(r.cfg, r.now())
	r.state = stateStarted
}

// OnDone aggregates the executions of summary and writes the report. A
// failed run or a missing summary produces no report.
func (r *Reporter) OnDone(err error, summary *newman.RunSummary) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Error building CTRF report", "panic", p)
		}
	}()

	if r.state == stateCompleted {
		r.log.Warn("ignoring duplicate done event", "state", r.state)
		return
	}
	if err != nil {
		r.log.Warn("run failed, no report written", "error", err)
		r.state = stateCompleted
		return
	}
	if summary == nil {
		r.log.Warn("run produced no summary, no report written")
		r.state = stateCompleted
		return
	}

	if r.state == stateIdle {
		r.log.Warn("done event without start event, using completion time as start")
		r.run = newRunState(r.cfg, r.now())
	}
	r.state = stateCompleted

	r.run.aggregate(summary)
	report := r.run.finish(r.now())

	cfg := r.cfg.WithOutputFile(r.override)
	r.path = cfg.ReportPath()
	r.report = report

	if err := r.writer.Write(r.path, report); err != nil {
		r.err = err
		for _, o := range r.observers {
			o.ReportFailed(r.path, err)
		}
		return
	}
	for _, o := range r.observers {
		o.ReportWritten(r.path, report)
	}
}

// Report returns the built report, nil until a run completed successfully
func (r *Reporter) Report() *ctrf.Report {
	return r.report
}

// Path returns where the report was written, empty until then
func (r *Reporter) Path() string {
	return r.path
}

// Err returns the error of the report write, if any
func (r *Reporter) Err() error {
	return r.err
}
