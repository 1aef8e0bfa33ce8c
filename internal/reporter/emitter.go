package reporter

import (
	"fmt"
	"log/slog"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/newman"
)

// Listener is anything that can be registered on an Emitter
type Listener interface {
	Name() string
}

// RunStartedListener is notified when a run starts
type RunStartedListener interface {
	Listener
	OnStart()
}

// RunDoneListener is notified when a run completes. err is the run's
// failure, if any; summary may be nil when the run produced none.
type RunDoneListener interface {
	Listener
	OnDone(err error, summary *newman.RunSummary)
}

// Emitter dispatches run lifecycle events to registered listeners in
// registration order. A panicking listener is logged and does not stop
// the others.
type Emitter struct {
	all     []Listener
	started []RunStartedListener
	done    []RunDoneListener

	log *slog.Logger
}

// NewEmitter creates an emitter without listeners
func NewEmitter(log *slog.Logger) *Emitter {
	if log == nil {
		log = slog.Default()
	}
	return &Emitter{
		all:     []Listener{},
		started: []RunStartedListener{},
		done:    []RunDoneListener{},
		log:     log,
	}
}

// Register adds l to every event it listens to
func (e *Emitter) Register(l Listener) error {
	registered := false

	if sl, ok := l.(RunStartedListener); ok {
		e.started = append(e.started, sl)
		registered = true
	}
	if dl, ok := l.(RunDoneListener); ok {
		e.done = append(e.done, dl)
		registered = true
	}

	if !registered {
		return fmt.Errorf("listener %q does not implement any listener interface", l.Name())
	}

	e.all = append(e.all, l)
	return nil
}

// Listeners returns the registered listeners
func (e *Emitter) Listeners() []Listener {
	return append([]Listener{}, e.all...)
}

// Start emits the run start event
func (e *Emitter) Start() {
	for _, l := range e.started {
		e.guard(l, "start", l.OnStart)
	}
}

// Done emits the run completion event
func (e *Emitter) Done(err error, summary *newman.RunSummary) {
	for _, l := range e.done {
		e.guard(l, "done", func() { l.OnDone(err, summary) })
	}
}

func (e *Emitter) guard(l Listener, event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("listener panicked", "listener", l.Name(), "event", event, "panic", r)
		}
	}()
	fn()
}
