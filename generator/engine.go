package generator

import (
	"fmt"
	"sync"

	"github.com/Shimmur/loggen/content"
	"github.com/Shimmur/loggen/rotation"
	"github.com/jacobsa/timeutil"
)

// An Engine manages the lifecycle of generation runs and makes sure only one
// of them is running at a time. The control plane holds the Engine and asks it
// for progress.
type Engine struct {
	Provider    content.Provider
	Sink        ErrorSink
	NewOutput   OutputFunc
	MaxServices int

	// Passed to each worker's rotation.Writer
	Clock         timeutil.Clock
	BufferSize    int
	FlushInterval uint64

	lock    sync.Mutex
	current *Run
}

// NewEngine returns an Engine that logs worker failures and doesn't relay.
func NewEngine(provider content.Provider) *Engine {
	return &Engine{
		Provider: provider,
		Sink:     LogSink{},
		Clock:    timeutil.RealClock(),
	}
}

// Start validates params and launches a run. It fails with ErrAlreadyRunning
// if the previous run hasn't finished.
func (e *Engine) Start(params Params) (*Run, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if e.MaxServices > 0 && params.NumServices > e.MaxServices {
		return nil, fmt.Errorf("%w: number of services must be between 1 and %d",
			ErrInvalidParams, e.MaxServices)
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	if e.current != nil && e.current.Running() {
		return nil, ErrAlreadyRunning
	}

	clock := e.Clock
	if clock == nil {
		clock = timeutil.RealClock()
	}

	writerConfig := rotation.Config{
		BufferSize:    e.BufferSize,
		FlushInterval: e.FlushInterval,
		Clock:         clock,
	}

	sink := e.Sink
	if sink == nil {
		sink = LogSink{}
	}

	e.current = startRun(params, NewProgress(), e.Provider, sink, e.NewOutput, writerConfig)

	return e.current, nil
}

// RequestCancel asks the current run, if any, to stop.
func (e *Engine) RequestCancel() {
	if run := e.Current(); run != nil {
		run.RequestCancel()
	}
}

// Snapshot reads the progress of the current or most recent run. Before the
// first run it is all zeroes.
func (e *Engine) Snapshot() Snapshot {
	run := e.Current()
	if run == nil {
		return Snapshot{}
	}
	return run.Snapshot()
}

// Current returns the current or most recent run.
func (e *Engine) Current() *Run {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.current
}
