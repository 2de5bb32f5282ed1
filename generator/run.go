package generator

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/Shimmur/loggen/content"
	"github.com/Shimmur/loggen/relay"
	"github.com/Shimmur/loggen/rotation"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Params describe a single generation run.
type Params struct {
	NumServices  int
	TargetBytes  uint64
	FileMaxBytes uint64
	OutputRoot   string

	// ServiceNames has one entry per service. The last one absorbs the
	// allocation remainder.
	ServiceNames []string
}

// Validate rejects parameters the engine can't run with.
func (p Params) Validate() error {
	if p.NumServices < 1 {
		return fmt.Errorf("%w: number of services must be at least 1", ErrInvalidParams)
	}
	if p.TargetBytes < 1 {
		return fmt.Errorf("%w: total size must be greater than 0", ErrInvalidParams)
	}
	if p.FileMaxBytes < 1 {
		return fmt.Errorf("%w: file max size must be greater than 0", ErrInvalidParams)
	}
	if len(p.ServiceNames) != p.NumServices {
		return fmt.Errorf("%w: got %d service names for %d services",
			ErrInvalidParams, len(p.ServiceNames), p.NumServices)
	}
	if p.OutputRoot == "" {
		return fmt.Errorf("%w: output root is required", ErrInvalidParams)
	}

	seen := make(map[string]bool, len(p.ServiceNames))
	for _, name := range p.ServiceNames {
		if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
			return fmt.Errorf("%w: bad service name '%s'", ErrInvalidParams, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate service name '%s'", ErrInvalidParams, name)
		}
		seen[name] = true
	}

	return nil
}

// OutputFunc builds the relay output for one service. It may return nil.
type OutputFunc func(service string) relay.LogOutput

// A Run owns every worker of one generation run along with the run's
// Progress. Workers are supervised by an errgroup without a context, so one
// failing worker never cancels its siblings.
type Run struct {
	Params    Params
	StartedAt time.Time

	progress *Progress
	workers  []*worker
	group    errgroup.Group
}

// startRun arms progress and launches one worker per service. It returns
// right away. The start time and the content seed come from the writer clock.
func startRun(params Params, progress *Progress, provider content.Provider,
	sink ErrorSink, newOutput OutputFunc, writerConfig rotation.Config) *Run {

	run := &Run{
		Params:    params,
		StartedAt: writerConfig.Clock.Now().UTC(),
		progress:  progress,
	}

	quotas := Allocate(params.TargetBytes, params.NumServices)
	progress.Begin(params.TargetBytes, params.NumServices)

	seed := uint64(run.StartedAt.UnixNano())
	for i, service := range params.ServiceNames {
		cfg := writerConfig
		cfg.Dir = filepath.Join(params.OutputRoot, service)
		cfg.MaxBytes = params.FileMaxBytes

		var output relay.LogOutput
		if newOutput != nil {
			output = newOutput(service)
		}

		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		run.workers = append(run.workers,
			newWorker(service, quotas[i], cfg, progress, provider, output, sink, rng),
		)
	}

	log.Infof("Starting run: %d bytes across %d services into %s",
		params.TargetBytes, params.NumServices, params.OutputRoot)

	for _, w := range run.workers {
		run.group.Go(w.Run)
	}

	return run
}

// RequestCancel asks every worker to stop after its current line.
func (r *Run) RequestCancel() {
	r.progress.RequestCancel()
}

// Wait blocks until every worker has finished and returns the first worker
// failure, if any.
func (r *Run) Wait() error {
	return r.group.Wait()
}

func (r *Run) Running() bool { return r.progress.Running() }

func (r *Run) Snapshot() Snapshot { return r.progress.Snapshot() }

// Quotas reports the byte quota of every service, keyed by service name.
func (r *Run) Quotas() map[string]uint64 {
	quotas := make(map[string]uint64, len(r.workers))
	for _, w := range r.workers {
		quotas[w.Service] = w.Quota
	}
	return quotas
}
