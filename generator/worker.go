package generator

import (
	"fmt"
	"math/rand/v2"

	"github.com/Shimmur/loggen/content"
	"github.com/Shimmur/loggen/relay"
	"github.com/Shimmur/loggen/rotation"
	director "github.com/relistan/go-director"
	log "github.com/sirupsen/logrus"
)

// A worker generates the logs for one service until its quota is met, the run
// target is met, or the run is cancelled. It owns its rotation.Writer and its
// relay output outright, so none of its file I/O is shared.
type worker struct {
	Service string
	Quota   uint64

	produced uint64

	writerConfig rotation.Config
	writer       *rotation.Writer
	progress     *Progress
	provider     content.Provider
	output       relay.LogOutput
	sink         ErrorSink
	rng          *rand.Rand
	looper       director.Looper
}

func newWorker(service string, quota uint64, writerConfig rotation.Config,
	progress *Progress, provider content.Provider, output relay.LogOutput,
	sink ErrorSink, rng *rand.Rand) *worker {

	return &worker{
		Service:      service,
		Quota:        quota,
		writerConfig: writerConfig,
		progress:     progress,
		provider:     provider,
		output:       output,
		sink:         sink,
		rng:          rng,
		// Buffered so Done() never blocks on a missing Wait()
		looper: director.NewFreeLooper(director.FOREVER, make(chan error, 1)),
	}
}

// Run drives the generation loop to completion. Whatever the exit path, the
// writer is flushed and closed and the worker is counted as finished exactly
// once. A failure is handed to the ErrorSink and returned; it never touches
// any other worker.
func (w *worker) Run() error {
	err := w.generate()

	if w.output != nil {
		w.output.Stop()
	}

	if err != nil {
		err = &WorkerError{Service: w.Service, Err: err}
		w.progress.WorkerFailed()
		w.sink.WorkerFailed(w.Service, err)
	}

	if w.progress.WorkerFinished() {
		log.Infof("All services finished, %d bytes written", w.progress.BytesWritten())
	}

	return err
}

func (w *worker) generate() error {
	writer, err := rotation.New(w.writerConfig)
	if err != nil {
		return err
	}
	w.writer = writer

	w.looper.Loop(w.step)
	err = w.looper.Wait()

	closeErr := w.writer.Close()

	if err != nil && !isStopReason(err) {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	log.Debugf("Finished %s after %d bytes (%s)", w.Service, w.produced, err)
	return nil
}

// step produces a single line. The stop checks happen before generating, so a
// run can overshoot its target by at most one line per worker, and a line is
// never split.
func (w *worker) step() error {
	if w.progress.CancelRequested() {
		return errCancelled
	}

	if w.produced >= w.Quota {
		return errQuotaReached
	}

	// Backstop in case the quotas ever drift from the run target
	if w.progress.TargetReached() {
		return errTargetReached
	}

	line := w.provider.Line(w.rng, w.Service)

	written, err := w.writer.WriteLine(line)
	if err != nil {
		return fmt.Errorf("failed to write line for %s: %w", w.Service, err)
	}

	w.produced += written
	w.progress.RecordProgress(written)

	if w.output != nil {
		w.output.Log(line)
	}

	return nil
}
