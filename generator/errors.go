package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is wrapped by every validation failure from
	// Params.Validate.
	ErrInvalidParams = errors.New("invalid run parameters")

	// ErrAlreadyRunning is returned by Engine.Start while a run is active.
	ErrAlreadyRunning = errors.New("generation is already running")

	// Reasons a worker loop stops without failing
	errCancelled     = errors.New("cancel requested")
	errQuotaReached  = errors.New("quota reached")
	errTargetReached = errors.New("run target reached")
)

func isStopReason(err error) bool {
	return errors.Is(err, errCancelled) ||
		errors.Is(err, errQuotaReached) ||
		errors.Is(err, errTargetReached)
}

// A WorkerError is the terminal failure of a single service's worker.
type WorkerError struct {
	Service string
	Err     error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker for %s failed: %s", e.Service, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }
