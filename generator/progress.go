package generator

import (
	"math"
	"sync/atomic"
)

// Progress holds the counters and flags for one run. Workers update it and the
// control plane reads it. Every field is updated on its own with atomic
// operations; there are no multi-field transactions, so a Snapshot can mix
// values from slightly different instants.
type Progress struct {
	bytesWritten    atomic.Uint64
	targetBytes     atomic.Uint64
	servicesTotal   atomic.Uint64
	servicesDone    atomic.Uint64
	servicesFailed  atomic.Uint64
	running         atomic.Bool
	cancelRequested atomic.Bool
}

// Snapshot is a point-in-time read of a run's Progress.
type Snapshot struct {
	Running         bool    `json:"running"`
	BytesWritten    uint64  `json:"bytes_written"`
	TargetBytes     uint64  `json:"target_bytes"`
	Percent         float64 `json:"percent"`
	ServicesTotal   uint64  `json:"services_total"`
	ServicesDone    uint64  `json:"services_done"`
	ServicesFailed  uint64  `json:"services_failed"`
	CancelRequested bool    `json:"cancel_requested"`
}

func NewProgress() *Progress {
	return &Progress{}
}

// Reset zeroes everything.
func (p *Progress) Reset() {
	p.bytesWritten.Store(0)
	p.targetBytes.Store(0)
	p.servicesTotal.Store(0)
	p.servicesDone.Store(0)
	p.servicesFailed.Store(0)
	p.running.Store(false)
	p.cancelRequested.Store(false)
}

// Begin arms the Progress for a run. The caller makes sure no other run is
// using it.
func (p *Progress) Begin(targetBytes uint64, servicesTotal int) {
	p.Reset()
	p.targetBytes.Store(targetBytes)
	p.servicesTotal.Store(uint64(servicesTotal))
	p.running.Store(true)
}

// RecordProgress adds n bytes to the run total.
func (p *Progress) RecordProgress(n uint64) {
	p.bytesWritten.Add(n)
}

// RequestCancel asks workers to stop at their next loop boundary. It doesn't
// change the running state by itself.
func (p *Progress) RequestCancel() {
	p.cancelRequested.Store(true)
}

// WorkerFinished counts a finished worker. Only the call that moves the
// counter onto servicesTotal clears running, so it happens exactly once no
// matter how the calls interleave. That call returns true.
func (p *Progress) WorkerFinished() bool {
	done := p.servicesDone.Add(1)
	if done != p.servicesTotal.Load() {
		return false
	}

	p.running.Store(false)
	return true
}

// WorkerFailed counts a worker that stopped on an error. It is called in
// addition to WorkerFinished.
func (p *Progress) WorkerFailed() {
	p.servicesFailed.Add(1)
}

func (p *Progress) Running() bool         { return p.running.Load() }
func (p *Progress) CancelRequested() bool { return p.cancelRequested.Load() }
func (p *Progress) BytesWritten() uint64  { return p.bytesWritten.Load() }

// TargetReached reports whether the run total has met the target.
func (p *Progress) TargetReached() bool {
	return p.bytesWritten.Load() >= p.targetBytes.Load()
}

// Snapshot reads every field. Percent is rounded to two decimal places.
func (p *Progress) Snapshot() Snapshot {
	snap := Snapshot{
		Running:         p.running.Load(),
		BytesWritten:    p.bytesWritten.Load(),
		TargetBytes:     p.targetBytes.Load(),
		ServicesTotal:   p.servicesTotal.Load(),
		ServicesDone:    p.servicesDone.Load(),
		ServicesFailed:  p.servicesFailed.Load(),
		CancelRequested: p.cancelRequested.Load(),
	}

	if snap.TargetBytes > 0 {
		percent := float64(snap.BytesWritten) / float64(snap.TargetBytes) * 100
		snap.Percent = math.Round(percent*100) / 100
	}

	return snap
}
