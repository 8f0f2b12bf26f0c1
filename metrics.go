package threadpool

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the pool to report item lifecycle
// activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncSubmitted increments the accepted submissions counter.
	IncSubmitted()

	// IncExecuted increments the executed actions counter.
	IncExecuted()

	// IncReleased increments the released items counter. Fires for every
	// item handed back via Release: executed, cancelled, drained, or
	// rejected during shutdown.
	IncReleased()

	// IncRejected increments the rejected submissions counter (submit
	// during shutdown).
	IncRejected()
}

// AtomicMetrics is a lock-free MetricsPolicy backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	executed atomic.Uint64
	released atomic.Uint64
	rejected atomic.Uint64
}

// Submitted returns the total number of accepted submissions.
func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }

// Executed returns the total number of executed actions.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Released returns the total number of released items.
func (m *AtomicMetrics) Released() uint64 { return m.released.Load() }

// Rejected returns the total number of rejected submissions.
func (m *AtomicMetrics) Rejected() uint64 { return m.rejected.Load() }

func (m *AtomicMetrics) IncSubmitted() { m.submitted.Add(1) }
func (m *AtomicMetrics) IncExecuted()  { m.executed.Add(1) }
func (m *AtomicMetrics) IncReleased()  { m.released.Add(1) }
func (m *AtomicMetrics) IncRejected()  { m.rejected.Add(1) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards all metric
// updates.
//
// It can be used when metrics collection is disabled and zero overhead is
// desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted() {}
func (m *NoopMetrics) IncExecuted()  {}
func (m *NoopMetrics) IncReleased()  {}
func (m *NoopMetrics) IncRejected()  {}
