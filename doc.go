// Package threadpool provides a priority work-queue thread pool with a
// pluggable worker-spawning provider and deterministic shutdown semantics.
//
// Design goals
//
// The package is designed around the following principles:
//
//   - The pool never owns or spawns OS threads or goroutines itself
//   - All heavy work (item callbacks, provider calls) runs outside the lock
//   - Predictable lifecycle: every accepted item is released exactly once
//   - One coarse mutex, short critical sections, no condition variables
//
// Rather than optimizing for raw throughput, threadpool optimizes for
// auditable lifecycle accounting: who holds a worker slot, which items are
// still owed a release, and when the pool has reached terminal quiescence.
//
// Architecture overview
//
// The pool is composed of three loosely coupled layers:
//
//   1. Queueing (workQueue)
//      Three intrusive FIFO bands (high, normal, low) plus a size counter.
//      Strict priority across bands, insertion order within a band.
//
//   2. Capacity (Provider)
//      The pool tracks two counters: threads, the number of worker slots
//      granted by the provider, and activeThreads, the number of slots
//      whose drain loop has actually started. Converting a grant into a
//      real execution of Pool.Dequeue is entirely the provider's job.
//
//   3. Item lifecycle
//      Items carry an Action callback (the payload, run at most once) and
//      a Release callback (cleanup, run exactly once whether the item ran,
//      was cancelled, was rejected, or was drained during an abort).
//
// Provider model
//
// A Provider is asked for one additional execution of the pool's dequeue
// entry point via Submit. It may refuse; the pool does not retry. The
// refused grant stays counted until a Dequeue run without a grant of its
// own takes it over, and its item is drained by another worker or by Close.
// When granted slots fail to start draining within the keep-alive window,
// the pool reports the stall via SubmitLostWork. GoroutineProvider is the
// production default: it runs each grant on its own goroutine and respawns
// lost workers with backoff.
//
// Shutdown model
//
// Shutdown moves the pool through a four-state machine (none, wait, abort,
// complete). Wait drains remaining items by running their actions; abort
// drains by releasing only, so payloads never execute but resources are
// still reclaimed. The last worker to exit fires the shutdown handler
// exactly once. Close drains synchronously on the calling thread and
// guarantees on return that no pool code is running.
//
// Error handling
//
// The pool never observes errors from item callbacks; those belong to the
// caller. Submission failures are reported through sentinel errors
// (ErrCanceled and friends) compatible with errors.Is.
//
// Observability
//
// Lifetime counters are kept in an internal atomic store and exposed via
// Stats. A MetricsPolicy hook mirrors the same events to external sinks;
// the observability/prometheus subpackage provides a ready-made exporter
// and a gauge poller.
package threadpool
