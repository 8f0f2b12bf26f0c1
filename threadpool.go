package threadpool

import (
	"context"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// shutdownState tracks the pool's lifecycle. Transitions are one-way:
// none -> wait|abort -> complete.
type shutdownState uint32

const (
	shutdownNone shutdownState = iota
	shutdownWait
	shutdownAbort
	shutdownComplete
)

func (s shutdownState) String() string {
	switch s {
	case shutdownNone:
		return "none"
	case shutdownWait:
		return "wait"
	case shutdownAbort:
		return "abort"
	case shutdownComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Pool is a priority work queue that delegates worker acquisition to a
// Provider and only tracks counts and pumps items. All state is guarded
// by one mutex; item callbacks, the shutdown handler, and provider Submit
// run with the mutex released so user code may reenter the pool.
type Pool struct {
	mu       sync.Mutex
	queue    workQueue
	provider Provider

	// threads counts worker slots granted to the pool: outstanding
	// provider executions of Dequeue that have not yet exited.
	// activeThreads counts the subset whose drain loop has started.
	// Invariant at every unlock: activeThreads <= threads <= maxThreads+1
	// (the +1 is the transient grant Close gives itself).
	threads       uint32
	activeThreads uint32
	maxThreads    uint32

	state         shutdownState
	handlerCalled bool
	handler       func()

	lastTick        time.Time
	keepAlivePeriod time.Duration

	stats   statsStore
	metrics MetricsPolicy
}

// New creates a pool capped at maxThreads worker slots, served by
// provider. If the provider implements Binder it is bound to the pool's
// dequeue entry point before New returns.
func New(maxThreads int, provider Provider, opts Options) (*Pool, error) {
	if maxThreads < 1 {
		return nil, ErrInvalidMaxThreads
	}
	if provider == nil {
		return nil, ErrNilProvider
	}
	opts.FillDefaults()

	p := &Pool{
		provider:        provider,
		maxThreads:      uint32(maxThreads),
		handler:         opts.ShutdownHandler,
		lastTick:        time.Now(),
		keepAlivePeriod: opts.KeepAlivePeriod,
		metrics:         opts.Metrics,
	}
	p.queue.init()

	if b, ok := provider.(Binder); ok {
		b.Bind(p.Dequeue)
	}
	return p, nil
}

// Submit hands it to the pool at the given priority. On success the pool
// owns the item until its Release runs. During shutdown the item is
// released immediately and ErrCanceled is returned.
//
// When the provider refuses a worker grant, Submit also returns
// ErrCanceled, but the item is already queued: it will still execute (or
// be drained) and be released by another worker or by Close. The slot
// counter is deliberately left incremented; it is taken over by the next
// Dequeue run that has no grant of its own (such as a lost-work respawn).
func (p *Pool) Submit(it *Item, prio Priority) error {
	if it == nil || it.Action == nil || it.Release == nil {
		return ErrNilCallback
	}

	p.mu.Lock()

	if it.linked() {
		p.mu.Unlock()
		return ErrItemQueued
	}

	if p.state != shutdownNone {
		p.mu.Unlock()
		p.stats.addRejected()
		p.metrics.IncRejected()
		it.Release(it)
		p.stats.addReleased()
		p.metrics.IncReleased()
		return ErrCanceled
	}

	p.keepAliveLocked()

	p.queue.push(it, prio)
	p.stats.addSubmitted()
	p.metrics.IncSubmitted()

	if p.threads >= p.maxThreads {
		p.mu.Unlock()
		return nil
	}

	p.threads++
	p.lastTick = time.Now()
	p.mu.Unlock()

	if !p.provider.Submit() {
		return ErrCanceled
	}
	return nil
}

// SubmitNormal submits it at PriorityNormal.
func (p *Pool) SubmitNormal(it *Item) error {
	return p.Submit(it, PriorityNormal)
}

// Dequeue is the worker entry point the provider calls on each granted
// slot. It drains items in priority order, running Action and Release
// outside the lock, then releases the logical slot. The last worker to
// exit after a shutdown request fires the shutdown handler.
//
// Providers call Dequeue once per granted slot. A call made while every
// granted slot is already draining or has exited is an over-grant and
// returns without draining; a surplus call made while a granted slot has
// not started yet takes that slot over.
func (p *Pool) Dequeue() {
	p.mu.Lock()

	p.lastTick = time.Now()

	if p.activeThreads >= p.threads {
		p.mu.Unlock()
		return
	}

	p.activeThreads++

	// Defensive: the check above and the increment run under one lock
	// hold, so this only triggers if the counters are already
	// inconsistent; undo both counters.
	if p.activeThreads > p.threads {
		p.threads--
		p.activeThreads--
		p.mu.Unlock()
		return
	}

	for {
		state := p.state

		it := p.queue.pop()
		if it == nil {
			break
		}

		p.mu.Unlock()

		if state != shutdownAbort {
			it.Action(it)
			p.stats.addExecuted()
			p.metrics.IncExecuted()
		}

		it.Release(it)
		p.stats.addReleased()
		p.metrics.IncReleased()

		p.mu.Lock()
	}

	p.threads--
	p.activeThreads--

	if p.state == shutdownNone || p.activeThreads > 0 || p.handlerCalled {
		p.mu.Unlock()
		return
	}

	// Terminal quiescence: shutdown requested, this was the last
	// straggler, and the queue drained above. Latch under the lock,
	// invoke outside it.
	p.handlerCalled = true
	handler := p.handler
	p.mu.Unlock()

	lg.FromContext(context.Background()).Info("pool reached terminal quiescence")

	if handler != nil {
		handler()
	}
}

// keepAliveLocked probes for stalled workers: slots the provider granted
// that never entered the drain loop. At most one probe per keep-alive
// window. Caller holds the mutex; SubmitLostWork is invoked under it and
// must not reenter the pool.
func (p *Pool) keepAliveLocked() {
	if p.activeThreads >= p.threads {
		return
	}

	now := time.Now()
	if now.Sub(p.lastTick) < p.keepAlivePeriod {
		return
	}

	p.lastTick = now

	lg.FromContext(context.Background()).Warn("granted workers have not started; reporting lost work",
		lg.Int("active", int(p.activeThreads)),
		lg.Int("granted", int(p.threads)),
	)

	p.provider.SubmitLostWork(p.activeThreads, p.threads)
}

// KeepAlive runs the stall probe. Embedders with their own tickers may
// drive it periodically; Submit and Shutdown run it implicitly.
func (p *Pool) KeepAlive() {
	p.mu.Lock()
	p.keepAliveLocked()
	p.mu.Unlock()
}

// Cancel removes it from the queue before a worker picks it up. On
// success the item's Release runs (Action never will) and Cancel returns
// true. Returns false when the item was never queued, already popped, or
// already released; in-flight items cannot be cancelled.
func (p *Pool) Cancel(it *Item) bool {
	if it == nil {
		return false
	}

	p.mu.Lock()
	removed := p.queue.remove(it)
	p.mu.Unlock()

	if !removed {
		return false
	}

	it.Release(it)
	p.stats.addReleased()
	p.metrics.IncReleased()
	return true
}

// Shutdown begins pool teardown. New submissions are refused from this
// point on. With abortive false remaining items run their actions before
// release; with abortive true they are released without running.
//
// If no worker slots are outstanding the shutdown handler fires before
// Shutdown returns; otherwise the last exiting worker fires it. Calling
// Shutdown twice is a usage error and returns ErrShuttingDown.
//
// Must not be called from an item's Action. Shutdown itself does not wait
// for workers to exit.
func (p *Pool) Shutdown(abortive bool) error {
	p.mu.Lock()

	if p.state != shutdownNone {
		p.mu.Unlock()
		return ErrShuttingDown
	}

	if abortive {
		p.state = shutdownAbort
	} else {
		p.state = shutdownWait
	}

	lg.FromContext(context.Background()).Info("pool shutdown requested",
		lg.String("mode", p.state.String()),
		lg.Int("queued", p.queue.len()),
		lg.Int("granted", int(p.threads)),
	)

	if p.threads > 0 || p.activeThreads > 0 {
		p.keepAliveLocked()
		p.mu.Unlock()
		return nil
	}

	// No slots outstanding: the queue must already be empty, so this is
	// terminal quiescence.
	p.handlerCalled = true
	handler := p.handler
	p.mu.Unlock()

	if handler != nil {
		handler()
	}
	return nil
}

// Close terminates the pool. On return no pool code is running, every
// item has been released, and the provider has been closed. Items the
// provider never got to are drained synchronously on the calling thread
// under abort semantics.
//
// Close must be the last call on the pool: no other goroutine may touch
// it once Close begins. Calling Close twice returns immediately.
func (p *Pool) Close() {
	p.mu.Lock()

	if p.state == shutdownComplete {
		p.mu.Unlock()
		return
	}

	if p.state == shutdownNone {
		p.state = shutdownAbort
	}

	// Transient self-grant so the drain below owns a slot; this is the
	// one place threads may exceed maxThreads.
	p.threads++
	p.mu.Unlock()

	p.Dequeue()

	p.provider.Close()

	// No concurrent observers past this point per the Close contract, so
	// the terminal state is set without the lock.
	p.state = shutdownComplete
}

// Size returns the configured slot capacity (maxThreads).
func (p *Pool) Size() int {
	return int(p.maxThreads)
}

// ThreadCount returns the number of worker slots currently granted.
func (p *Pool) ThreadCount() int {
	p.mu.Lock()
	n := int(p.threads)
	p.mu.Unlock()
	return n
}

// ActiveThreadCount returns the number of slots inside the drain loop.
func (p *Pool) ActiveThreadCount() int {
	p.mu.Lock()
	n := int(p.activeThreads)
	p.mu.Unlock()
	return n
}

// QueueLen returns the number of items waiting across all bands.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	n := p.queue.len()
	p.mu.Unlock()
	return n
}
