package threadpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// Provider converts worker slot grants into executions of the pool's
// dequeue entry point. Installed at pool creation and immutable for the
// pool's lifetime. Implementations must be safe for concurrent use.
type Provider interface {
	// Submit arranges for one additional execution of the pool's dequeue
	// entry point, now or soon. Returns true on success. On false the
	// pool treats the slot grant as revoked; the already-queued item is
	// drained by another worker or by Close. Submit is called with the
	// pool mutex released and may block briefly; because no pool lock is
	// held, it may even run Dequeue inline.
	Submit() bool

	// SubmitLostWork is an advisory stall report: the pool has granted
	// total slots but only active have entered the drain loop within the
	// keep-alive window. The provider may spawn additional help or
	// ignore the report. Called with the pool mutex held; implementations
	// must not call back into the pool from this method.
	SubmitLostWork(active, total uint32)

	// Close shuts the provider down. After Close returns, no further
	// dequeue executions may occur.
	Close()
}

// Binder is an optional provider interface. New binds any provider that
// implements it to the pool's dequeue entry point, so embedders do not
// have to wire the callback themselves.
type Binder interface {
	Bind(run func())
}

// ProviderOptions configure a GoroutineProvider.
type ProviderOptions struct {
	// Respawn paces worker respawns after a lost-work probe.
	Respawn RetryPolicy

	// PinWorkers locks each worker to an OS thread and pins it to a CPU
	// (linux only; elsewhere only the OS thread lock applies).
	PinWorkers bool
}

// GoroutineProvider is the production default Provider. Every accepted
// grant runs Pool.Dequeue on its own goroutine; in-flight runs are tracked
// so Close can honor the no-further-executions promise.
type GoroutineProvider struct {
	mu      sync.Mutex
	run     func()
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
	respawn RetryPolicy
	pin     bool
	nextCPU atomic.Int32
}

// NewGoroutineProvider creates a provider with the given options. The
// returned provider is inert until bound to a pool; New does the binding
// for any provider implementing Binder.
func NewGoroutineProvider(opts ProviderOptions) *GoroutineProvider {
	opts.Respawn.fillDefaults()
	return &GoroutineProvider{
		done:    make(chan struct{}),
		respawn: opts.Respawn,
		pin:     opts.PinWorkers,
	}
}

// Bind installs the pool's dequeue entry point. Called by New before any
// Submit can arrive.
func (g *GoroutineProvider) Bind(run func()) {
	g.mu.Lock()
	g.run = run
	g.mu.Unlock()
}

// Submit runs one dequeue execution on a fresh goroutine.
func (g *GoroutineProvider) Submit() bool {
	g.mu.Lock()
	if g.closed || g.run == nil {
		g.mu.Unlock()
		return false
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go g.worker()
	return true
}

func (g *GoroutineProvider) worker() {
	defer g.wg.Done()
	if g.pin {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		cpu := int(g.nextCPU.Add(1)-1) % runtime.NumCPU()
		if err := pinToCPU(cpu); err != nil {
			lg.FromContext(context.Background()).Warn("worker pinning failed",
				lg.Int("cpu", cpu),
				lg.Any("error", err),
			)
		}
	}
	g.run()
}

// SubmitLostWork respawns the missing workers, paced by the respawn
// policy. The pool calls this with its mutex held, so the actual spawning
// happens on a helper goroutine.
func (g *GoroutineProvider) SubmitLostWork(active, total uint32) {
	if total <= active {
		return
	}
	missing := total - active

	lg.FromContext(context.Background()).Warn("respawning lost workers",
		lg.Int("active", int(active)),
		lg.Int("granted", int(total)),
		lg.Int("missing", int(missing)),
	)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		bo := boff.New(g.respawn.Initial, g.respawn.Max, time.Now().UnixNano())
		n := missing
		if uint32(g.respawn.Attempts) < n {
			n = uint32(g.respawn.Attempts)
		}
		for i := uint32(0); i < n; i++ {
			timer := time.NewTimer(bo.Next())
			select {
			case <-timer.C:
			case <-g.done:
				timer.Stop()
				return
			}
			if !g.Submit() {
				return
			}
		}
	}()
}

// Close stops accepting grants and waits for every in-flight dequeue
// execution to finish.
func (g *GoroutineProvider) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	close(g.done)
	g.mu.Unlock()

	g.wg.Wait()
}
