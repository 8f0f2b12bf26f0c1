package prometheus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Andrej220/go-utils/threadpool"
)

type poolStub struct {
	stats      threadpool.Stats
	keepAlives atomic.Int32
}

func (s *poolStub) Stats() threadpool.Stats { return s.stats }
func (s *poolStub) KeepAlive()              { s.keepAlives.Add(1) }

func TestSnapshotPoller_CollectsPoolStats(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	stub := &poolStub{stats: threadpool.Stats{
		Queued:        4,
		Threads:       3,
		ActiveThreads: 2,
		MaxThreads:    8,
	}}
	poller.AddPool("pool-a", stub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	assertEventually(t, 2*time.Second, func() bool {
		queued := testutil.ToFloat64(poller.poolQueued.WithLabelValues("pool-a"))
		active := testutil.ToFloat64(poller.poolActive.WithLabelValues("pool-a"))
		return queued == 4 && active == 2
	})

	if got := testutil.ToFloat64(poller.poolThreads.WithLabelValues("pool-a")); got != 3 {
		t.Fatalf("threads gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(poller.poolMax.WithLabelValues("pool-a")); got != 8 {
		t.Fatalf("max threads gauge = %v, want 8", got)
	}
	if stub.keepAlives.Load() == 0 {
		t.Fatal("poller must drive the pool's keep-alive probe")
	}
}

func TestSnapshotPoller_RemovePool(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	stub := &poolStub{stats: threadpool.Stats{Queued: 1}}
	poller.AddPool("pool-a", stub)
	poller.collectOnce()
	poller.RemovePool("pool-a")
	poller.collectOnce()

	if stub.keepAlives.Load() != 1 {
		t.Fatalf("keep-alives after removal = %d, want 1", stub.keepAlives.Load())
	}
}

func TestSnapshotPoller_StartStop_Idempotent(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller.Start(ctx)
	poller.Start(ctx)
	poller.Stop()
	poller.Stop()
}

func TestSnapshotPoller_RealPool(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	g := threadpool.NewGoroutineProvider(threadpool.ProviderOptions{})
	pool, err := threadpool.New(2, g, threadpool.Options{})
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer pool.Close()

	// *threadpool.Pool satisfies PoolSnapshotProvider directly
	poller.AddPool("real", pool)
	poller.collectOnce()

	if got := testutil.ToFloat64(poller.poolMax.WithLabelValues("real")); got != 2 {
		t.Fatalf("max threads gauge = %v, want 2", got)
	}
}

func assertEventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
