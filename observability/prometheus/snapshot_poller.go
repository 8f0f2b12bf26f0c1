package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/Andrej220/go-utils/threadpool"
)

// PoolSnapshotProvider provides current pool stats snapshots.
// *threadpool.Pool satisfies it.
type PoolSnapshotProvider interface {
	Stats() threadpool.Stats
	KeepAlive()
}

// SnapshotPoller periodically exports pool Stats() snapshots into
// Prometheus gauges. Each poll also drives the pool's keep-alive probe,
// so a monitored pool gets stall detection for free.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	poolQueued  *prom.GaugeVec
	poolThreads *prom.GaugeVec
	poolActive  *prom.GaugeVec
	poolMax     *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "queue_depth",
		Help:      "Number of items waiting across all priority bands.",
	}, []string{"pool"})
	poolThreads := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "threads",
		Help:      "Worker slots currently granted by the provider.",
	}, []string{"pool"})
	poolActive := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "active_threads",
		Help:      "Worker slots currently inside the drain loop.",
	}, []string{"pool"})
	poolMax := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "max_threads",
		Help:      "Configured slot capacity.",
	}, []string{"pool"})

	var err error
	if poolQueued, err = registerCollector(reg, poolQueued); err != nil {
		return nil, err
	}
	if poolThreads, err = registerCollector(reg, poolThreads); err != nil {
		return nil, err
	}
	if poolActive, err = registerCollector(reg, poolActive); err != nil {
		return nil, err
	}
	if poolMax, err = registerCollector(reg, poolMax); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:    interval,
		pools:       make(map[string]PoolSnapshotProvider),
		poolQueued:  poolQueued,
		poolThreads: poolThreads,
		poolActive:  poolActive,
		poolMax:     poolMax,
	}, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// RemovePool stops exporting a pool. Existing gauge values for the name
// are deleted.
func (p *SnapshotPoller) RemovePool(name string) {
	if p == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	delete(p.pools, name)
	p.poolsMu.Unlock()

	labels := prom.Labels{"pool": name}
	p.poolQueued.Delete(labels)
	p.poolThreads.Delete(labels)
	p.poolActive.Delete(labels)
	p.poolMax.Delete(labels)
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	pools := make(map[string]PoolSnapshotProvider, len(p.pools))
	for name, provider := range p.pools {
		pools[name] = provider
	}
	p.poolsMu.RUnlock()

	for name, provider := range pools {
		provider.KeepAlive()
		st := provider.Stats()
		p.poolQueued.WithLabelValues(name).Set(float64(st.Queued))
		p.poolThreads.WithLabelValues(name).Set(float64(st.Threads))
		p.poolActive.WithLabelValues(name).Set(float64(st.ActiveThreads))
		p.poolMax.WithLabelValues(name).Set(float64(st.MaxThreads))
	}
}
