package threadpool

import "sync/atomic"

// Stats is a point-in-time snapshot of pool state and lifetime counters.
type Stats struct {
	Queued        int // items currently waiting across all bands
	Threads       int // worker slots granted by the provider
	ActiveThreads int // slots currently inside the drain loop
	MaxThreads    int // configured capacity

	Submitted uint64 // accepted submissions
	Executed  uint64 // actions run
	Released  uint64 // items handed back via Release
	Rejected  uint64 // submissions refused during shutdown
}

// statsStore keeps the pool's always-on lifetime counters. The configured
// MetricsPolicy mirrors the same events for external sinks.
type statsStore struct {
	submitted atomic.Uint64
	executed  atomic.Uint64
	released  atomic.Uint64
	rejected  atomic.Uint64
}

func (s *statsStore) addSubmitted() { s.submitted.Add(1) }
func (s *statsStore) addExecuted()  { s.executed.Add(1) }
func (s *statsStore) addReleased()  { s.released.Add(1) }
func (s *statsStore) addRejected()  { s.rejected.Add(1) }

// Stats returns a consistent snapshot of the mutex-guarded gauges plus the
// lifetime counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	st := Stats{
		Queued:        p.queue.len(),
		Threads:       int(p.threads),
		ActiveThreads: int(p.activeThreads),
		MaxThreads:    int(p.maxThreads),
	}
	p.mu.Unlock()

	st.Submitted = p.stats.submitted.Load()
	st.Executed = p.stats.executed.Load()
	st.Released = p.stats.released.Load()
	st.Rejected = p.stats.rejected.Load()
	return st
}
