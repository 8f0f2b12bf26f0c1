package threadpool

import (
	"testing"
)

// syncProvider runs every grant inline on the submitting goroutine, which
// keeps benchmarks free of scheduling noise.
type syncProvider struct {
	run func()
}

func (s *syncProvider) Bind(run func())            { s.run = run }
func (s *syncProvider) Submit() bool               { s.run(); return true }
func (s *syncProvider) SubmitLostWork(_, _ uint32) {}
func (s *syncProvider) Close()                     {}

func BenchmarkSubmitDrainNormal(b *testing.B) {
	p, _ := New(1, &syncProvider{}, Options{})
	it := &Item{
		Action:  func(*Item) {},
		Release: func(*Item) {},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.Submit(it, PriorityNormal); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubmitDrainMixedPriorities(b *testing.B) {
	p, _ := New(1, &syncProvider{}, Options{})
	it := &Item{
		Action:  func(*Item) {},
		Release: func(*Item) {},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.Submit(it, Priority(i%3)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQueuePushPop(b *testing.B) {
	var q workQueue
	q.init()
	it := &Item{
		Action:  func(*Item) {},
		Release: func(*Item) {},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.push(it, Priority(i%3))
		q.pop()
	}
}
