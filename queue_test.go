package threadpool

import (
	"testing"
)

func TestQueueStrictPriorityOrder(t *testing.T) {
	var q workQueue
	q.init()

	low, normal, high := newTestItem(), newTestItem(), newTestItem()
	q.push(low, PriorityLow)
	q.push(normal, PriorityNormal)
	q.push(high, PriorityHigh)

	if q.len() != 3 {
		t.Fatalf("len = %d; want 3", q.len())
	}

	for i, want := range []*Item{high, normal, low} {
		got := q.pop()
		if got != want {
			t.Fatalf("pop %d returned wrong item", i)
		}
	}
	if !q.empty() {
		t.Fatal("queue should be empty")
	}
	if q.pop() != nil {
		t.Fatal("pop on empty queue should return nil")
	}
}

func TestQueueFIFOWithinBand(t *testing.T) {
	var q workQueue
	q.init()

	a, b, c := newTestItem(), newTestItem(), newTestItem()
	q.push(a, PriorityNormal)
	q.push(b, PriorityNormal)
	q.push(c, PriorityNormal)

	for i, want := range []*Item{a, b, c} {
		if got := q.pop(); got != want {
			t.Fatalf("pop %d out of order", i)
		}
	}
}

func TestQueueUnknownPriorityGoesNormal(t *testing.T) {
	var q workQueue
	q.init()

	odd := newTestItem()
	normal := newTestItem()
	q.push(normal, PriorityNormal)
	q.push(odd, Priority(42))

	if got := q.pop(); got != normal {
		t.Fatal("normal item should pop first")
	}
	if got := q.pop(); got != odd {
		t.Fatal("odd-priority item should land in the normal band")
	}
}

func TestQueueRemove(t *testing.T) {
	var q workQueue
	q.init()

	a, b := newTestItem(), newTestItem()
	q.push(a, PriorityHigh)
	q.push(b, PriorityLow)

	if !q.remove(a) {
		t.Fatal("remove of queued item should succeed")
	}
	if q.remove(a) {
		t.Fatal("second remove of same item should fail")
	}
	if q.len() != 1 {
		t.Fatalf("len = %d; want 1", q.len())
	}

	unqueued := newTestItem()
	if q.remove(unqueued) {
		t.Fatal("remove of never-queued item should fail")
	}

	if got := q.pop(); got != b {
		t.Fatal("remaining item should still pop")
	}
	if !q.valid() {
		t.Fatal("queue accounting should stay valid")
	}
}

func TestQueueSizeMatchesBands(t *testing.T) {
	var q workQueue
	q.init()

	items := make([]*Item, 0, 9)
	for i := 0; i < 9; i++ {
		it := newTestItem()
		items = append(items, it)
		q.push(it, Priority(i%3))
	}
	if !q.valid() {
		t.Fatal("queue invalid after pushes")
	}

	// remove every third, pop the rest
	removed := 0
	for i := 0; i < 9; i += 3 {
		if q.remove(items[i]) {
			removed++
		}
	}
	popped := 0
	for q.pop() != nil {
		popped++
	}
	if removed+popped != 9 {
		t.Fatalf("removed %d + popped %d; want 9", removed, popped)
	}
	if !q.valid() || !q.empty() {
		t.Fatal("queue should be empty and valid")
	}
}
