package threadpool

// workQueue holds pending items in three intrusive FIFO bands. Ordering is
// strict priority across bands (high, then normal, then low) and insertion
// order within a band. There is no aging: a steady high-priority producer
// can starve the low band, which is acceptable because callers choose
// priorities.
//
// All methods must be called with the pool mutex held.
type workQueue struct {
	high   itemList
	normal itemList
	low    itemList
	size   int
}

func (q *workQueue) init() {
	q.high.init()
	q.normal.init()
	q.low.init()
}

// valid reports whether the size counter agrees with band emptiness.
func (q *workQueue) valid() bool {
	if q.high.empty() && q.normal.empty() && q.low.empty() {
		return q.size == 0
	}
	return q.size != 0
}

func (q *workQueue) empty() bool {
	return q.size == 0
}

func (q *workQueue) len() int {
	return q.size
}

// push appends it to the band selected by prio. The item must be unlinked;
// Submit enforces that before calling.
func (q *workQueue) push(it *Item, prio Priority) {
	switch prio {
	case PriorityLow:
		q.low.pushTail(it)
	case PriorityHigh:
		q.high.pushTail(it)
	default:
		q.normal.pushTail(it)
	}
	q.size++
}

// pop removes and returns the head of the first non-empty band, or nil if
// the queue is empty. The returned item is unlinked.
func (q *workQueue) pop() *Item {
	if q.size == 0 {
		return nil
	}

	var it *Item
	switch {
	case !q.high.empty():
		it = q.high.popHead()
	case !q.normal.empty():
		it = q.normal.popHead()
	default:
		it = q.low.popHead()
	}
	q.size--
	return it
}

// remove detaches it from its band if it is currently queued. Returns
// false when the item is not linked anywhere. The size decrement saturates
// at zero to tolerate corrupted accounting.
func (q *workQueue) remove(it *Item) bool {
	if !it.linked() {
		return false
	}
	it.unlink()
	if q.size > 0 {
		q.size--
	}
	return true
}
