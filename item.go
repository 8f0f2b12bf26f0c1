package threadpool

// Priority selects the queue band an item is placed on. The zero value is
// PriorityNormal; anything outside the three named values is treated as
// normal as well.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityLow
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}

// Item is a unit of work submitted to a pool.
//
// The caller allocates the Item and retains ownership of its storage until
// Release is invoked. Ownership transfers to the pool on a successful
// Submit; the pool hands it back by calling Release exactly once, whether
// the item ran, was cancelled, was rejected during shutdown, or was
// drained during an abort.
//
// An Item belongs to at most one band of at most one pool's queue at a
// time. Resubmitting is allowed once Release has run.
type Item struct {
	// Action runs the item's payload. Invoked at most once, and never
	// once an abortive shutdown has been observed by the draining worker.
	Action func(*Item)

	// Release reclaims the item's resources. Invoked exactly once per
	// accepted or rejected item, after Action if Action ran.
	Release func(*Item)

	// intrusive queue link; nil pointers mean unlinked
	prev, next *Item
}
