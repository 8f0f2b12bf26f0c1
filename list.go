package threadpool

// itemList is an intrusive doubly linked FIFO of Items anchored by a
// sentinel. Linked items always have non-nil prev/next pointers, so
// membership is a single pointer check on the item itself. All operations
// are O(1).
//
// The zero value is not ready for use; call init first.
type itemList struct {
	root Item // sentinel, never holds callbacks
}

func (l *itemList) init() {
	l.root.prev = &l.root
	l.root.next = &l.root
}

func (l *itemList) empty() bool {
	return l.root.next == &l.root
}

// pushTail appends it at the tail. The item must be unlinked.
func (l *itemList) pushTail(it *Item) {
	it.prev = l.root.prev
	it.next = &l.root
	l.root.prev.next = it
	l.root.prev = it
}

// popHead detaches and returns the head item, or nil if the list is empty.
// The returned item is reset to the unlinked state.
func (l *itemList) popHead() *Item {
	if l.empty() {
		return nil
	}
	it := l.root.next
	it.unlink()
	return it
}

// unlink detaches it from whatever list it is on and resets it to the
// unlinked state. Must only be called on a linked item.
func (it *Item) unlink() {
	it.prev.next = it.next
	it.next.prev = it.prev
	it.prev = nil
	it.next = nil
}

// linked reports whether it currently sits on a list.
func (it *Item) linked() bool {
	return it.next != nil
}
