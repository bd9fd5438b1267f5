package sync

// waiter is one queued thread, with the permit count it asked for
// (semaphores only; other primitives leave it zero).
type waiter struct {
	thread int
	count  int
}

// waitq is a FIFO queue of waiting threads, shared by every primitive.
// Pops advance a head index instead of reslicing so queued order is
// never disturbed by removal.
type waitq struct {
	items []waiter
	head  int
}

// push appends a waiter to the tail.
func (q *waitq) push(thread int, count int) {
	q.items = append(q.items, waiter{thread: thread, count: count})
}

// pop removes and returns the head waiter.
func (q *waitq) pop() (w waiter, ok bool) {
	w, ok = q.peek()
	if !ok {
		return
	}
	q.head++
	q.compact()
	return
}

// peek returns the head waiter without removing it.
func (q *waitq) peek() (w waiter, ok bool) {
	if q.head >= len(q.items) {
		return
	}
	return q.items[q.head], true
}

// remove deletes the first queued entry for the thread, preserving order.
func (q *waitq) remove(thread int) (ok bool) {
	for n := q.head; n < len(q.items); n++ {
		if q.items[n].thread == thread {
			q.items = append(q.items[:n], q.items[n+1:]...)
			return true
		}
	}
	return false
}

// contains reports whether the thread is queued.
func (q *waitq) contains(thread int) bool {
	for n := q.head; n < len(q.items); n++ {
		if q.items[n].thread == thread {
			return true
		}
	}
	return false
}

// len returns the number of queued waiters.
func (q *waitq) len() int {
	return len(q.items) - q.head
}

// threads returns the queued thread ids in FIFO order.
func (q *waitq) threads() (ids []int) {
	for n := q.head; n < len(q.items); n++ {
		ids = append(ids, q.items[n].thread)
	}
	return
}

// clear drops all waiters.
func (q *waitq) clear() {
	q.items = q.items[:0]
	q.head = 0
}

// compact reclaims popped space once the head has passed half the slice.
func (q *waitq) compact() {
	if q.head == 0 || q.head*2 < len(q.items) {
		return
	}
	q.items = append(q.items[:0], q.items[q.head:]...)
	q.head = 0
}
