package sync

// CountDownLatch gates waiters until its count reaches zero. Unlike a
// Barrier it never resets: once open, Await succeeds forever after.
type CountDownLatch struct {
	id      string
	count   int
	waiters waitq
	stats   Statistics
}

// NewCountDownLatch creates a latch with the given initial count.
func NewCountDownLatch(id string, count int) (l *CountDownLatch) {
	l = &CountDownLatch{
		id:    id,
		count: count,
	}

	return
}

var _ Primitive = (*CountDownLatch)(nil)

// Id returns the registry id.
func (l *CountDownLatch) Id() string {
	return l.id
}

// Count returns the remaining count.
func (l *CountDownLatch) Count() int {
	return l.count
}

// CountDown decrements the count. The decrement that reaches zero opens
// the latch and unblocks every queued waiter.
func (l *CountDownLatch) CountDown(thread int, timestamp uint64) (unblocked []int) {
	if l.count == 0 {
		return
	}

	l.count--
	l.stats.Acquisitions++
	if l.count > 0 {
		return
	}

	unblocked = l.waiters.threads()
	l.waiters.clear()
	l.stats.Releases++

	return
}

// Await reports whether the latch is open. A closed latch queues the
// thread and returns false.
func (l *CountDownLatch) Await(thread int, timestamp uint64) (open bool) {
	if l.count == 0 {
		return true
	}

	l.waiters.push(thread, 0)
	l.stats.Contentions++
	return false
}

// Statistics returns the count-down/contention counters.
func (l *CountDownLatch) Statistics() (stats Statistics) {
	stats = l.stats
	stats.Waiting = l.waiters.len()
	return
}
