package sync

// NO_THREAD marks an unowned primitive.
const NO_THREAD = -1

// Lock is a plain mutual-exclusion lock with a FIFO waiter queue.
type Lock struct {
	id      string
	owner   int
	waiters waitq
	stats   Statistics
}

// NewLock creates an unlocked Lock.
func NewLock(id string) (l *Lock) {
	l = &Lock{
		id:    id,
		owner: NO_THREAD,
	}

	return
}

var _ Locker = (*Lock)(nil)

// Id returns the registry id.
func (l *Lock) Id() string {
	return l.id
}

// Owner returns the owning thread, or NO_THREAD when unlocked.
func (l *Lock) Owner() int {
	return l.owner
}

// Acquire attempts to take the lock for the thread. On contention the
// thread is queued FIFO and false is returned.
func (l *Lock) Acquire(thread int, timestamp uint64) (ok bool) {
	if l.owner == NO_THREAD {
		l.owner = thread
		l.stats.Acquisitions++
		return true
	}

	l.waiters.push(thread, 0)
	l.stats.Contentions++
	return false
}

// Release unlocks, handing ownership to the next queued waiter if any.
// next is the newly runnable thread id, or NO_THREAD.
func (l *Lock) Release(thread int, timestamp uint64) (next int, err error) {
	next = NO_THREAD

	if l.owner != thread {
		err = ErrNotOwner{Id: l.id, Thread: thread}
		return
	}

	l.stats.Releases++

	w, ok := l.waiters.pop()
	if !ok {
		l.owner = NO_THREAD
		return
	}

	l.owner = w.thread
	l.stats.Acquisitions++
	next = w.thread

	return
}

// Statistics returns the acquisition/contention counters.
func (l *Lock) Statistics() (stats Statistics) {
	stats = l.stats
	stats.Waiting = l.waiters.len()
	return
}

// ReentrantLock is a Lock whose owner may re-acquire it; the lock is only
// freed when releases balance acquires.
type ReentrantLock struct {
	id        string
	owner     int
	recursion int
	waiters   waitq
	stats     Statistics
}

// NewReentrantLock creates an unlocked ReentrantLock.
func NewReentrantLock(id string) (l *ReentrantLock) {
	l = &ReentrantLock{
		id:    id,
		owner: NO_THREAD,
	}

	return
}

var _ Locker = (*ReentrantLock)(nil)

// Id returns the registry id.
func (l *ReentrantLock) Id() string {
	return l.id
}

// Owner returns the owning thread, or NO_THREAD when unlocked.
func (l *ReentrantLock) Owner() int {
	return l.owner
}

// Recursion returns the current recursion depth. Zero only when unlocked.
func (l *ReentrantLock) Recursion() int {
	return l.recursion
}

// Acquire takes the lock, or deepens the recursion when the owner
// re-acquires. Contending threads are queued FIFO.
func (l *ReentrantLock) Acquire(thread int, timestamp uint64) (ok bool) {
	switch l.owner {
	case NO_THREAD:
		l.owner = thread
		l.recursion = 1
		l.stats.Acquisitions++
		return true
	case thread:
		l.recursion++
		l.stats.Acquisitions++
		return true
	}

	l.waiters.push(thread, 0)
	l.stats.Contentions++
	return false
}

// Release unwinds one recursion level; the lock is handed off only when
// the count reaches zero.
func (l *ReentrantLock) Release(thread int, timestamp uint64) (next int, err error) {
	next = NO_THREAD

	if l.owner != thread {
		err = ErrNotOwner{Id: l.id, Thread: thread}
		return
	}

	l.recursion--
	if l.recursion > 0 {
		return
	}

	l.stats.Releases++

	w, ok := l.waiters.pop()
	if !ok {
		l.owner = NO_THREAD
		return
	}

	l.owner = w.thread
	l.recursion = 1
	l.stats.Acquisitions++
	next = w.thread

	return
}

// Statistics returns the acquisition/contention counters.
func (l *ReentrantLock) Statistics() (stats Statistics) {
	stats = l.stats
	stats.Waiting = l.waiters.len()
	return
}
