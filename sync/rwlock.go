package sync

// ReadWriteLock allows any number of concurrent readers while no writer
// holds or waits. Writers have priority: a pending writer blocks new
// readers until it has run.
type ReadWriteLock struct {
	id             string
	readers        map[int]struct{}
	writer         int
	waitingWriters waitq
	waitingReaders waitq
	stats          Statistics
}

// NewReadWriteLock creates an uncontended ReadWriteLock.
func NewReadWriteLock(id string) (l *ReadWriteLock) {
	l = &ReadWriteLock{
		id:      id,
		readers: map[int]struct{}{},
		writer:  NO_THREAD,
	}

	return
}

var _ Primitive = (*ReadWriteLock)(nil)

// Id returns the registry id.
func (l *ReadWriteLock) Id() string {
	return l.id
}

// Readers returns the number of threads currently holding the read side.
func (l *ReadWriteLock) Readers() int {
	return len(l.readers)
}

// Writer returns the thread holding the write side, or NO_THREAD.
func (l *ReadWriteLock) Writer() int {
	return l.writer
}

// AcquireRead takes the read side unless a writer holds or waits.
func (l *ReadWriteLock) AcquireRead(thread int, timestamp uint64) (ok bool) {
	if l.writer == NO_THREAD && l.waitingWriters.len() == 0 {
		l.readers[thread] = struct{}{}
		l.stats.Acquisitions++
		return true
	}

	l.waitingReaders.push(thread, 0)
	l.stats.Contentions++
	return false
}

// ReleaseRead drops the read side. A waiting writer is handed the lock
// only once the reader count reaches zero.
func (l *ReadWriteLock) ReleaseRead(thread int, timestamp uint64) (unblocked []int, err error) {
	if _, held := l.readers[thread]; !held {
		err = ErrNotOwner{Id: l.id, Thread: thread}
		return
	}

	delete(l.readers, thread)
	l.stats.Releases++

	if len(l.readers) != 0 {
		return
	}

	if w, ok := l.waitingWriters.pop(); ok {
		l.writer = w.thread
		l.stats.Acquisitions++
		unblocked = []int{w.thread}
	}

	return
}

// AcquireWrite takes the write side when no reader or writer holds it.
func (l *ReadWriteLock) AcquireWrite(thread int, timestamp uint64) (ok bool) {
	if l.writer == NO_THREAD && len(l.readers) == 0 {
		l.writer = thread
		l.stats.Acquisitions++
		return true
	}

	l.waitingWriters.push(thread, 0)
	l.stats.Contentions++
	return false
}

// ReleaseWrite drops the write side, preferring a queued writer; with no
// writer queued, every queued reader is admitted atomically.
func (l *ReadWriteLock) ReleaseWrite(thread int, timestamp uint64) (unblocked []int, err error) {
	if l.writer != thread {
		err = ErrNotOwner{Id: l.id, Thread: thread}
		return
	}

	l.writer = NO_THREAD
	l.stats.Releases++

	if w, ok := l.waitingWriters.pop(); ok {
		l.writer = w.thread
		l.stats.Acquisitions++
		unblocked = []int{w.thread}
		return
	}

	for {
		w, ok := l.waitingReaders.pop()
		if !ok {
			break
		}
		l.readers[w.thread] = struct{}{}
		l.stats.Acquisitions++
		unblocked = append(unblocked, w.thread)
	}

	return
}

// Statistics returns the acquisition/contention counters.
func (l *ReadWriteLock) Statistics() (stats Statistics) {
	stats = l.stats
	stats.Waiting = l.waitingWriters.len() + l.waitingReaders.len()
	return
}
