package sync

// Semaphore is a counting semaphore with FIFO waiter service.
type Semaphore struct {
	id        string
	max       int
	available int
	waiters   waitq
	stats     Statistics
}

// NewSemaphore creates a Semaphore with the given permit limit, all
// permits initially available.
func NewSemaphore(id string, permits int) (s *Semaphore) {
	s = &Semaphore{
		id:        id,
		max:       permits,
		available: permits,
	}

	return
}

var _ Primitive = (*Semaphore)(nil)

// Id returns the registry id.
func (s *Semaphore) Id() string {
	return s.id
}

// Available returns the number of unheld permits.
func (s *Semaphore) Available() int {
	return s.available
}

// Acquire takes count permits if available; otherwise the thread and its
// requested count are queued FIFO.
func (s *Semaphore) Acquire(thread int, timestamp uint64, count int) (ok bool) {
	if count <= s.available {
		s.available -= count
		s.stats.Acquisitions++
		return true
	}

	s.waiters.push(thread, count)
	s.stats.Contentions++
	return false
}

// Release returns count permits and then satisfies queued requests in
// FIFO order while enough permits remain. unblocked lists the newly
// satisfied thread ids.
func (s *Semaphore) Release(thread int, timestamp uint64, count int) (unblocked []int, err error) {
	if s.available+count > s.max {
		err = ErrPermitOverflow(s.id)
		return
	}

	s.available += count
	s.stats.Releases++

	for {
		w, ok := s.waiters.peek()
		if !ok || w.count > s.available {
			break
		}
		s.waiters.pop()
		s.available -= w.count
		s.stats.Acquisitions++
		unblocked = append(unblocked, w.thread)
	}

	return
}

// Statistics returns the acquisition/contention counters.
func (s *Semaphore) Statistics() (stats Statistics) {
	stats = s.stats
	stats.Waiting = s.waiters.len()
	return
}
