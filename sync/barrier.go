package sync

// Barrier is a cyclic rendezvous for a fixed number of parties. Each trip
// increments the generation counter and empties the waiting set.
type Barrier struct {
	id         string
	parties    int
	generation int
	waiters    waitq
	stats      Statistics
}

// NewBarrier creates a Barrier for the given party count.
func NewBarrier(id string, parties int) (b *Barrier) {
	b = &Barrier{
		id:      id,
		parties: parties,
	}

	return
}

var _ Primitive = (*Barrier)(nil)

// Id returns the registry id.
func (b *Barrier) Id() string {
	return b.id
}

// Parties returns the arrival count that trips the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// Generation returns the number of completed trips.
func (b *Barrier) Generation() int {
	return b.generation
}

// Waiting returns the number of threads parked at the barrier.
func (b *Barrier) Waiting() int {
	return b.waiters.len()
}

// Arrive adds the thread to the waiting set. The arrival that reaches the
// party count trips the barrier: tripped is true for that call only, the
// generation increments by one, and unblocked lists the parked threads.
func (b *Barrier) Arrive(thread int, timestamp uint64) (tripped bool, unblocked []int) {
	b.stats.Acquisitions++

	if b.waiters.len()+1 < b.parties {
		b.waiters.push(thread, 0)
		b.stats.Contentions++
		return false, nil
	}

	unblocked = b.waiters.threads()
	b.waiters.clear()
	b.generation++
	b.stats.Releases++

	return true, unblocked
}

// Reset clears the waiting set without touching the generation.
func (b *Barrier) Reset() (unblocked []int) {
	unblocked = b.waiters.threads()
	b.waiters.clear()
	return
}

// Statistics returns the arrival/trip counters.
func (b *Barrier) Statistics() (stats Statistics) {
	stats = b.stats
	stats.Waiting = b.waiters.len()
	return
}
