package sync

// Statistics are the per-primitive counters reported to the metrics layer.
type Statistics struct {
	Acquisitions int // Successful acquires (or arrivals/count-downs).
	Contentions  int // Acquires that had to wait.
	Releases     int // Releases (or trips).
	Waiting      int // Threads currently queued.
}

// Primitive is any registered synchronization object.
type Primitive interface {
	Id() string
	Statistics() Statistics
}

// Locker is a primitive usable by the LOCK/UNLOCK instructions.
type Locker interface {
	Primitive
	Acquire(thread int, timestamp uint64) (ok bool)
	Release(thread int, timestamp uint64) (next int, err error)
}
