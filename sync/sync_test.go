package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLock(t *testing.T) {
	assert := assert.New(t)

	l := NewLock("m")
	assert.Equal("m", l.Id())
	assert.Equal(NO_THREAD, l.Owner())

	assert.True(l.Acquire(1, 0))
	assert.Equal(1, l.Owner())

	// Contenders queue FIFO.
	assert.False(l.Acquire(2, 1))
	assert.False(l.Acquire(3, 2))

	// Non-owner release raises.
	_, err := l.Release(2, 3)
	assert.True(errors.Is(err, ErrNotOwner{}))

	// Ownership hands off in queue order.
	next, err := l.Release(1, 4)
	assert.NoError(err)
	assert.Equal(2, next)
	assert.Equal(2, l.Owner())

	next, err = l.Release(2, 5)
	assert.NoError(err)
	assert.Equal(3, next)

	next, err = l.Release(3, 6)
	assert.NoError(err)
	assert.Equal(NO_THREAD, next)
	assert.Equal(NO_THREAD, l.Owner())

	stats := l.Statistics()
	assert.Equal(3, stats.Acquisitions)
	assert.Equal(2, stats.Contentions)
	assert.Equal(3, stats.Releases)
	assert.Equal(0, stats.Waiting)
}

func TestReentrantLock(t *testing.T) {
	assert := assert.New(t)

	l := NewReentrantLock("m")

	assert.True(l.Acquire(1, 0))
	assert.True(l.Acquire(1, 1))
	assert.Equal(2, l.Recursion())

	assert.False(l.Acquire(2, 2))

	// Inner release keeps ownership.
	next, err := l.Release(1, 3)
	assert.NoError(err)
	assert.Equal(NO_THREAD, next)
	assert.Equal(1, l.Owner())

	// Outer release hands off.
	next, err = l.Release(1, 4)
	assert.NoError(err)
	assert.Equal(2, next)
	assert.Equal(2, l.Owner())
	assert.Equal(1, l.Recursion())
}

func TestReadWriteLock(t *testing.T) {
	assert := assert.New(t)

	l := NewReadWriteLock("rw")

	// Readers share.
	assert.True(l.AcquireRead(1, 0))
	assert.True(l.AcquireRead(2, 1))
	assert.Equal(2, l.Readers())

	// Writer waits for all readers, and blocks new readers meanwhile.
	assert.False(l.AcquireWrite(3, 2))
	assert.False(l.AcquireRead(4, 3))

	unblocked, err := l.ReleaseRead(1, 4)
	assert.NoError(err)
	assert.Empty(unblocked)

	unblocked, err = l.ReleaseRead(2, 5)
	assert.NoError(err)
	assert.Equal([]int{3}, unblocked)
	assert.Equal(3, l.Writer())

	// Writer release with no queued writer admits every queued reader.
	unblocked, err = l.ReleaseWrite(3, 6)
	assert.NoError(err)
	assert.Equal([]int{4}, unblocked)
	assert.Equal(1, l.Readers())

	_, err = l.ReleaseRead(9, 7)
	assert.True(errors.Is(err, ErrNotOwner{}))
	_, err = l.ReleaseWrite(9, 8)
	assert.True(errors.Is(err, ErrNotOwner{}))
}

func TestReadWriteLockWriterChain(t *testing.T) {
	assert := assert.New(t)

	l := NewReadWriteLock("rw")

	assert.True(l.AcquireWrite(1, 0))
	assert.False(l.AcquireWrite(2, 1))
	assert.False(l.AcquireRead(3, 2))

	// Queued writer is preferred over queued readers.
	unblocked, err := l.ReleaseWrite(1, 3)
	assert.NoError(err)
	assert.Equal([]int{2}, unblocked)
	assert.Equal(2, l.Writer())

	unblocked, err = l.ReleaseWrite(2, 4)
	assert.NoError(err)
	assert.Equal([]int{3}, unblocked)
}

func TestSemaphore(t *testing.T) {
	assert := assert.New(t)

	s := NewSemaphore("pool", 3)
	assert.Equal(3, s.Available())

	assert.True(s.Acquire(1, 0, 2))
	assert.True(s.Acquire(2, 1, 1))
	assert.Equal(0, s.Available())

	// Queued strictly FIFO, even when a later smaller request would fit.
	assert.False(s.Acquire(3, 2, 2))
	assert.False(s.Acquire(4, 3, 1))

	unblocked, err := s.Release(1, 4, 1)
	assert.NoError(err)
	assert.Empty(unblocked) // Head of line needs 2.

	unblocked, err = s.Release(2, 5, 1)
	assert.NoError(err)
	assert.Equal([]int{3}, unblocked)

	unblocked, err = s.Release(3, 6, 2)
	assert.NoError(err)
	assert.Equal([]int{4}, unblocked)
	assert.Equal(1, s.Available())

	// Releasing beyond the limit raises.
	_, err = s.Release(4, 7, 5)
	assert.True(errors.Is(err, ErrPermitOverflow("")))
}

func TestBarrier(t *testing.T) {
	assert := assert.New(t)

	b := NewBarrier("b", 3)
	assert.Equal(3, b.Parties())

	tripped, _ := b.Arrive(1, 0)
	assert.False(tripped)
	tripped, _ = b.Arrive(2, 1)
	assert.False(tripped)
	assert.Equal(2, b.Waiting())
	assert.Equal(0, b.Generation())

	tripped, unblocked := b.Arrive(3, 2)
	assert.True(tripped)
	assert.Equal([]int{1, 2}, unblocked)
	assert.Equal(1, b.Generation())
	assert.Equal(0, b.Waiting())

	// The barrier is cyclic.
	tripped, _ = b.Arrive(1, 3)
	assert.False(tripped)
	tripped, _ = b.Arrive(2, 4)
	assert.False(tripped)
	tripped, unblocked = b.Arrive(3, 5)
	assert.True(tripped)
	assert.Equal([]int{1, 2}, unblocked)
	assert.Equal(2, b.Generation())
}

func TestBarrierReset(t *testing.T) {
	assert := assert.New(t)

	b := NewBarrier("b", 2)
	b.Arrive(1, 0)

	unblocked := b.Reset()
	assert.Equal([]int{1}, unblocked)
	assert.Equal(0, b.Generation())
	assert.Equal(0, b.Waiting())
}

func TestCountDownLatch(t *testing.T) {
	assert := assert.New(t)

	l := NewCountDownLatch("start", 2)

	assert.False(l.Await(1, 0))
	assert.Empty(l.CountDown(2, 1))
	assert.Equal(1, l.Count())

	unblocked := l.CountDown(3, 2)
	assert.Equal([]int{1}, unblocked)
	assert.Equal(0, l.Count())

	// Once open, always open.
	assert.True(l.Await(4, 3))
	assert.Empty(l.CountDown(5, 4))
}

func TestRegistry(t *testing.T) {
	assert := assert.New(t)

	r := NewRegistry()

	assert.NoError(r.Register(NewLock("a")))
	assert.True(errors.Is(r.Register(NewLock("a")), ErrDuplicate("a")))

	p, err := r.Lookup("a")
	assert.NoError(err)
	assert.Equal("a", p.Id())

	_, err = r.Lookup("missing")
	assert.True(errors.Is(err, ErrNotFound("missing")))

	// LockerFor auto-creates a plain Lock.
	l, err := r.LockerFor("auto")
	assert.NoError(err)
	assert.True(l.Acquire(1, 0))

	// A non-lock under the id is a lookup failure.
	assert.NoError(r.Register(NewBarrier("b", 2)))
	_, err = r.LockerFor("b")
	assert.Error(err)

	b, err := r.BarrierFor("b")
	assert.NoError(err)
	assert.Equal(2, b.Parties())
	_, err = r.BarrierFor("a")
	assert.Error(err)

	ids := []string{}
	for id := range r.All() {
		ids = append(ids, id)
	}
	assert.Equal([]string{"a", "auto", "b"}, ids)

	stats := r.Statistics()
	assert.Equal(1, stats["auto"].Acquisitions)
}
