package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaitq(t *testing.T) {
	assert := assert.New(t)

	var q waitq

	_, ok := q.pop()
	assert.False(ok)
	assert.Equal(0, q.len())

	q.push(1, 0)
	q.push(2, 3)
	q.push(3, 0)
	assert.Equal(3, q.len())
	assert.Equal([]int{1, 2, 3}, q.threads())

	w, ok := q.peek()
	assert.True(ok)
	assert.Equal(waiter{thread: 1}, w)

	w, ok = q.pop()
	assert.True(ok)
	assert.Equal(1, w.thread)

	// Removal preserves the order of the rest.
	assert.True(q.contains(3))
	assert.True(q.remove(3))
	assert.False(q.contains(3))
	assert.False(q.remove(3))
	assert.Equal([]int{2}, q.threads())

	w, ok = q.pop()
	assert.True(ok)
	assert.Equal(waiter{thread: 2, count: 3}, w)
	assert.Equal(0, q.len())

	q.push(4, 0)
	q.clear()
	assert.Equal(0, q.len())
	assert.Nil(q.threads())
}

func TestWaitqCompact(t *testing.T) {
	assert := assert.New(t)

	var q waitq
	for n := range 8 {
		q.push(n, 0)
	}
	for range 6 {
		q.pop()
	}
	assert.Equal([]int{6, 7}, q.threads())

	// Compaction resets the head; order survives.
	assert.Equal(0, q.head)
	q.push(8, 0)
	assert.Equal([]int{6, 7, 8}, q.threads())
}
