// Package mem implements the shared addressable memory for the parvm
// virtual machine: a fixed-size array of 32-bit cells with a small
// per-processor direct-mapped tag cache simulation. Every read and write
// is reported to an optional observer so the metrics layer can account
// cache hits and misses without the memory knowing about metrics.
package mem

import (
	"log"
)

// CACHE_LINES is the number of tag lines in each simulated per-processor cache.
const CACHE_LINES = 64

// Observer is notified of every memory access.
type Observer func(addr uint32, write bool, processorId int, threadId int, timestamp uint64, hit bool)

// cache is a direct-mapped tag cache. Only hit/miss behavior is modeled;
// data always comes from the backing array.
type cache struct {
	valid [CACHE_LINES]bool
	tags  [CACHE_LINES]uint32
}

// touch records an access and reports whether it hit.
func (c *cache) touch(addr uint32) (hit bool) {
	line := addr % CACHE_LINES
	hit = c.valid[line] && c.tags[line] == addr
	c.valid[line] = true
	c.tags[line] = addr
	return
}

// Memory is the fixed-size shared memory array.
type Memory struct {
	Verbose  bool     // Set to enable verbose logging.
	Observer Observer // Optional access observer.

	cells  []int32
	caches []cache
}

// NewMemory creates a memory of the given cell count, with one simulated
// cache per processor.
func NewMemory(size int, processors int) (m *Memory) {
	m = &Memory{
		cells:  make([]int32, size),
		caches: make([]cache, processors),
	}

	return
}

// Size returns the number of addressable cells.
func (m *Memory) Size() int {
	return len(m.cells)
}

// Read returns the value at addr, recording the access.
func (m *Memory) Read(addr uint32, processorId int, threadId int, timestamp uint64) (value int32, err error) {
	if int(addr) >= len(m.cells) {
		err = ErrAddressRange(addr)
		return
	}

	value = m.cells[addr]
	m.observe(addr, false, processorId, threadId, timestamp)

	if m.Verbose {
		log.Printf("mem: t=%v p%v read [%v] -> %v", timestamp, processorId, addr, value)
	}

	return
}

// Write stores value at addr, recording the access.
func (m *Memory) Write(addr uint32, value int32, processorId int, threadId int, timestamp uint64) (err error) {
	if int(addr) >= len(m.cells) {
		err = ErrAddressRange(addr)
		return
	}

	m.cells[addr] = value
	m.observe(addr, true, processorId, threadId, timestamp)

	if m.Verbose {
		log.Printf("mem: t=%v p%v write [%v] <- %v", timestamp, processorId, addr, value)
	}

	return
}

// observe runs the cache simulation and notifies the observer.
func (m *Memory) observe(addr uint32, write bool, processorId int, threadId int, timestamp uint64) {
	hit := false
	if processorId >= 0 && processorId < len(m.caches) {
		hit = m.caches[processorId].touch(addr)
	}
	if m.Observer != nil {
		m.Observer(addr, write, processorId, threadId, timestamp, hit)
	}
}

// Peek returns the value at addr without recording an access.
// Used for data-segment loading and state inspection.
func (m *Memory) Peek(addr uint32) (value int32, err error) {
	if int(addr) >= len(m.cells) {
		err = ErrAddressRange(addr)
		return
	}

	value = m.cells[addr]
	return
}

// Poke stores value at addr without recording an access.
func (m *Memory) Poke(addr uint32, value int32) (err error) {
	if int(addr) >= len(m.cells) {
		err = ErrAddressRange(addr)
		return
	}

	m.cells[addr] = value
	return
}

// Snapshot returns a copy of the full cell array.
func (m *Memory) Snapshot() (cells []int32) {
	cells = make([]int32, len(m.cells))
	copy(cells, m.cells)
	return
}
