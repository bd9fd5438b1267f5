// Package metrics implements the observation layer of the parvm virtual
// machine. The collector is a pure observer: the VM reports cycles,
// instructions, memory accesses, and synchronization operations, and the
// collector derives utilization, throughput, and contention rates,
// supports labeled checkpoints with diffs, and ranks likely bottlenecks
// against fixed heuristic thresholds.
package metrics

import (
	"github.com/ezrec/parvm/isa"
)

// ThreadCounters are the per-thread counters.
type ThreadCounters struct {
	Cycles          uint64 // Cycles spent running.
	Instructions    uint64 // Instructions executed.
	Waits           uint64 // Cycles spent waiting.
	ContextSwitches uint64
}

// Counters is the complete counter state; checkpoints snapshot it.
type Counters struct {
	Cycles       uint64
	Active       []uint64 // Per-processor active cycles.
	Idle         []uint64 // Per-processor idle cycles.
	SerialCycles uint64   // Cycles with at most one active processor.

	Instructions uint64
	ByClass      [isa.CLASS_COUNT]uint64

	MemoryHits   uint64
	MemoryMisses uint64

	SyncOps       uint64
	SyncContended uint64

	Threads map[int]ThreadCounters
}

// clone deep-copies the counter state.
func (c *Counters) clone() (out Counters) {
	out = *c
	out.Active = append([]uint64{}, c.Active...)
	out.Idle = append([]uint64{}, c.Idle...)
	out.Threads = map[int]ThreadCounters{}
	for id, th := range c.Threads {
		out.Threads[id] = th
	}

	return
}

// Collector accumulates execution counters for one VM.
type Collector struct {
	counters    Counters
	checkpoints map[string]Counters
}

// NewCollector creates a collector for the given processor count.
func NewCollector(processors int) (m *Collector) {
	m = &Collector{
		counters: Counters{
			Active:  make([]uint64, processors),
			Idle:    make([]uint64, processors),
			Threads: map[int]ThreadCounters{},
		},
		checkpoints: map[string]Counters{},
	}

	return
}

// Counters returns a copy of the current counter state.
func (m *Collector) Counters() Counters {
	return m.counters.clone()
}

// RecordCycle accounts one completed cycle: which processors were
// active, and which threads sat waiting.
func (m *Collector) RecordCycle(activeByProcessor []bool, waitingThreads []int) {
	m.counters.Cycles++

	active := 0
	for n, on := range activeByProcessor {
		if n >= len(m.counters.Active) {
			break
		}
		if on {
			m.counters.Active[n]++
			active++
		} else {
			m.counters.Idle[n]++
		}
	}
	if active <= 1 {
		m.counters.SerialCycles++
	}

	for _, id := range waitingThreads {
		th := m.counters.Threads[id]
		th.Waits++
		m.counters.Threads[id] = th
	}
}

// RecordInstruction accounts one executed instruction.
func (m *Collector) RecordInstruction(processorId int, threadId int, class isa.OpClass) {
	m.counters.Instructions++
	if class >= 0 && class < isa.CLASS_COUNT {
		m.counters.ByClass[class]++
	}

	th := m.counters.Threads[threadId]
	th.Cycles++
	th.Instructions++
	m.counters.Threads[threadId] = th

	if class == isa.CLASS_SYNC {
		// Non-contended by default; RecordSyncContention upgrades.
		m.counters.SyncOps++
	}
}

// RecordSyncContention marks the most recent sync operation contended.
func (m *Collector) RecordSyncContention() {
	m.counters.SyncContended++
}

// RecordContextSwitch accounts one context switch against the thread.
func (m *Collector) RecordContextSwitch(threadId int) {
	th := m.counters.Threads[threadId]
	th.ContextSwitches++
	m.counters.Threads[threadId] = th
}

// RecordMemoryAccess accounts one memory access and its cache outcome.
func (m *Collector) RecordMemoryAccess(hit bool) {
	if hit {
		m.counters.MemoryHits++
	} else {
		m.counters.MemoryMisses++
	}
}
