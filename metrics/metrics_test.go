package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/parvm/isa"
)

func TestCollectorCycles(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(2)

	m.RecordCycle([]bool{true, true}, nil)
	m.RecordCycle([]bool{true, false}, []int{1})
	m.RecordCycle([]bool{false, false}, []int{0, 1})

	c := m.Counters()
	assert.Equal(uint64(3), c.Cycles)
	assert.Equal([]uint64{2, 1}, c.Active)
	assert.Equal([]uint64{1, 2}, c.Idle)
	assert.Equal(uint64(2), c.SerialCycles)

	// Active plus idle always equals total cycles, per processor.
	for n := range c.Active {
		assert.Equal(c.Cycles, c.Active[n]+c.Idle[n])
	}

	assert.Equal(uint64(1), c.Threads[0].Waits)
	assert.Equal(uint64(2), c.Threads[1].Waits)
}

func TestCollectorInstructions(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)

	m.RecordInstruction(0, 0, isa.CLASS_COMPUTE)
	m.RecordInstruction(0, 0, isa.CLASS_COMPUTE)
	m.RecordInstruction(0, 1, isa.CLASS_SYNC)
	m.RecordSyncContention()
	m.RecordContextSwitch(0)
	m.RecordMemoryAccess(true)
	m.RecordMemoryAccess(false)

	c := m.Counters()
	assert.Equal(uint64(3), c.Instructions)
	assert.Equal(uint64(2), c.ByClass[isa.CLASS_COMPUTE])
	assert.Equal(uint64(1), c.ByClass[isa.CLASS_SYNC])
	assert.Equal(uint64(1), c.SyncOps)
	assert.Equal(uint64(1), c.SyncContended)
	assert.Equal(uint64(1), c.Threads[0].ContextSwitches)
	assert.Equal(uint64(2), c.Threads[0].Instructions)
	assert.Equal(uint64(1), c.MemoryHits)
	assert.Equal(uint64(1), c.MemoryMisses)
}

func TestSummary(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(2)

	for range 10 {
		m.RecordCycle([]bool{true, true}, nil)
		m.RecordInstruction(0, 0, isa.CLASS_COMPUTE)
		m.RecordInstruction(1, 1, isa.CLASS_COMPUTE)
	}
	m.RecordMemoryAccess(true)
	m.RecordMemoryAccess(true)
	m.RecordMemoryAccess(true)
	m.RecordMemoryAccess(false)

	s := m.Summary()
	assert.Equal(uint64(10), s.Cycles)
	assert.Equal(uint64(20), s.Instructions)
	assert.InDelta(2.0, s.InstructionsPerCyc, 1e-9)
	assert.InDelta(1.0, s.OverallUtilization, 1e-9)
	assert.InDelta(1.0, s.Utilization[0], 1e-9)
	assert.InDelta(0.75, s.CacheHitRate, 1e-9)
	assert.InDelta(0.0, s.SerialFraction, 1e-9)
	assert.InDelta(0.0, s.SyncOverheadPercent, 1e-9)
}

func TestSummaryZeroSafe(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)
	s := m.Summary()
	assert.Equal(uint64(0), s.Cycles)
	assert.Equal(0.0, s.InstructionsPerCyc)
	assert.Equal(0.0, s.CacheHitRate)
	assert.Equal(0.0, s.LockContentionRate)
}

func TestSummaryWaitPercent(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)

	// Thread 0 runs 3 cycles and waits 1.
	for range 3 {
		m.RecordCycle([]bool{true}, nil)
		m.RecordInstruction(0, 0, isa.CLASS_COMPUTE)
	}
	m.RecordCycle([]bool{false}, []int{0})

	s := m.Summary()
	assert.InDelta(25.0, s.Threads[0].WaitPercent, 1e-9)
}

func TestCheckpoints(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)

	m.RecordCycle([]bool{true}, nil)
	m.RecordInstruction(0, 0, isa.CLASS_COMPUTE)
	m.CreateCheckpoint("phase1")

	for range 3 {
		m.RecordCycle([]bool{true}, nil)
		m.RecordInstruction(0, 0, isa.CLASS_SYNC)
	}
	m.CreateCheckpoint("phase2")

	diff, err := m.GetCheckpointDiff("phase1", "phase2")
	assert.NoError(err)
	assert.Equal("phase1", diff.From)
	assert.Equal(uint64(3), diff.Deltas.Cycles)
	assert.Equal(uint64(3), diff.Deltas.Instructions)
	assert.Equal(uint64(3), diff.Deltas.ByClass[isa.CLASS_SYNC])
	assert.InDelta(100.0, diff.Derived.SyncOverheadPercent, 1e-9)

	_, err = m.GetCheckpointDiff("phase1", "nonsuch")
	assert.True(errors.Is(err, ErrCheckpointMissing("nonsuch")))

	// A checkpoint is a snapshot, not a live view.
	m.RecordCycle([]bool{true}, nil)
	c, err := m.Checkpoint("phase2")
	assert.NoError(err)
	assert.Equal(uint64(4), c.Cycles)
}

func TestCheckpointOverwrite(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)
	m.CreateCheckpoint("a")
	m.RecordCycle([]bool{true}, nil)
	m.CreateCheckpoint("a")

	c, err := m.Checkpoint("a")
	assert.NoError(err)
	assert.Equal(uint64(1), c.Cycles)
}

func TestBottleneckImbalance(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(2)
	for range 10 {
		m.RecordCycle([]bool{true, false}, nil)
		m.RecordCycle([]bool{true, true}, nil)
	}

	// p0 utilization 1.0, overall 0.75: 1.0 < 1.5*0.75, no finding.
	assert.Empty(findLabel(m, "utilization_imbalance"))

	m = NewCollector(2)
	for range 10 {
		m.RecordCycle([]bool{true, false}, nil)
	}
	// p0 1.0, overall 0.5: above the imbalance factor.
	found := findLabel(m, "utilization_imbalance")
	if assert.Equal(1, len(found)) {
		assert.InDelta(2.0, found[0].Severity, 1e-9)
	}
}

func findLabel(m *Collector, label string) (found []Bottleneck) {
	for _, b := range m.FindBottlenecks() {
		if b.Label == label {
			found = append(found, b)
		}
	}

	return
}

func TestBottleneckSerial(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(2)
	for range 20 {
		m.RecordCycle([]bool{true, false}, nil)
	}

	found := findLabel(m, "serial_execution")
	assert.Equal(1, len(found))
}

func TestBottleneckCache(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)
	m.RecordCycle([]bool{true}, nil)
	for range 5 {
		m.RecordMemoryAccess(true)
		m.RecordMemoryAccess(false)
	}

	found := findLabel(m, "cache_hit_rate")
	assert.Equal(1, len(found))

	// No accesses, no finding.
	m = NewCollector(1)
	m.RecordCycle([]bool{true}, nil)
	assert.Empty(findLabel(m, "cache_hit_rate"))
}

func TestBottleneckContention(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)
	m.RecordCycle([]bool{true}, nil)
	for range 10 {
		m.RecordInstruction(0, 0, isa.CLASS_SYNC)
	}
	m.RecordSyncContention()
	m.RecordSyncContention()

	found := findLabel(m, "lock_contention")
	if assert.Equal(1, len(found)) {
		assert.InDelta(2.0, found[0].Severity, 1e-9)
	}
}

func TestBottleneckSyncOverhead(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)
	m.RecordCycle([]bool{true}, nil)
	for range 4 {
		m.RecordInstruction(0, 0, isa.CLASS_COMPUTE)
	}
	m.RecordInstruction(0, 0, isa.CLASS_SYNC)

	// 20% sync overhead is above the 15% ceiling.
	found := findLabel(m, "sync_overhead")
	assert.Equal(1, len(found))
}

func TestBottleneckThreadWait(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(1)
	m.RecordCycle([]bool{true}, []int{1})
	m.RecordCycle([]bool{true}, []int{1})
	m.RecordInstruction(0, 0, isa.CLASS_COMPUTE)
	m.RecordInstruction(0, 0, isa.CLASS_COMPUTE)
	m.RecordInstruction(0, 1, isa.CLASS_COMPUTE)

	// Thread 1: 1 running cycle vs 2 waits = 67% wait.
	found := findLabel(m, "thread_wait")
	assert.Equal(1, len(found))
}

func TestBottleneckRanking(t *testing.T) {
	assert := assert.New(t)

	m := NewCollector(2)
	for range 20 {
		m.RecordCycle([]bool{true, false}, nil)
	}
	for range 10 {
		m.RecordInstruction(0, 0, isa.CLASS_SYNC)
	}
	for range 9 {
		m.RecordSyncContention()
	}

	found := m.FindBottlenecks()
	assert.True(len(found) >= 2)
	for n := 1; n < len(found); n++ {
		assert.LessOrEqual(found[n].Severity, found[n-1].Severity)
	}
	assert.Equal("lock_contention", found[0].Label) // Severity 9.0 dominates.
}
