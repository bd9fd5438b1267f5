package metrics

import (
	"github.com/ezrec/parvm/isa"
)

// ThreadSummary is the derived per-thread view.
type ThreadSummary struct {
	Cycles          uint64
	Instructions    uint64
	Waits           uint64
	ContextSwitches uint64
	WaitPercent     float64
}

// Summary is the derived view over a counter state.
type Summary struct {
	Cycles              uint64
	Instructions        uint64
	InstructionsPerCyc  float64
	Utilization         []float64 // Per-processor active fraction.
	OverallUtilization  float64
	CacheHitRate        float64
	LockContentionRate  float64
	SyncOverheadPercent float64
	SerialFraction      float64
	Threads             map[int]ThreadSummary
}

// ratio returns a/b, or 0 when b is 0.
func ratio(a, b uint64) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// summarize derives the rate view of a counter state.
func summarize(c *Counters) (s Summary) {
	s = Summary{
		Cycles:             c.Cycles,
		Instructions:       c.Instructions,
		InstructionsPerCyc: ratio(c.Instructions, c.Cycles),
		Utilization:        make([]float64, len(c.Active)),
		CacheHitRate:       ratio(c.MemoryHits, c.MemoryHits+c.MemoryMisses),
		LockContentionRate: ratio(c.SyncContended, c.SyncOps),
		SerialFraction:     ratio(c.SerialCycles, c.Cycles),
		Threads:            map[int]ThreadSummary{},
	}

	var activeTotal uint64
	for n := range c.Active {
		s.Utilization[n] = ratio(c.Active[n], c.Cycles)
		activeTotal += c.Active[n]
	}
	s.OverallUtilization = ratio(activeTotal, c.Cycles*uint64(len(c.Active)))

	s.SyncOverheadPercent = 100 * ratio(c.ByClass[isa.CLASS_SYNC], c.Instructions)

	for id, th := range c.Threads {
		s.Threads[id] = ThreadSummary{
			Cycles:          th.Cycles,
			Instructions:    th.Instructions,
			Waits:           th.Waits,
			ContextSwitches: th.ContextSwitches,
			WaitPercent:     100 * ratio(th.Waits, th.Cycles+th.Waits),
		}
	}

	return
}

// Summary derives the current rates.
func (m *Collector) Summary() Summary {
	return summarize(&m.counters)
}
