package metrics

import (
	"sort"
)

// Bottleneck heuristic thresholds.
const (
	IMBALANCE_FACTOR       = 1.5  // Per-processor utilization vs. average.
	CACHE_HIT_FLOOR        = 0.80 // Below this hit rate, memory is suspect.
	CONTENTION_CEILING     = 0.10 // Contended fraction of sync operations.
	WAIT_PERCENT_CEILING   = 40.0 // Per-thread wait percentage.
	SYNC_OVERHEAD_CEILING  = 15.0 // Sync instructions as percent of total.
	SERIAL_CYCLE_DOMINANCE = 0.95 // Fraction of cycles with <=1 processor active.
)

// Bottleneck is one ranked finding.
type Bottleneck struct {
	Label          string
	Severity       float64
	Recommendation string
}

// FindBottlenecks applies the fixed heuristic thresholds to the current
// counters and returns findings ranked by severity, highest first.
func (m *Collector) FindBottlenecks() (found []Bottleneck) {
	s := m.Summary()
	if s.Cycles == 0 {
		return
	}

	if len(s.Utilization) > 1 {
		max := 0.0
		for _, u := range s.Utilization {
			if u > max {
				max = u
			}
		}
		if s.OverallUtilization > 0 && max > IMBALANCE_FACTOR*s.OverallUtilization {
			found = append(found, Bottleneck{
				Label:          "utilization_imbalance",
				Severity:       max / s.OverallUtilization,
				Recommendation: "work is concentrated on one processor; spread threads or relax affinity constraints",
			})
		}

		if s.SerialFraction >= SERIAL_CYCLE_DOMINANCE {
			found = append(found, Bottleneck{
				Label:          "serial_execution",
				Severity:       s.SerialFraction / SERIAL_CYCLE_DOMINANCE,
				Recommendation: "at most one processor is ever active; create more threads or remove serializing locks",
			})
		}
	}

	if hits := s.CacheHitRate; m.counters.MemoryHits+m.counters.MemoryMisses > 0 && hits < CACHE_HIT_FLOOR {
		found = append(found, Bottleneck{
			Label:          "cache_hit_rate",
			Severity:       (CACHE_HIT_FLOOR - hits) / CACHE_HIT_FLOOR,
			Recommendation: "memory accesses rarely repeat; improve locality or reduce the working set",
		})
	}

	if m.counters.SyncOps > 0 && s.LockContentionRate > CONTENTION_CEILING {
		found = append(found, Bottleneck{
			Label:          "lock_contention",
			Severity:       s.LockContentionRate / CONTENTION_CEILING,
			Recommendation: "threads frequently block on synchronization; split locks or shorten critical sections",
		})
	}

	if s.SyncOverheadPercent > SYNC_OVERHEAD_CEILING {
		found = append(found, Bottleneck{
			Label:          "sync_overhead",
			Severity:       s.SyncOverheadPercent / SYNC_OVERHEAD_CEILING,
			Recommendation: "synchronization instructions dominate; batch work between sync points",
		})
	}

	for id, th := range s.Threads {
		if th.WaitPercent > WAIT_PERCENT_CEILING {
			found = append(found, Bottleneck{
				Label:          "thread_wait",
				Severity:       th.WaitPercent / WAIT_PERCENT_CEILING,
				Recommendation: recommendationForWait(id),
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Severity > found[j].Severity
	})

	return
}

func recommendationForWait(threadId int) string {
	return f("thread %d spends most of its time waiting; rebalance its dependencies or raise its priority", threadId)
}
