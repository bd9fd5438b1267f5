package sched

import (
	"github.com/ezrec/parvm/proc"
)

// ShortestJobFirst schedules the thread with the smallest
// externally-supplied runtime estimate. Threads run to completion or
// voluntary yield; there is no preemption.
type ShortestJobFirst struct {
	base
}

// NewShortestJobFirst creates a ShortestJobFirst scheduler.
func NewShortestJobFirst() (s *ShortestJobFirst) {
	s = &ShortestJobFirst{
		base: newBase("shortest_job_first"),
	}

	return
}

var _ Scheduler = (*ShortestJobFirst)(nil)

// SelectThread picks the smallest estimated runtime, first arrival
// winning ties.
func (s *ShortestJobFirst) SelectThread(available []*proc.Thread, processorId int, timestamp uint64) *proc.Thread {
	var pick *proc.Thread
	for _, th := range available {
		if pick == nil || th.EstimatedRuntime < pick.EstimatedRuntime {
			pick = th
		}
	}

	return pick
}

// ShouldPreempt never preempts.
func (s *ShortestJobFirst) ShouldPreempt(running *proc.Thread, waiting []*proc.Thread, timestamp uint64) bool {
	return false
}

// Schedule binds idle processors to ready threads by estimate.
func (s *ShortestJobFirst) Schedule(threads map[int]*proc.Thread, readyQueue []int, processors []*proc.Processor, timestamp uint64) (assignments map[int]int, ready []int) {
	return s.assign(s, threads, readyQueue, processors, timestamp)
}

// Statistics returns the policy counters.
func (s *ShortestJobFirst) Statistics() (stats Statistics) {
	return s.statistics()
}
