package sched

import (
	"github.com/ezrec/parvm/proc"
)

// Priority schedules the highest numeric priority first, breaking ties in
// FIFO arrival order. In preemptive mode any strictly-higher-priority
// waiter preempts immediately; otherwise only time-slice expiry does.
type Priority struct {
	base
	Preemptive bool
	TimeSlice  int

	remaining map[int]int
}

// NewPriority creates a Priority scheduler.
func NewPriority(preemptive bool, timeSlice int) (s *Priority) {
	if timeSlice <= 0 {
		timeSlice = DEFAULT_TIME_SLICE
	}
	name := "priority"
	if preemptive {
		name = "priority_preemptive"
	}
	s = &Priority{
		base:       newBase(name),
		Preemptive: preemptive,
		TimeSlice:  timeSlice,
		remaining:  map[int]int{},
	}

	return
}

var _ Scheduler = (*Priority)(nil)

// SelectThread picks the highest-priority available thread, first
// arrival winning ties.
func (s *Priority) SelectThread(available []*proc.Thread, processorId int, timestamp uint64) *proc.Thread {
	var pick *proc.Thread
	for _, th := range available {
		if pick == nil || th.Priority > pick.Priority {
			pick = th
		}
	}
	if pick == nil {
		return nil
	}

	s.remaining[pick.Id] = s.TimeSlice
	pick.SliceRemaining = s.TimeSlice
	return pick
}

// ShouldPreempt preempts for a strictly higher-priority waiter in
// preemptive mode, or on slice expiry otherwise.
func (s *Priority) ShouldPreempt(running *proc.Thread, waiting []*proc.Thread, timestamp uint64) bool {
	if s.Preemptive {
		for _, th := range waiting {
			if th.Priority > running.Priority {
				return true
			}
		}
		return false
	}

	remaining, charged := s.remaining[running.Id]
	if !charged {
		// Never selected by this policy; it holds a fresh slice.
		remaining = s.TimeSlice
	}
	remaining--
	s.remaining[running.Id] = remaining
	running.SliceRemaining = remaining
	if remaining > 0 || len(waiting) == 0 {
		return false
	}

	return true
}

// Schedule binds idle processors to ready threads by priority.
func (s *Priority) Schedule(threads map[int]*proc.Thread, readyQueue []int, processors []*proc.Processor, timestamp uint64) (assignments map[int]int, ready []int) {
	return s.assign(s, threads, readyQueue, processors, timestamp)
}

// Statistics returns the policy counters.
func (s *Priority) Statistics() (stats Statistics) {
	stats = s.statistics()
	for id, remaining := range s.remaining {
		stats.noteSlice(id, remaining)
	}

	return
}
