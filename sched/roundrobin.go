package sched

import (
	"github.com/ezrec/parvm/proc"
)

// DEFAULT_TIME_SLICE is the slice length used when none is configured.
const DEFAULT_TIME_SLICE = 4

// RoundRobin schedules threads in FIFO arrival order, preempting after a
// fixed time slice on the same thread.
type RoundRobin struct {
	base
	TimeSlice int

	remaining map[int]int
}

// NewRoundRobin creates a RoundRobin scheduler with the given slice.
func NewRoundRobin(timeSlice int) (s *RoundRobin) {
	if timeSlice <= 0 {
		timeSlice = DEFAULT_TIME_SLICE
	}
	s = &RoundRobin{
		base:      newBase("round_robin"),
		TimeSlice: timeSlice,
		remaining: map[int]int{},
	}

	return
}

var _ Scheduler = (*RoundRobin)(nil)

// SelectThread picks the head of the ready list and charges it a fresh
// time slice.
func (s *RoundRobin) SelectThread(available []*proc.Thread, processorId int, timestamp uint64) *proc.Thread {
	if len(available) == 0 {
		return nil
	}

	pick := available[0]
	s.remaining[pick.Id] = s.TimeSlice
	pick.SliceRemaining = s.TimeSlice
	return pick
}

// ShouldPreempt charges one cycle against the running thread's slice and
// preempts on expiry, provided another thread is waiting to run.
func (s *RoundRobin) ShouldPreempt(running *proc.Thread, waiting []*proc.Thread, timestamp uint64) bool {
	remaining, charged := s.remaining[running.Id]
	if !charged {
		// Never selected by this policy; it holds a fresh slice.
		remaining = s.TimeSlice
	}
	remaining--
	s.remaining[running.Id] = remaining
	running.SliceRemaining = remaining

	if remaining > 0 {
		return false
	}
	if len(waiting) == 0 {
		// Nobody to switch to; extend rather than churn.
		s.remaining[running.Id] = s.TimeSlice
		return false
	}

	return true
}

// Schedule binds idle processors to ready threads in FIFO order.
func (s *RoundRobin) Schedule(threads map[int]*proc.Thread, readyQueue []int, processors []*proc.Processor, timestamp uint64) (assignments map[int]int, ready []int) {
	return s.assign(s, threads, readyQueue, processors, timestamp)
}

// Statistics returns the policy counters.
func (s *RoundRobin) Statistics() (stats Statistics) {
	stats = s.statistics()
	for id, remaining := range s.remaining {
		stats.noteSlice(id, remaining)
	}

	return
}
