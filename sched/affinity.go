package sched

import (
	"github.com/ezrec/parvm/proc"
)

// Affinity schedules only threads whose affinity set contains the
// offered processor; a processor with no eligible thread stays idle that
// cycle. Preemption follows a plain time-slice rule.
type Affinity struct {
	base
	TimeSlice int

	remaining map[int]int
}

// NewAffinity creates an Affinity scheduler with the given slice.
func NewAffinity(timeSlice int) (s *Affinity) {
	if timeSlice <= 0 {
		timeSlice = DEFAULT_TIME_SLICE
	}
	s = &Affinity{
		base:      newBase("affinity"),
		TimeSlice: timeSlice,
		remaining: map[int]int{},
	}

	return
}

var _ Scheduler = (*Affinity)(nil)

// SelectThread picks the first available thread eligible for the
// processor, or nil when none qualifies. Returning nil is not an error;
// the processor simply idles this cycle.
func (s *Affinity) SelectThread(available []*proc.Thread, processorId int, timestamp uint64) *proc.Thread {
	for _, th := range available {
		if !th.CanRunOn(processorId) {
			continue
		}
		s.remaining[th.Id] = s.TimeSlice
		th.SliceRemaining = s.TimeSlice
		return th
	}

	return nil
}

// ShouldPreempt applies the time-slice rule.
func (s *Affinity) ShouldPreempt(running *proc.Thread, waiting []*proc.Thread, timestamp uint64) bool {
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

// Schedule binds idle processors to affinity-eligible ready threads.
func (s *Affinity) Schedule(threads map[int]*proc.Thread, readyQueue []int, processors []*proc.Processor, timestamp uint64) (assignments map[int]int, ready []int) {
	return s.assign(s, threads, readyQueue, processors, timestamp)
}

// Statistics returns the policy counters.
func (s *Affinity) Statistics() (stats Statistics) {
	stats = s.statistics()
	for id, remaining := range s.remaining {
		stats.noteSlice(id, remaining)
	}

	return
}
