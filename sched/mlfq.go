package sched

import (
	"github.com/ezrec/parvm/proc"
)

// MultiLevelFeedbackQueue schedules the lowest queue index first (queue 0
// is the highest priority; new threads start there). A thread that burns
// through its slice is demoted one level, where slices are longer;
// BoostPriority promotes a thread one level, clamped at queue 0.
type MultiLevelFeedbackQueue struct {
	base
	Levels    int
	BaseSlice int

	remaining map[int]int
	levels    map[int]int
}

// NewMultiLevelFeedbackQueue creates an MLFQ scheduler with the given
// level count and top-queue slice length. Each lower queue doubles the
// slice.
func NewMultiLevelFeedbackQueue(levels int, baseSlice int) (s *MultiLevelFeedbackQueue) {
	if levels <= 0 {
		levels = 3
	}
	if baseSlice <= 0 {
		baseSlice = DEFAULT_TIME_SLICE
	}
	s = &MultiLevelFeedbackQueue{
		base:      newBase("mlfq"),
		Levels:    levels,
		BaseSlice: baseSlice,
		remaining: map[int]int{},
		levels:    map[int]int{},
	}

	return
}

var _ Scheduler = (*MultiLevelFeedbackQueue)(nil)

// sliceFor returns the slice length of a queue level.
func (s *MultiLevelFeedbackQueue) sliceFor(level int) int {
	return s.BaseSlice << level
}

// SelectThread picks from the lowest-index occupied queue, FIFO within
// the level.
func (s *MultiLevelFeedbackQueue) SelectThread(available []*proc.Thread, processorId int, timestamp uint64) *proc.Thread {
	var pick *proc.Thread
	for _, th := range available {
		if pick == nil || th.QueueLevel < pick.QueueLevel {
			pick = th
		}
	}
	if pick == nil {
		return nil
	}

	s.remaining[pick.Id] = s.sliceFor(pick.QueueLevel)
	pick.SliceRemaining = s.remaining[pick.Id]
	s.levels[pick.Id] = pick.QueueLevel
	return pick
}

// ShouldPreempt charges the slice and, on expiry, demotes the thread to
// the next lower queue before preempting.
func (s *MultiLevelFeedbackQueue) ShouldPreempt(running *proc.Thread, waiting []*proc.Thread, timestamp uint64) bool {
	remaining, charged := s.remaining[running.Id]
	if !charged {
		// Never selected by this policy; it holds a fresh slice.
		remaining = s.sliceFor(running.QueueLevel)
	}
	remaining--
	s.remaining[running.Id] = remaining
	running.SliceRemaining = remaining

	if remaining > 0 {
		return false
	}

	if running.QueueLevel < s.Levels-1 {
		running.QueueLevel++
	}
	s.levels[running.Id] = running.QueueLevel
	if len(waiting) == 0 {
		s.remaining[running.Id] = s.sliceFor(running.QueueLevel)
		return false
	}

	return true
}

// BoostPriority promotes the thread one queue level, clamped at 0.
func (s *MultiLevelFeedbackQueue) BoostPriority(th *proc.Thread) {
	if th.QueueLevel > 0 {
		th.QueueLevel--
	}
	s.levels[th.Id] = th.QueueLevel
}

// Schedule binds idle processors to ready threads by queue level.
func (s *MultiLevelFeedbackQueue) Schedule(threads map[int]*proc.Thread, readyQueue []int, processors []*proc.Processor, timestamp uint64) (assignments map[int]int, ready []int) {
	return s.assign(s, threads, readyQueue, processors, timestamp)
}

// Statistics returns the policy counters, including queue levels.
func (s *MultiLevelFeedbackQueue) Statistics() (stats Statistics) {
	stats = s.statistics()
	for id, remaining := range s.remaining {
		stats.noteSlice(id, remaining)
	}
	for id, level := range s.levels {
		stats.noteLevel(id, level)
	}

	return
}
