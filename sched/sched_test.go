package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/parvm/proc"
)

// fixture builds a thread table, its ready queue, and idle processors.
func fixture(threads int, processors int) (table map[int]*proc.Thread, ready []int, procs []*proc.Processor) {
	table = map[int]*proc.Thread{}
	for n := range threads {
		table[n] = proc.NewThread(n, 0, 0)
		ready = append(ready, n)
	}
	for n := range processors {
		procs = append(procs, proc.NewProcessor(n))
	}

	return
}

func TestRoundRobinSchedule(t *testing.T) {
	assert := assert.New(t)

	s := NewRoundRobin(2)
	table, ready, procs := fixture(3, 2)

	assignments, ready := s.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{0: 0, 1: 1}, assignments)
	assert.Equal([]int{2}, ready)
	assert.Equal(proc.THREAD_RUNNING, table[0].State)
	assert.Equal(proc.THREAD_RUNNING, table[1].State)
	assert.Equal(proc.THREAD_READY, table[2].State)
}

func TestRoundRobinPreempt(t *testing.T) {
	assert := assert.New(t)

	s := NewRoundRobin(2)
	table, ready, procs := fixture(2, 1)

	assignments, ready := s.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{0: 0}, assignments)

	waiting := []*proc.Thread{table[1]}
	assert.False(s.ShouldPreempt(table[0], waiting, 1))
	assert.True(s.ShouldPreempt(table[0], waiting, 2))

	// Without a waiter the slice is recharged instead.
	s = NewRoundRobin(1)
	table, ready, procs = fixture(1, 1)
	_, _ = s.Schedule(table, ready, procs, 0)
	assert.False(s.ShouldPreempt(table[0], nil, 1))
	assert.False(s.ShouldPreempt(table[0], nil, 2))
}

func TestPrioritySelect(t *testing.T) {
	assert := assert.New(t)

	s := NewPriority(true, 4)
	table, ready, procs := fixture(3, 1)
	table[0].Priority = 1
	table[1].Priority = 5
	table[2].Priority = 5

	// Highest priority wins; FIFO breaks the tie in favor of thread 1.
	assignments, ready := s.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{0: 1}, assignments)
	assert.Equal([]int{0, 2}, ready)
}

func TestPriorityPreemptive(t *testing.T) {
	assert := assert.New(t)

	s := NewPriority(true, 4)
	running := proc.NewThread(0, 0, 0)
	running.Priority = 3

	equal := proc.NewThread(1, 0, 0)
	equal.Priority = 3
	higher := proc.NewThread(2, 0, 0)
	higher.Priority = 4

	assert.False(s.ShouldPreempt(running, []*proc.Thread{equal}, 0))
	assert.True(s.ShouldPreempt(running, []*proc.Thread{equal, higher}, 0))
}

func TestPriorityNonPreemptive(t *testing.T) {
	assert := assert.New(t)

	s := NewPriority(false, 2)
	table, _, procs := fixture(2, 1)
	table[0].Priority = 1
	table[1].Priority = 9

	// Only thread 0 is ready when the processor binds.
	assignments, _ := s.Schedule(table, []int{0}, procs, 0)
	assert.Equal(map[int]int{0: 0}, assignments)

	// A higher-priority waiter does not preempt before slice expiry.
	waiting := []*proc.Thread{table[1]}
	assert.False(s.ShouldPreempt(table[0], waiting, 1))
	assert.True(s.ShouldPreempt(table[0], waiting, 2))
}

// A thread the policy never charged holds a fresh slice, not an expired
// one.
func TestPreemptUnchargedSlice(t *testing.T) {
	assert := assert.New(t)

	running := proc.NewThread(0, 0, 0)
	running.State = proc.THREAD_RUNNING
	waiting := []*proc.Thread{proc.NewThread(1, 0, 0)}

	rr := NewRoundRobin(4)
	assert.False(rr.ShouldPreempt(running, waiting, 0))
	assert.Equal(3, running.SliceRemaining)

	pr := NewPriority(false, 4)
	assert.False(pr.ShouldPreempt(running, waiting, 0))

	af := NewAffinity(4)
	assert.False(af.ShouldPreempt(running, waiting, 0))

	ml := NewMultiLevelFeedbackQueue(3, 4)
	assert.False(ml.ShouldPreempt(running, waiting, 0))
	assert.Equal(0, running.QueueLevel)
}

func TestShortestJobFirst(t *testing.T) {
	assert := assert.New(t)

	s := NewShortestJobFirst()
	table, ready, procs := fixture(3, 1)
	table[0].EstimatedRuntime = 50
	table[1].EstimatedRuntime = 10
	table[2].EstimatedRuntime = 10

	assignments, _ := s.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{0: 1}, assignments)

	assert.False(s.ShouldPreempt(table[1], []*proc.Thread{table[0]}, 1))
}

func TestMultiLevelFeedbackQueue(t *testing.T) {
	assert := assert.New(t)

	s := NewMultiLevelFeedbackQueue(3, 2)
	table, ready, procs := fixture(2, 1)

	assignments, ready := s.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{0: 0}, assignments)
	assert.Equal(2, table[0].SliceRemaining)

	// Burning the slice demotes and preempts.
	waiting := []*proc.Thread{table[1]}
	assert.False(s.ShouldPreempt(table[0], waiting, 1))
	assert.True(s.ShouldPreempt(table[0], waiting, 2))
	assert.Equal(1, table[0].QueueLevel)

	// The demoted queue doubles the slice.
	table[0].State = proc.THREAD_READY
	procs[0] = proc.NewProcessor(0)
	ready = append(ready, 0)
	assignments, _ = s.Schedule(table, ready, procs, 3)
	assert.Equal(map[int]int{0: 1}, assignments) // Level 0 beats level 1.

	stats := s.Statistics()
	assert.Equal(1, stats.Threads[0].QueueLevel)
	assert.Equal(0, stats.Threads[1].QueueLevel)
}

func TestMultiLevelFeedbackQueueBoost(t *testing.T) {
	assert := assert.New(t)

	s := NewMultiLevelFeedbackQueue(3, 1)
	th := proc.NewThread(0, 0, 0)
	th.QueueLevel = 2

	s.BoostPriority(th)
	assert.Equal(1, th.QueueLevel)
	s.BoostPriority(th)
	assert.Equal(0, th.QueueLevel)
	s.BoostPriority(th)
	assert.Equal(0, th.QueueLevel)
}

func TestMultiLevelFeedbackQueueDemoteFloor(t *testing.T) {
	assert := assert.New(t)

	s := NewMultiLevelFeedbackQueue(2, 1)
	table, ready, procs := fixture(2, 1)
	table[0].QueueLevel = 1

	assignments, _ := s.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{0: 1}, assignments) // Level 0 beats level 1.

	// Expiry at the lowest queue stays at the lowest queue.
	assert.True(s.ShouldPreempt(table[1], []*proc.Thread{table[0]}, 1))
	assert.Equal(1, table[1].QueueLevel)
}

func TestAffinity(t *testing.T) {
	assert := assert.New(t)

	s := NewAffinity(4)
	table, ready, procs := fixture(2, 2)
	table[0].SetAffinity(1)
	table[1].SetAffinity(1)

	// Processor 0 has no eligible thread and idles; both threads want
	// processor 1 and only the first is bound.
	assignments, ready := s.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{1: 0}, assignments)
	assert.Equal([]int{1}, ready)
	assert.Equal(proc.THREAD_READY, table[1].State)
}

func TestAffinityUnrestricted(t *testing.T) {
	assert := assert.New(t)

	s := NewAffinity(4)
	table, ready, procs := fixture(1, 2)

	assignments, _ := s.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{0: 0}, assignments)
}

func TestDeterministicRecordReplay(t *testing.T) {
	assert := assert.New(t)

	recorder := NewDeterministic(NewRoundRobin(4))
	table, ready, procs := fixture(3, 2)

	assignments, ready := recorder.Schedule(table, ready, procs, 0)
	assert.Equal(map[int]int{0: 0, 1: 1}, assignments)
	assert.False(recorder.Replaying())

	decisions := recorder.Decisions()
	assert.Equal(2, len(decisions))

	// Replay reproduces the choices even under a different base policy.
	replayer := NewDeterministic(NewShortestJobFirst())
	replayer.Replay(decisions, recorder.Preemptions())
	assert.True(replayer.Replaying())

	table2, ready2, procs2 := fixture(3, 2)
	table2[2].EstimatedRuntime = -100 // Would win under SJF.

	assignments2, _ := replayer.Schedule(table2, ready2, procs2, 0)
	assert.Equal(assignments, assignments2)
}

// Preemption verdicts are logged and replayed like selections; the base
// policy's slice bookkeeping must not be consulted again during replay.
func TestDeterministicPreemptReplay(t *testing.T) {
	assert := assert.New(t)

	recorder := NewDeterministic(NewRoundRobin(1))
	running := proc.NewThread(0, 0, 0)
	running.State = proc.THREAD_RUNNING
	waiting := []*proc.Thread{proc.NewThread(1, 0, 0)}

	// A slice of one expires immediately with a waiter present.
	assert.True(recorder.ShouldPreempt(running, waiting, 0))
	if assert.Equal(1, len(recorder.Preemptions())) {
		assert.True(recorder.Preemptions()[0].Preempt)
	}

	// Replay reproduces the verdict even under a base policy that never
	// preempts, and stays quiet beyond the log.
	replayer := NewDeterministic(NewShortestJobFirst())
	replayer.Replay(recorder.Decisions(), recorder.Preemptions())

	assert.True(replayer.ShouldPreempt(running, waiting, 0))
	assert.False(replayer.ShouldPreempt(running, waiting, 1))
}

func TestDeterministicKeyImmutable(t *testing.T) {
	assert := assert.New(t)

	s := NewDeterministic(NewRoundRobin(4))
	table, ready, procs := fixture(2, 1)

	before, _ := s.Schedule(table, ready, procs, 7)

	// A second query at the same key returns the recorded choice even
	// though the base policy would now pick differently.
	table[0].State = proc.THREAD_READY
	procs[0] = proc.NewProcessor(0)
	after, _ := s.Schedule(table, []int{1, 0}, procs, 7)

	assert.Equal(before, after)
	assert.Equal(1, len(s.Decisions()))
}

func TestSchedulerStatistics(t *testing.T) {
	assert := assert.New(t)

	s := NewRoundRobin(4)
	table, ready, procs := fixture(2, 1)

	_, ready = s.Schedule(table, ready, procs, 0)
	table[0].State = proc.THREAD_READY
	ready = append(ready, 0)
	procs[0] = proc.NewProcessor(0)
	_, _ = s.Schedule(table, ready, procs, 1)

	stats := s.Statistics()
	assert.Equal("round_robin", stats.Policy)
	assert.Equal(2, stats.ScheduleCalls)
	assert.Equal(1, stats.ContextSwitches) // Thread 1 replaced thread 0.
	assert.Equal(1, stats.Threads[0].Scheduled)
	assert.Equal(1, stats.Threads[1].Scheduled)
}
