// Package sched implements the thread scheduling policies of the parvm
// virtual machine: round-robin, priority (preemptive and non-preemptive),
// shortest-job-first, multi-level feedback queue, processor affinity, and
// a deterministic record/replay wrapper around any of them.
//
// Schedulers are pure policy: they pick which ready thread runs on which
// idle processor each cycle and decide preemption. Binding, side effects,
// and all shared state stay with the VM.
package sched

import (
	"github.com/ezrec/parvm/proc"
)

// NO_THREAD marks an empty scheduling decision.
const NO_THREAD = proc.NO_THREAD

// Scheduler is the strategy interface shared by every policy.
type Scheduler interface {
	// Name returns the policy name.
	Name() string

	// SelectThread picks the thread to run on the processor, or nil for
	// no assignment. available is in ready-queue (FIFO) order.
	SelectThread(available []*proc.Thread, processorId int, timestamp uint64) *proc.Thread

	// ShouldPreempt reports whether the running thread must give up its
	// processor this cycle, given the currently waiting ready threads.
	ShouldPreempt(running *proc.Thread, waiting []*proc.Thread, timestamp uint64) bool

	// Schedule binds as many idle processors as there are eligible ready
	// threads, in ascending processor-id order. Assigned threads are
	// dequeued from the ready queue and marked RUNNING. Returns the
	// processor-to-thread assignments and the updated ready queue.
	Schedule(threads map[int]*proc.Thread, readyQueue []int, processors []*proc.Processor, timestamp uint64) (assignments map[int]int, ready []int)

	// Statistics returns the policy's bookkeeping counters.
	Statistics() Statistics
}

// ThreadStats is the per-thread bookkeeping a policy reports.
type ThreadStats struct {
	Scheduled      int // Times this thread was selected.
	QueueLevel     int // MLFQ queue index.
	SliceRemaining int // Cycles left in the current slice.
}

// Statistics are the counters common to every policy.
type Statistics struct {
	Policy          string
	ScheduleCalls   int
	ContextSwitches int
	Threads         map[int]ThreadStats
}

// base carries the bookkeeping shared by all policies.
type base struct {
	name            string
	scheduleCalls   int
	contextSwitches int
	selected        map[int]int // thread id -> times selected
	lastThread      map[int]int // processor id -> last thread run
}

func newBase(name string) base {
	return base{
		name:       name,
		selected:   map[int]int{},
		lastThread: map[int]int{},
	}
}

// Name returns the policy name.
func (b *base) Name() string {
	return b.name
}

// assign is the shared Schedule implementation: walk idle processors in
// ascending id order, offer the remaining ready threads to the outer
// policy's SelectThread, and dequeue each choice. The ascending walk is
// what keeps two identical runs byte-identical.
func (b *base) assign(outer Scheduler, threads map[int]*proc.Thread, readyQueue []int, processors []*proc.Processor, timestamp uint64) (assignments map[int]int, ready []int) {
	b.scheduleCalls++

	assignments = map[int]int{}
	ready = append([]int{}, readyQueue...)

	for _, p := range processors {
		if p.State != proc.PROC_IDLE || p.Thread != proc.NO_THREAD {
			continue
		}

		available := make([]*proc.Thread, 0, len(ready))
		for _, id := range ready {
			th, ok := threads[id]
			if !ok || th.State != proc.THREAD_READY {
				continue
			}
			available = append(available, th)
		}
		if len(available) == 0 {
			break
		}

		pick := outer.SelectThread(available, p.Id, timestamp)
		if pick == nil {
			continue
		}

		for n, id := range ready {
			if id == pick.Id {
				ready = append(ready[:n], ready[n+1:]...)
				break
			}
		}

		pick.State = proc.THREAD_RUNNING
		assignments[p.Id] = pick.Id
		b.selected[pick.Id]++

		if last, ran := b.lastThread[p.Id]; ran && last != pick.Id {
			b.contextSwitches++
		}
		b.lastThread[p.Id] = pick.Id
	}

	return
}

// statistics fills the common counter block.
func (b *base) statistics() (stats Statistics) {
	stats = Statistics{
		Policy:          b.name,
		ScheduleCalls:   b.scheduleCalls,
		ContextSwitches: b.contextSwitches,
		Threads:         map[int]ThreadStats{},
	}
	for id, count := range b.selected {
		stats.Threads[id] = ThreadStats{Scheduled: count}
	}

	return
}

// noteSlice records a thread's remaining time slice.
func (stats *Statistics) noteSlice(id int, remaining int) {
	entry := stats.Threads[id]
	entry.SliceRemaining = remaining
	stats.Threads[id] = entry
}

// noteLevel records a thread's MLFQ queue level.
func (stats *Statistics) noteLevel(id int, level int) {
	entry := stats.Threads[id]
	entry.QueueLevel = level
	stats.Threads[id] = entry
}
