package proc

import (
	"github.com/ezrec/parvm/isa"
)

// ThreadState is the lifecycle state of a thread.
type ThreadState int

//go:generate go tool stringer -linecomment -type=ThreadState
const (
	THREAD_READY      = ThreadState(0) // ready
	THREAD_RUNNING    = ThreadState(1) // running
	THREAD_WAITING    = ThreadState(2) // waiting
	THREAD_TERMINATED = ThreadState(3) // terminated
)

// Thread is one simulated thread of execution. The VM owns the thread;
// processors mutate the registers and PC during that thread's turn, and
// schedulers mutate the priority/queue bookkeeping.
type Thread struct {
	Id        int
	ProgramId int
	Pc        uint32
	Registers [isa.NUM_REGISTERS]int32
	Priority  int
	State     ThreadState

	// Scheduler bookkeeping.
	SliceRemaining   int              // Cycles left in the current time slice.
	QueueLevel       int              // MLFQ queue index (0 = highest priority).
	Affinity         map[int]struct{} // Eligible processor ids; nil means any.
	EstimatedRuntime int              // Externally supplied runtime estimate (SJF).
}

// NewThread creates a READY thread at the program's entry point.
func NewThread(id int, programId int, entry uint32) (th *Thread) {
	th = &Thread{
		Id:        id,
		ProgramId: programId,
		Pc:        entry,
		State:     THREAD_READY,
	}

	return
}

// CanRunOn reports whether the thread may be bound to the processor.
// A thread with no affinity set runs anywhere.
func (th *Thread) CanRunOn(processorId int) bool {
	if th.Affinity == nil {
		return true
	}
	_, ok := th.Affinity[processorId]
	return ok
}

// SetAffinity restricts the thread to the given processor ids.
func (th *Thread) SetAffinity(processorIds ...int) {
	th.Affinity = map[int]struct{}{}
	for _, id := range processorIds {
		th.Affinity[id] = struct{}{}
	}
}
