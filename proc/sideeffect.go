package proc

import (
	"fmt"

	"github.com/ezrec/parvm/isa"
)

// PcMode is the program counter disposition of an executed instruction.
// Exactly one disposition accompanies every instruction: either the PC
// advances to the next instruction, or it is set directly.
type PcMode int

//go:generate go tool stringer -linecomment -type=PcMode
const (
	PC_NEXT = PcMode(0) // next
	PC_SET  = PcMode(1) // set
)

// SideEffect is the declarative result of executing one instruction.
// The VM applies the Effect (if any) centrally; the processor itself only
// touched registers.
type SideEffect struct {
	Pc     PcMode
	Target uint32 // New PC when Pc is PC_SET.
	Effect Effect // Optional effect descriptor; nil for pure register ops.
}

// next is the common no-effect, advance-PC result.
func next() SideEffect {
	return SideEffect{Pc: PC_NEXT}
}

// jump is the common set-PC result.
func jump(target uint32) SideEffect {
	return SideEffect{Pc: PC_SET, Target: target}
}

// Effect is the closed set of instruction effects the VM knows how to
// apply. The sealed marker keeps the set exhaustive at the VM's type
// switch.
type Effect interface {
	effect()
	String() string
}

// MemoryWrite stores Value at Addr in shared memory.
type MemoryWrite struct {
	Addr  uint32
	Value int32
}

// Halt terminates the issuing thread.
type Halt struct{}

// Yield relinquishes the processor voluntarily.
type Yield struct{}

// LockAcquire acquires the lock registered under Id.
type LockAcquire struct {
	Id string
}

// LockRelease releases the lock registered under Id.
type LockRelease struct {
	Id string
}

// Fence is a sequencing no-op in this sequentially consistent model; it
// exists so programs written for weaker models assemble and so the
// metrics layer can count it as synchronization work.
type Fence struct{}

// Cas atomically compares memory at Addr against Expect and, on match,
// stores New. Dest receives 1 on success and 0 on failure.
type Cas struct {
	Addr   uint32
	Expect int32
	New    int32
	Dest   isa.Register
}

// AtomicAdd atomically adds Delta to memory at Addr; Dest receives the
// new value. ATOMIC_SUB is an AtomicAdd with a negated delta.
type AtomicAdd struct {
	Addr  uint32
	Delta int32
	Dest  isa.Register
}

// BarrierArrive arrives at the barrier registered under Id.
type BarrierArrive struct {
	Id string
}

// Fork creates a new thread at TargetPc with R0 seeded to Arg.
type Fork struct {
	TargetPc uint32
	Arg      int32
}

// JoinAll blocks the issuing thread until every other thread terminates.
type JoinAll struct{}

func (MemoryWrite) effect()   {}
func (Halt) effect()          {}
func (Yield) effect()         {}
func (LockAcquire) effect()   {}
func (LockRelease) effect()   {}
func (Fence) effect()         {}
func (Cas) effect()           {}
func (AtomicAdd) effect()     {}
func (BarrierArrive) effect() {}
func (Fork) effect()          {}
func (JoinAll) effect()       {}

func (e MemoryWrite) String() string {
	return fmt.Sprintf("write [%d] <- %d", e.Addr, e.Value)
}

func (Halt) String() string { return "halt" }

func (Yield) String() string { return "yield" }

func (e LockAcquire) String() string { return "lock " + e.Id }

func (e LockRelease) String() string { return "unlock " + e.Id }

func (Fence) String() string { return "fence" }

func (e Cas) String() string {
	return fmt.Sprintf("cas [%d] %d -> %d, %v", e.Addr, e.Expect, e.New, e.Dest)
}

func (e AtomicAdd) String() string {
	return fmt.Sprintf("atomic [%d] += %d, %v", e.Addr, e.Delta, e.Dest)
}

func (e BarrierArrive) String() string { return "barrier " + e.Id }

func (e Fork) String() string {
	return fmt.Sprintf("fork @%d arg %d", e.TargetPc, e.Arg)
}

func (JoinAll) String() string { return "join_all" }
