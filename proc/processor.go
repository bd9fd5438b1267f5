package proc

import (
	"fmt"
	"log"
	"strconv"

	"github.com/ezrec/parvm/isa"
)

// ProcState is the lifecycle state of a processor slot.
type ProcState int

//go:generate go tool stringer -linecomment -type=ProcState
const (
	PROC_IDLE       = ProcState(0) // idle
	PROC_RUNNING    = ProcState(1) // running
	PROC_WAITING    = ProcState(2) // waiting
	PROC_TERMINATED = ProcState(3) // terminated
)

// NO_THREAD marks a processor with no bound thread.
const NO_THREAD = -1

// MemoryReader is the read-only view of shared memory a processor is
// allowed while executing. Writes only ever happen through side effects.
type MemoryReader interface {
	Read(addr uint32, processorId int, threadId int, timestamp uint64) (value int32, err error)
}

// TraceEntry is one record of the per-processor instruction trace.
type TraceEntry struct {
	Timestamp uint64
	ThreadId  int
	Ip        uint32
	Instr     isa.Instruction
	NextPc    uint32
	Effect    Effect
}

// String returns the trace entry in listing form.
func (e TraceEntry) String() string {
	out := fmt.Sprintf("t=%d th%d %4d: %v -> %d", e.Timestamp, e.ThreadId, e.Ip, e.Instr, e.NextPc)
	if e.Effect != nil {
		out += " [" + e.Effect.String() + "]"
	}
	return out
}

// Processor is one simulated execution slot. It owns a register file,
// executes exactly one instruction of its bound thread per invocation,
// and never mutates memory or synchronization state directly.
type Processor struct {
	Verbose bool // Set to enable verbose logging.
	Trace   bool // Set to retain the instruction trace.

	Id        int
	State     ProcState
	Thread    int // Bound thread id, or NO_THREAD.
	Registers [isa.NUM_REGISTERS]int32

	Behavior Behavior // Dispatch override points; nil selects DefaultBehavior.

	Executed int // Instructions executed since creation.

	trace []TraceEntry

	// Transient execution context, valid only inside Execute.
	prog      *isa.Program
	mem       MemoryReader
	thread    *Thread
	timestamp uint64
}

// NewProcessor creates an idle processor.
func NewProcessor(id int) (p *Processor) {
	p = &Processor{
		Id:     id,
		Thread: NO_THREAD,
	}

	return
}

// Bind attaches a thread to the processor, loading its register snapshot.
func (p *Processor) Bind(th *Thread) (err error) {
	if p.Thread != NO_THREAD {
		return ErrAlreadyBound
	}

	p.Thread = th.Id
	p.Registers = th.Registers
	p.State = PROC_RUNNING

	if p.Verbose {
		log.Printf("p%d: bind th%d pc=%d", p.Id, th.Id, th.Pc)
	}

	return
}

// Unbind detaches the bound thread, storing the register file back into
// its snapshot and idling the processor.
func (p *Processor) Unbind(th *Thread) (err error) {
	if p.Thread == NO_THREAD {
		return ErrNotBound
	}
	if p.Thread != th.Id {
		return ErrWrongThread
	}

	th.Registers = p.Registers
	p.Thread = NO_THREAD
	p.State = PROC_IDLE

	if p.Verbose {
		log.Printf("p%d: unbind th%d", p.Id, th.Id)
	}

	return
}

// StoreRegisters copies the register file back into the bound thread's
// snapshot without unbinding.
func (p *Processor) StoreRegisters(th *Thread) (err error) {
	if p.Thread != th.Id {
		return ErrWrongThread
	}

	th.Registers = p.Registers
	return
}

// ExecutionTrace returns the retained instruction trace.
func (p *Processor) ExecutionTrace() []TraceEntry {
	return p.trace
}

// Execute runs exactly one instruction of the bound thread and returns
// its side effect. Errors are fatal to the thread, not the VM.
func (p *Processor) Execute(th *Thread, prog *isa.Program, memory MemoryReader, timestamp uint64) (effect SideEffect, err error) {
	if p.Thread != th.Id {
		err = ErrWrongThread
		return
	}
	if th.State != THREAD_RUNNING {
		err = ErrThreadState
		return
	}
	if int(th.Pc) >= len(prog.Instructions) {
		err = ErrPcRange(th.Pc)
		return
	}

	in := prog.Instructions[th.Pc]

	defer func() {
		if err != nil {
			err = ErrInstruction{Ip: th.Pc, Instr: in, Err: err}
		}
	}()

	if len(in.Operands) != in.Op.Arity() {
		err = ErrOperandCount
		return
	}

	p.prog = prog
	p.mem = memory
	p.thread = th
	p.timestamp = timestamp

	behavior := p.Behavior
	if behavior == nil {
		behavior = DefaultBehavior{}
	}

	switch in.Op.Class() {
	case isa.CLASS_COMPUTE:
		effect, err = behavior.Compute(p, in)
	case isa.CLASS_MEMORY:
		effect, err = behavior.Memory(p, in)
	case isa.CLASS_BRANCH:
		effect, err = behavior.Branch(p, in)
	case isa.CLASS_SYSTEM:
		effect, err = behavior.System(p, in)
	case isa.CLASS_SYNC:
		effect, err = behavior.Sync(p, in)
	case isa.CLASS_SPECIAL:
		effect, err = behavior.Special(p, in)
	}

	p.prog = nil
	p.mem = nil
	p.thread = nil

	if err != nil {
		return
	}

	p.Executed++

	nextPc := th.Pc + 1
	if effect.Pc == PC_SET {
		nextPc = effect.Target
	}

	if p.Verbose {
		log.Printf("p%d: t=%d th%d %d: %v -> %d", p.Id, timestamp, th.Id, th.Pc, in, nextPc)
	}
	if p.Trace {
		p.trace = append(p.trace, TraceEntry{
			Timestamp: timestamp,
			ThreadId:  th.Id,
			Ip:        th.Pc,
			Instr:     in,
			NextPc:    nextPc,
			Effect:    effect.Effect,
		})
	}

	return
}

// SourceValue resolves a register or immediate operand to its value.
func (p *Processor) SourceValue(o isa.Operand) (value int32, err error) {
	switch o.Kind {
	case isa.OPERAND_REG:
		value = p.Registers[o.Reg]
	case isa.OPERAND_IMM:
		value = o.Value
	default:
		err = ErrOperandKind
	}

	return
}

// AddressValue resolves an operand to a memory address: an immediate or
// @address directly, or a register holding the address.
func (p *Processor) AddressValue(o isa.Operand) (addr uint32, err error) {
	var value int32
	switch o.Kind {
	case isa.OPERAND_REG:
		value = p.Registers[o.Reg]
	case isa.OPERAND_IMM, isa.OPERAND_ADDR:
		value = o.Value
	}

	if value < 0 {
		err = ErrStoreNegative
		return
	}

	addr = uint32(value)
	return
}

// syncId renders an operand value as a registry id for the sync
// instructions.
func (p *Processor) syncId(o isa.Operand) (id string, err error) {
	value, err := p.SourceValue(o)
	if err != nil {
		return
	}

	id = strconv.Itoa(int(value))
	return
}
