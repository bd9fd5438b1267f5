package proc

import (
	"errors"

	"github.com/ezrec/parvm/isa"
	"github.com/ezrec/parvm/translate"
)

var f = translate.From

var (
	ErrOperandCount  = errors.New(f("operand count"))
	ErrOperandKind   = errors.New(f("operand kind"))
	ErrDivideByZero  = errors.New(f("divide by zero"))
	ErrBranchRange   = errors.New(f("branch target out of range"))
	ErrNotBound      = errors.New(f("no thread bound"))
	ErrAlreadyBound  = errors.New(f("thread already bound"))
	ErrWrongThread   = errors.New(f("wrong thread bound"))
	ErrThreadState   = errors.New(f("thread not runnable"))
	ErrForkNegative  = errors.New(f("fork target negative"))
	ErrStoreNegative = errors.New(f("store address negative"))
)

// ErrInstruction indicates an instruction the processor cannot execute.
// It is fatal to the issuing thread but recoverable for the VM.
type ErrInstruction struct {
	Ip    uint32
	Instr isa.Instruction
	Err   error
}

func (err ErrInstruction) Error() string {
	return f("invalid instruction at %d '%v': %v", err.Ip, err.Instr, err.Err)
}

func (err ErrInstruction) Unwrap() error {
	return err.Err
}

func (err ErrInstruction) Is(other error) (ok bool) {
	_, ok = other.(ErrInstruction)
	return
}

// ErrPcRange indicates the PC ran outside the program text.
type ErrPcRange uint32

func (err ErrPcRange) Error() string {
	return f("pc %d outside program", uint32(err))
}

func (err ErrPcRange) Is(other error) (ok bool) {
	_, ok = other.(ErrPcRange)
	return
}
