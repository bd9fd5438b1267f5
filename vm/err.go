package vm

import (
	"errors"

	"github.com/ezrec/parvm/translate"
)

var f = translate.From

var (
	ErrCorruptBinding = errors.New(f("thread bound to multiple processors"))
)

// ErrProgramLoad indicates a program whose data segment falls outside
// memory.
type ErrProgramLoad struct {
	Addr uint32
	Err  error
}

func (err ErrProgramLoad) Error() string {
	return f("program load at 0x%x: %v", err.Addr, err.Err)
}

func (err ErrProgramLoad) Unwrap() error {
	return err.Err
}

func (err ErrProgramLoad) Is(other error) (ok bool) {
	_, ok = other.(ErrProgramLoad)
	return
}

// ErrProgramNotFound indicates an unknown program id.
type ErrProgramNotFound int

func (err ErrProgramNotFound) Error() string {
	return f("program %d not found", int(err))
}

func (err ErrProgramNotFound) Is(other error) (ok bool) {
	_, ok = other.(ErrProgramNotFound)
	return
}

// ErrThreadNotFound indicates an unknown thread id.
type ErrThreadNotFound int

func (err ErrThreadNotFound) Error() string {
	return f("thread %d not found", int(err))
}

func (err ErrThreadNotFound) Is(other error) (ok bool) {
	_, ok = other.(ErrThreadNotFound)
	return
}

// Fault records an error that terminated a single thread while the VM
// kept running.
type Fault struct {
	Timestamp uint64
	ThreadId  int
	Err       error
}

func (fault Fault) Error() string {
	return f("t=%d thread %d: %v", fault.Timestamp, fault.ThreadId, fault.Err)
}

func (fault Fault) Unwrap() error {
	return fault.Err
}
