package vm

import (
	"fmt"
)

// TraceKind is the kind of an execution-trace event.
type TraceKind int

//go:generate go tool stringer -linecomment -type=TraceKind
const (
	TRACE_INSTRUCTION_START = TraceKind(0) // instruction_start
	TRACE_CONTEXT_SWITCH    = TraceKind(1) // context_switch
	TRACE_SELECT_THREAD     = TraceKind(2) // select_thread
)

// NO_ID marks a trace event with no processor or thread association.
const NO_ID = -1

// TraceEvent is one entry of the VM's ordered, append-only execution
// trace.
type TraceEvent struct {
	Timestamp   uint64
	Kind        TraceKind
	ProcessorId int // NO_ID when not applicable.
	ThreadId    int // NO_ID when not applicable.
	Payload     string
}

// String returns the event in log form.
func (e TraceEvent) String() string {
	out := fmt.Sprintf("t=%d %v", e.Timestamp, e.Kind)
	if e.ProcessorId != NO_ID {
		out += fmt.Sprintf(" p%d", e.ProcessorId)
	}
	if e.ThreadId != NO_ID {
		out += fmt.Sprintf(" th%d", e.ThreadId)
	}
	if e.Payload != "" {
		out += " " + e.Payload
	}
	return out
}

// record appends one trace event.
func (vm *Vm) record(kind TraceKind, processorId int, threadId int, payload string) {
	vm.trace = append(vm.trace, TraceEvent{
		Timestamp:   vm.clock,
		Kind:        kind,
		ProcessorId: processorId,
		ThreadId:    threadId,
		Payload:     payload,
	})
}

// ExecutionTrace returns the ordered execution trace.
func (vm *Vm) ExecutionTrace() []TraceEvent {
	return vm.trace
}
