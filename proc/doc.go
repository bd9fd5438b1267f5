// Package proc implements the execution units of the parvm virtual
// machine: threads (register snapshot, program counter, scheduling
// bookkeeping) and processors (register file, bound thread, one
// instruction executed per cycle).
//
// A processor never touches shared memory or synchronization state
// directly. Executing an instruction yields a SideEffect: the program
// counter disposition plus an optional effect descriptor the VM applies
// centrally. Memory reads go through a read-only interface; everything
// else is local register arithmetic.
package proc
