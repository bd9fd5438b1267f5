// Package isa defines the instruction set for the parvm parallel virtual
// machine: a closed opcode enumeration grouped into compute, memory, branch,
// system, synchronization, and special categories, the operand and program
// containers, and a small assembler for the textual form of the instruction
// set supporting labels, equates, data directives, and compile-time
// expression evaluation.
package isa
