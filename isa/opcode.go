package isa

import (
	"fmt"
	"strings"
)

// Op is a machine opcode.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	// Compute class.
	OP_ADD = Op(0) // ADD
	OP_SUB = Op(1) // SUB
	OP_MUL = Op(2) // MUL
	OP_DIV = Op(3) // DIV
	OP_AND = Op(4) // AND
	OP_OR  = Op(5) // OR
	OP_XOR = Op(6) // XOR
	OP_MOV = Op(7) // MOV

	// Memory class.
	OP_LOAD  = Op(8) // LOAD
	OP_STORE = Op(9) // STORE

	// Branch class.
	OP_JMP = Op(10) // JMP
	OP_JZ  = Op(11) // JZ
	OP_JNZ = Op(12) // JNZ
	OP_JGT = Op(13) // JGT
	OP_JLT = Op(14) // JLT

	// System class.
	OP_HALT  = Op(15) // HALT
	OP_YIELD = Op(16) // YIELD

	// Synchronization class.
	OP_LOCK       = Op(17) // LOCK
	OP_UNLOCK     = Op(18) // UNLOCK
	OP_FENCE      = Op(19) // FENCE
	OP_CAS        = Op(20) // CAS
	OP_ATOMIC_ADD = Op(21) // ATOMIC_ADD
	OP_ATOMIC_SUB = Op(22) // ATOMIC_SUB
	OP_BARRIER    = Op(23) // BARRIER
	OP_JOIN_ALL   = Op(24) // JOIN_ALL

	// Special class.
	OP_FORK = Op(25) // FORK

	OP_COUNT = 26
)

// OpClass is the category an opcode dispatches under.
type OpClass int

//go:generate go tool stringer -linecomment -type=OpClass
const (
	CLASS_COMPUTE = OpClass(0) // compute
	CLASS_MEMORY  = OpClass(1) // memory
	CLASS_BRANCH  = OpClass(2) // branch
	CLASS_SYSTEM  = OpClass(3) // system
	CLASS_SYNC    = OpClass(4) // sync
	CLASS_SPECIAL = OpClass(5) // special

	CLASS_COUNT = 6
)

// Class returns the dispatch category for the opcode.
func (op Op) Class() OpClass {
	switch {
	case op >= OP_ADD && op <= OP_MOV:
		return CLASS_COMPUTE
	case op == OP_LOAD || op == OP_STORE:
		return CLASS_MEMORY
	case op >= OP_JMP && op <= OP_JLT:
		return CLASS_BRANCH
	case op == OP_HALT || op == OP_YIELD:
		return CLASS_SYSTEM
	case op >= OP_LOCK && op <= OP_JOIN_ALL:
		return CLASS_SYNC
	}
	return CLASS_SPECIAL
}

// opArity is the exact operand count required by each opcode.
var opArity = [OP_COUNT]int{
	OP_ADD: 3, OP_SUB: 3, OP_MUL: 3, OP_DIV: 3,
	OP_AND: 3, OP_OR: 3, OP_XOR: 3, OP_MOV: 2,
	OP_LOAD: 2, OP_STORE: 2,
	OP_JMP: 1, OP_JZ: 2, OP_JNZ: 2, OP_JGT: 2, OP_JLT: 2,
	OP_HALT: 0, OP_YIELD: 0,
	OP_LOCK: 1, OP_UNLOCK: 1, OP_FENCE: 0, OP_CAS: 4,
	OP_ATOMIC_ADD: 3, OP_ATOMIC_SUB: 3, OP_BARRIER: 1, OP_JOIN_ALL: 0,
	OP_FORK: 2,
}

// Arity returns the operand count the opcode requires.
func (op Op) Arity() int {
	if op < 0 || op >= OP_COUNT {
		return 0
	}
	return opArity[op]
}

// opMap maps mnemonics to opcodes for the assembler.
var opMap = func() map[string]Op {
	m := make(map[string]Op, OP_COUNT)
	for op := Op(0); op < OP_COUNT; op++ {
		m[op.String()] = op
	}
	return m
}()

// OpFor resolves a mnemonic to its opcode.
func OpFor(mnemonic string) (op Op, ok bool) {
	op, ok = opMap[strings.ToUpper(mnemonic)]
	return
}

// Register is a general purpose register index.
type Register int

// NUM_REGISTERS is the size of the register file.
const NUM_REGISTERS = 8

// String returns the register name.
func (r Register) String() string {
	return fmt.Sprintf("R%d", int(r))
}

// RegisterFor resolves a register name ("R0".."R7") to its index.
func RegisterFor(name string) (reg Register, ok bool) {
	name = strings.ToUpper(name)
	if len(name) != 2 || name[0] != 'R' || name[1] < '0' || name[1] > '0'+NUM_REGISTERS-1 {
		return
	}
	return Register(name[1] - '0'), true
}

// OperandKind describes how an operand resolves to a value.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_REG  = OperandKind(0) // reg
	OPERAND_IMM  = OperandKind(1) // imm
	OPERAND_ADDR = OperandKind(2) // addr
)

// Operand is a single instruction operand: a register, an immediate
// value, or a memory address.
type Operand struct {
	Kind  OperandKind
	Reg   Register
	Value int32
}

// Reg creates a register operand.
func Reg(r Register) Operand {
	return Operand{Kind: OPERAND_REG, Reg: r}
}

// Imm creates an immediate operand.
func Imm(value int32) Operand {
	return Operand{Kind: OPERAND_IMM, Value: value}
}

// Addr creates a memory address operand.
func Addr(addr int32) Operand {
	return Operand{Kind: OPERAND_ADDR, Value: addr}
}

// String returns the assembly form of the operand.
func (o Operand) String() string {
	switch o.Kind {
	case OPERAND_REG:
		return o.Reg.String()
	case OPERAND_ADDR:
		return fmt.Sprintf("@%d", o.Value)
	}
	return fmt.Sprintf("%d", o.Value)
}

// Instruction is one decoded machine instruction.
type Instruction struct {
	Op       Op
	Operands []Operand
}

// String returns the assembly form of the instruction.
func (in Instruction) String() string {
	if len(in.Operands) == 0 {
		return in.Op.String()
	}
	args := make([]string, len(in.Operands))
	for n, o := range in.Operands {
		args[n] = o.String()
	}
	return in.Op.String() + " " + strings.Join(args, ", ")
}
