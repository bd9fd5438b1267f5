package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpClass(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		Op    Op
		Class OpClass
	}){
		{OP_ADD, CLASS_COMPUTE},
		{OP_MOV, CLASS_COMPUTE},
		{OP_LOAD, CLASS_MEMORY},
		{OP_STORE, CLASS_MEMORY},
		{OP_JMP, CLASS_BRANCH},
		{OP_JLT, CLASS_BRANCH},
		{OP_HALT, CLASS_SYSTEM},
		{OP_YIELD, CLASS_SYSTEM},
		{OP_LOCK, CLASS_SYNC},
		{OP_JOIN_ALL, CLASS_SYNC},
		{OP_FORK, CLASS_SPECIAL},
	}

	for _, testcase := range table {
		assert.Equal(testcase.Class, testcase.Op.Class(), testcase.Op.String())
	}
}

func TestOpFor(t *testing.T) {
	assert := assert.New(t)

	for op := Op(0); op < OP_COUNT; op++ {
		found, ok := OpFor(op.String())
		assert.True(ok, op.String())
		assert.Equal(op, found)
	}

	// Mnemonics are case-insensitive.
	op, ok := OpFor("atomic_add")
	assert.True(ok)
	assert.Equal(OP_ATOMIC_ADD, op)

	_, ok = OpFor("NOP")
	assert.False(ok)
}

func TestRegisterFor(t *testing.T) {
	assert := assert.New(t)

	for n := range NUM_REGISTERS {
		reg, ok := RegisterFor(Register(n).String())
		assert.True(ok)
		assert.Equal(Register(n), reg)
	}

	reg, ok := RegisterFor("r3")
	assert.True(ok)
	assert.Equal(Register(3), reg)

	_, ok = RegisterFor("R8")
	assert.False(ok)
	_, ok = RegisterFor("RX")
	assert.False(ok)
	_, ok = RegisterFor("R10")
	assert.False(ok)
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	in := Instruction{Op: OP_ADD, Operands: []Operand{Reg(0), Reg(1), Imm(5)}}
	assert.Equal("ADD R0, R1, 5", in.String())

	in = Instruction{Op: OP_LOAD, Operands: []Operand{Reg(2), Addr(100)}}
	assert.Equal("LOAD R2, @100", in.String())

	in = Instruction{Op: OP_HALT}
	assert.Equal("HALT", in.String())
}
