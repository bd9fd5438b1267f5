package proc

import (
	"github.com/ezrec/parvm/isa"
)

// Behavior is the per-category execution dispatch of a processor.
// Variants embed DefaultBehavior and override individual categories
// instead of shadowing the whole execute path; every opcode of a
// category is handled in exactly one place.
type Behavior interface {
	Compute(p *Processor, in isa.Instruction) (SideEffect, error)
	Memory(p *Processor, in isa.Instruction) (SideEffect, error)
	Branch(p *Processor, in isa.Instruction) (SideEffect, error)
	System(p *Processor, in isa.Instruction) (SideEffect, error)
	Sync(p *Processor, in isa.Instruction) (SideEffect, error)
	Special(p *Processor, in isa.Instruction) (SideEffect, error)
}

// DefaultBehavior is the standard instruction semantics.
type DefaultBehavior struct{}

var _ Behavior = DefaultBehavior{}

// Compute executes the register arithmetic category. The destination is
// always a register; sources are registers or immediates. Arithmetic
// wraps in 32 bits.
func (DefaultBehavior) Compute(p *Processor, in isa.Instruction) (effect SideEffect, err error) {
	if in.Operands[0].Kind != isa.OPERAND_REG {
		err = ErrOperandKind
		return
	}
	dst := in.Operands[0].Reg

	a, err := p.SourceValue(in.Operands[1])
	if err != nil {
		return
	}

	if in.Op == isa.OP_MOV {
		p.Registers[dst] = a
		return next(), nil
	}

	b, err := p.SourceValue(in.Operands[2])
	if err != nil {
		return
	}

	var out int32
	switch in.Op {
	case isa.OP_ADD:
		out = a + b
	case isa.OP_SUB:
		out = a - b
	case isa.OP_MUL:
		out = a * b
	case isa.OP_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		out = a / b
	case isa.OP_AND:
		out = a & b
	case isa.OP_OR:
		out = a | b
	case isa.OP_XOR:
		out = a ^ b
	}

	p.Registers[dst] = out
	return next(), nil
}

// Memory executes LOAD and STORE. LOAD takes an immediate value, an
// @address, or a register holding an address; the read goes through the
// read-only memory view. STORE never writes directly: it produces a
// MemoryWrite effect for the VM.
func (DefaultBehavior) Memory(p *Processor, in isa.Instruction) (effect SideEffect, err error) {
	if in.Operands[0].Kind != isa.OPERAND_REG {
		err = ErrOperandKind
		return
	}
	reg := in.Operands[0].Reg

	switch in.Op {
	case isa.OP_LOAD:
		src := in.Operands[1]
		if src.Kind == isa.OPERAND_IMM {
			p.Registers[reg] = src.Value
			return next(), nil
		}
		var addr uint32
		addr, err = p.AddressValue(src)
		if err != nil {
			return
		}
		var value int32
		value, err = p.mem.Read(addr, p.Id, p.thread.Id, p.timestamp)
		if err != nil {
			return
		}
		p.Registers[reg] = value
		return next(), nil

	case isa.OP_STORE:
		var addr uint32
		addr, err = p.AddressValue(in.Operands[1])
		if err != nil {
			return
		}
		effect = next()
		effect.Effect = MemoryWrite{Addr: addr, Value: p.Registers[reg]}
		return
	}

	err = ErrOperandKind
	return
}

// signedCompare orders two 32-bit signed values. Comparing directly
// instead of subtract-and-test keeps operands that differ by more than
// 2^31 from overflowing the comparison.
func signedCompare(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Branch executes JMP and the conditional branches. Conditionals test a
// register's signed value against zero.
func (DefaultBehavior) Branch(p *Processor, in isa.Instruction) (effect SideEffect, err error) {
	if in.Op == isa.OP_JMP {
		var target uint32
		target, err = p.branchTarget(in.Operands[0])
		if err != nil {
			return
		}
		return jump(target), nil
	}

	if in.Operands[0].Kind != isa.OPERAND_REG {
		err = ErrOperandKind
		return
	}
	value := p.Registers[in.Operands[0].Reg]

	target, err := p.branchTarget(in.Operands[1])
	if err != nil {
		return
	}

	taken := false
	switch in.Op {
	case isa.OP_JZ:
		taken = value == 0
	case isa.OP_JNZ:
		taken = value != 0
	case isa.OP_JGT:
		taken = signedCompare(value, 0) > 0
	case isa.OP_JLT:
		taken = signedCompare(value, 0) < 0
	}

	if taken {
		return jump(target), nil
	}
	return next(), nil
}

// branchTarget resolves and range-checks a branch target operand.
func (p *Processor) branchTarget(o isa.Operand) (target uint32, err error) {
	value, err := p.SourceValue(o)
	if err != nil {
		return
	}
	if value < 0 || int(value) >= len(p.prog.Instructions) {
		err = ErrBranchRange
		return
	}

	target = uint32(value)
	return
}

// System executes HALT and YIELD.
func (DefaultBehavior) System(p *Processor, in isa.Instruction) (effect SideEffect, err error) {
	effect = next()
	switch in.Op {
	case isa.OP_HALT:
		effect.Effect = Halt{}
	case isa.OP_YIELD:
		effect.Effect = Yield{}
	}

	return
}

// Sync translates every synchronization opcode into its effect
// descriptor; the VM applies them against the primitive registry.
func (DefaultBehavior) Sync(p *Processor, in isa.Instruction) (effect SideEffect, err error) {
	effect = next()

	switch in.Op {
	case isa.OP_LOCK:
		var id string
		id, err = p.syncId(in.Operands[0])
		if err != nil {
			return
		}
		effect.Effect = LockAcquire{Id: id}

	case isa.OP_UNLOCK:
		var id string
		id, err = p.syncId(in.Operands[0])
		if err != nil {
			return
		}
		effect.Effect = LockRelease{Id: id}

	case isa.OP_FENCE:
		effect.Effect = Fence{}

	case isa.OP_CAS:
		if in.Operands[0].Kind != isa.OPERAND_REG {
			err = ErrOperandKind
			return
		}
		var addr uint32
		addr, err = p.AddressValue(in.Operands[1])
		if err != nil {
			return
		}
		var expect, newValue int32
		expect, err = p.SourceValue(in.Operands[2])
		if err != nil {
			return
		}
		newValue, err = p.SourceValue(in.Operands[3])
		if err != nil {
			return
		}
		effect.Effect = Cas{Addr: addr, Expect: expect, New: newValue, Dest: in.Operands[0].Reg}

	case isa.OP_ATOMIC_ADD, isa.OP_ATOMIC_SUB:
		if in.Operands[0].Kind != isa.OPERAND_REG {
			err = ErrOperandKind
			return
		}
		var addr uint32
		addr, err = p.AddressValue(in.Operands[1])
		if err != nil {
			return
		}
		var delta int32
		delta, err = p.SourceValue(in.Operands[2])
		if err != nil {
			return
		}
		if in.Op == isa.OP_ATOMIC_SUB {
			delta = -delta
		}
		effect.Effect = AtomicAdd{Addr: addr, Delta: delta, Dest: in.Operands[0].Reg}

	case isa.OP_BARRIER:
		var id string
		id, err = p.syncId(in.Operands[0])
		if err != nil {
			return
		}
		effect.Effect = BarrierArrive{Id: id}

	case isa.OP_JOIN_ALL:
		effect.Effect = JoinAll{}
	}

	return
}

// Special executes FORK.
func (DefaultBehavior) Special(p *Processor, in isa.Instruction) (effect SideEffect, err error) {
	target, err := p.SourceValue(in.Operands[0])
	if err != nil {
		return
	}
	if target < 0 || int(target) >= len(p.prog.Instructions) {
		err = ErrForkNegative
		return
	}

	arg, err := p.SourceValue(in.Operands[1])
	if err != nil {
		return
	}

	effect = next()
	effect.Effect = Fork{TargetPc: uint32(target), Arg: arg}
	return
}
