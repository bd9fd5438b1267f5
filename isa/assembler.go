// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a single pass assembler for the parvm instruction set.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int    // Map of jump labels to instruction indexes.
	Equate map[string]string // Map of equates.

	predefine map[string]string // Predefines
}

// Predefine defines a new equate or redefines an existing equate
// before parsing begins.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// fixup records a branch operand that referenced a forward label.
type fixup struct {
	instr   int    // Instruction index to patch.
	operand int    // Operand index within the instruction.
	label   string // Label name to resolve.
	lineno  int
	line    string
}

// valueOf returns the value of a simple word, after equate expansion.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	if equ, ok := asm.Equate[word]; ok {
		word = equ
	}
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}
	if v64 > 0x7fffffff || v64 < -0x80000000 {
		err = ErrParseNumber(word)
		return
	}
	value = int32(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 int32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine splits a source line into words, stripping comments and
// performing $() evaluations.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	if n := strings.IndexByte(line, ';'); n >= 0 {
		line = line[:n]
	}

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	return
}

// operandOf parses one operand word. Branch targets that name a label
// are returned with wantLabel set for later fixup.
func (asm *Assembler) operandOf(word string) (op Operand, wantLabel string, err error) {
	if reg, ok := RegisterFor(word); ok {
		op = Reg(reg)
		return
	}

	if strings.HasPrefix(word, "@") {
		var value int32
		value, err = asm.valueOf(word[1:])
		if err != nil {
			return
		}
		op = Addr(value)
		return
	}

	value, err := asm.valueOf(word)
	if err == nil {
		op = Imm(value)
		return
	}

	// Not a number - defer to the label fixup pass.
	err = nil
	op = Imm(0)
	wantLabel = word

	return
}

// Parse assembles the source text into a Program.
func (asm *Assembler) Parse(source io.Reader) (prog *Program, err error) {
	prog = &Program{Data: map[uint32]int32{}}

	asm.Label = map[string]int{}
	asm.Equate = map[string]string{"LINENO": "0"}
	for key, value := range asm.predefine {
		asm.Equate[key] = value
	}

	var fixups []fixup
	entryLabel := ""
	entryLine := 0

	lineno := 0
	scanner := bufio.NewScanner(source)
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return nil, ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
		if len(words) == 0 {
			continue
		}

		// Leading labels, possibly followed by an instruction.
		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			if _, dup := asm.Label[label]; dup {
				return nil, ErrSyntax{LineNo: lineno, Line: line, Err: ErrLabelDuplicate}
			}
			asm.Label[label] = len(prog.Instructions)
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}

		err = nil
		switch strings.ToLower(words[0]) {
		case ".equ":
			if len(words) != 3 {
				err = ErrEquateSyntax
				break
			}
			if _, dup := asm.Equate[words[1]]; dup {
				err = ErrEquateDuplicate
				break
			}
			asm.Equate[words[1]] = words[2]
		case ".data":
			if len(words) != 3 {
				err = ErrDataSyntax
				break
			}
			var addr, value int32
			addr, err = asm.valueOf(words[1])
			if err != nil || addr < 0 {
				err = ErrDataSyntax
				break
			}
			value, err = asm.valueOf(words[2])
			if err != nil {
				err = ErrDataSyntax
				break
			}
			prog.Data[uint32(addr)] = value
		case ".entry":
			if len(words) != 2 {
				err = ErrEntrySyntax
				break
			}
			entryLabel = words[1]
			entryLine = lineno
		default:
			var instr Instruction
			var wants []string
			instr, wants, err = asm.assembleInstruction(words)
			if err != nil {
				break
			}
			for n, want := range wants {
				if want == "" {
					continue
				}
				fixups = append(fixups, fixup{
					instr:   len(prog.Instructions),
					operand: n,
					label:   want,
					lineno:  lineno,
					line:    line,
				})
			}
			prog.Sources = append(prog.Sources, Source{
				LineNo: lineno,
				Ip:     len(prog.Instructions),
				Text:   strings.TrimSpace(line),
			})
			prog.Instructions = append(prog.Instructions, instr)
			if asm.Verbose {
				log.Printf("asm: %3d: %v", len(prog.Instructions)-1, instr)
			}
		}
		if err != nil {
			return nil, ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}
	err = scanner.Err()
	if err != nil {
		return nil, err
	}

	// Resolve label references.
	for _, fix := range fixups {
		ip, ok := asm.Label[fix.label]
		if !ok {
			return nil, ErrSyntax{LineNo: fix.lineno, Line: fix.line, Err: ErrLabelMissing(fix.label)}
		}
		prog.Instructions[fix.instr].Operands[fix.operand].Value = int32(ip)
	}

	if entryLabel != "" {
		ip, ok := asm.Label[entryLabel]
		if !ok {
			var value int32
			value, err = asm.valueOf(entryLabel)
			if err != nil || value < 0 {
				return nil, ErrSyntax{LineNo: entryLine, Line: ".entry " + entryLabel, Err: ErrLabelMissing(entryLabel)}
			}
			ip = int(value)
		}
		prog.EntryPoint = uint32(ip)
	}

	return
}

// assembleInstruction assembles one mnemonic and its operand words.
func (asm *Assembler) assembleInstruction(words []string) (instr Instruction, wants []string, err error) {
	op, ok := OpFor(words[0])
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	if len(args) != op.Arity() {
		err = ErrOperandCount
		return
	}

	instr.Op = op
	wants = make([]string, len(args))
	for n, word := range args {
		var operand Operand
		operand, wants[n], err = asm.operandOf(word)
		if err != nil {
			return
		}
		if wants[n] != "" && !branchTarget(op, n) {
			err = ErrOperandInvalid
			return
		}
		instr.Operands = append(instr.Operands, operand)
	}

	// Destination operands must be registers.
	if err = checkDestination(instr); err != nil {
		return
	}

	return
}

// branchTarget reports whether operand n of the opcode may name a label.
func branchTarget(op Op, n int) bool {
	switch op {
	case OP_JMP:
		return n == 0
	case OP_JZ, OP_JNZ, OP_JGT, OP_JLT:
		return n == 1
	case OP_FORK:
		return n == 0
	}
	return false
}

// checkDestination validates that result-bearing operands are registers.
func checkDestination(instr Instruction) (err error) {
	reg0 := false
	switch instr.Op.Class() {
	case CLASS_COMPUTE:
		reg0 = true
	case CLASS_MEMORY:
		reg0 = true
	case CLASS_BRANCH:
		if instr.Op != OP_JMP && instr.Operands[0].Kind != OPERAND_REG {
			return ErrRegisterWanted
		}
	case CLASS_SYNC:
		reg0 = instr.Op == OP_CAS || instr.Op == OP_ATOMIC_ADD || instr.Op == OP_ATOMIC_SUB
	}

	if reg0 && instr.Operands[0].Kind != OPERAND_REG {
		return ErrRegisterWanted
	}

	return
}
