package isa

// Source locates one assembled source line within a program.
type Source struct {
	LineNo int    // Line number in the assembly text.
	Ip     int    // Instruction index of the first generated instruction.
	Text   string // Original source text.
}

// Program is an immutable, loadable unit of execution: an ordered
// instruction list, an entry point, and an optional preloaded data segment.
type Program struct {
	Instructions []Instruction
	EntryPoint   uint32
	Data         map[uint32]int32

	Sources []Source // Optional listing metadata from the assembler.
}

// Debug returns the source line covering the given instruction index,
// or nil if the program carries no listing metadata for it.
func (prog *Program) Debug(ip uint32) (src *Source) {
	for n := len(prog.Sources) - 1; n >= 0; n-- {
		if int(ip) >= prog.Sources[n].Ip {
			src = &prog.Sources[n]
			break
		}
	}

	return
}
