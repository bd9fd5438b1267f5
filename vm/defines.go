package vm

import (
	"iter"
	"maps"
	"strconv"

	"github.com/ezrec/parvm/internal"
	"github.com/ezrec/parvm/isa"
	"github.com/ezrec/parvm/mem"
)

var _vm_defines = map[string]string{
	"NUM_REGISTERS": strconv.Itoa(isa.NUM_REGISTERS),
	"CACHE_LINES":   strconv.Itoa(mem.CACHE_LINES),
}

// Defines returns an iterator over the machine constants available to
// assembly programs as $(NAME) equates.
func (vm *Vm) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_vm_defines),
		maps.All(map[string]string{
			"NUM_PROCESSORS": strconv.Itoa(len(vm.Processors)),
			"MEMORY_SIZE":    strconv.Itoa(vm.Memory.Size()),
		}),
	)
}
