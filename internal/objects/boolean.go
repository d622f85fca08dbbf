package objects

import (
	"unsafe"

	"github.com/minisc-rt/minisc/internal/gc"
)

// booleanOps mirrors scgc.c's sc_boolean_ops: header plus one raw (non-
// handle) word holding 0 or 1. No children to relocate.
var booleanOps = &gc.ObjectOps{
	Name: "boolean",
	SizeWords: func(h *gc.Heap, addr unsafe.Pointer) int {
		return 2 // header + val
	},
	RelocateChildren: func(h *gc.Heap, addr unsafe.Pointer) {},
}

func allocBoolean(h *gc.Heap, v bool) Handle {
	handle := h.Alloc(booleanOps, 2)
	var word gc.Word
	if v {
		word = 1
	}
	gc.SetWordAt(gc.Addr(handle), 0, word)
	return handle
}

// BoolValue unpacks a boolean handle's underlying value.
func (s *Store) BoolValue(h Handle) (bool, error) {
	if !IsBoolean(h) {
		return false, &TypeError{Op: "bool-value", Want: "boolean"}
	}
	return gc.WordAt(gc.Addr(h), 0) != 0, nil
}
