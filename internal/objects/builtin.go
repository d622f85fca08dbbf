package objects

import (
	"unsafe"

	"github.com/minisc-rt/minisc/internal/gc"
)

// builtinOps backs a host-provided procedure: header, an index into the
// owning Store's builtins slice, and the arity. Neither slot is a handle,
// so relocation is a no-op.
var builtinOps = &gc.ObjectOps{
	Name: "builtin",
	SizeWords: func(h *gc.Heap, addr unsafe.Pointer) int {
		return 3
	},
	RelocateChildren: func(h *gc.Heap, addr unsafe.Pointer) {},
}

// MakeBuiltin registers fn in the Store's side table and returns a handle
// for it. fn is invoked with arity arguments whenever bytecode invokes the
// returned handle.
func (s *Store) MakeBuiltin(fn BuiltinFunc, arity int) Handle {
	idx := len(s.builtins)
	s.builtins = append(s.builtins, fn)
	h := s.Heap.Alloc(builtinOps, 3)
	gc.SetWordAt(gc.Addr(h), 0, gc.Word(idx))
	gc.SetWordAt(gc.Addr(h), 1, gc.Word(arity))
	return h
}

func (s *Store) BuiltinArity(h Handle) (int, error) {
	if !IsBuiltin(h) {
		return 0, &TypeError{Op: "builtin-arity", Want: "builtin"}
	}
	return int(gc.WordAt(gc.Addr(h), 1)), nil
}

// CallBuiltin invokes the Go function a BUILTIN handle indexes into.
func (s *Store) CallBuiltin(h Handle, args []Handle) (Handle, error) {
	if !IsBuiltin(h) {
		return NIL, &TypeError{Op: "call-builtin", Want: "builtin"}
	}
	idx := int(gc.WordAt(gc.Addr(h), 0))
	return s.builtins[idx](s, args)
}
