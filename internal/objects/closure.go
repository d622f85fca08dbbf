package objects

import (
	"fmt"
	"unsafe"

	"github.com/minisc-rt/minisc/internal/gc"
)

// closureOps backs a MAKE_CLOSURE result: the captured environment, an
// external-pointer handle for the code entry point, a vector of parameter
// names (NIL for closures built by MAKE_CLOSURE; INVOKE_PROCEDURE builds
// the call frame anonymously and never reads it), and the arity.
//
// Slot layout (0-based, not counting the header):
//
//	0  env    (handle)
//	1  code   (handle: external pointer, a bytecode offset)
//	2  params (handle: a vector of symbols)
//	3  arity  (raw word)
var closureOps = &gc.ObjectOps{
	Name: "closure",
	SizeWords: func(h *gc.Heap, addr unsafe.Pointer) int {
		return 5
	},
	RelocateChildren: func(h *gc.Heap, addr unsafe.Pointer) {
		env := gc.HandleAt(addr, 0)
		h.Relocate(&env)
		gc.SetHandleAt(addr, 0, env)

		params := gc.HandleAt(addr, 2)
		h.Relocate(&params)
		gc.SetHandleAt(addr, 2, params)
	},
}

// MakeClosure allocates a closure capturing env, entering at codeOffset,
// bound to the given parameter-name vector (params) of the given arity.
func (s *Store) MakeClosure(env Handle, codeOffset int, params Handle, arity int) Handle {
	// Same hazard as ExtendEnv: env and params are Go-local copies that
	// Alloc's collection cannot see unless explicitly rooted.
	pop, err := s.Heap.RegisterRoots(&env, &params)
	if err != nil {
		panic(fmt.Sprintf("objects: make-closure: %v", err))
	}
	defer pop()

	h := s.Heap.Alloc(closureOps, 5)
	addr := gc.Addr(h)
	gc.SetHandleAt(addr, 0, env)
	gc.SetHandleAt(addr, 1, gc.MakeExternal(uint64(codeOffset)))
	gc.SetHandleAt(addr, 2, params)
	gc.SetWordAt(addr, 3, gc.Word(arity))
	return h
}

func (s *Store) ClosureEnv(c Handle) (Handle, error) {
	if !IsClosure(c) {
		return NIL, &TypeError{Op: "closure-env", Want: "closure"}
	}
	return gc.HandleAt(gc.Addr(c), 0), nil
}

// ClosureCode returns the closure's bytecode entry offset.
func (s *Store) ClosureCode(c Handle) (int, error) {
	if !IsClosure(c) {
		return 0, &TypeError{Op: "closure-code", Want: "closure"}
	}
	return int(gc.HandleAt(gc.Addr(c), 1).ExternalValue()), nil
}

func (s *Store) ClosureParams(c Handle) (Handle, error) {
	if !IsClosure(c) {
		return NIL, &TypeError{Op: "closure-params", Want: "closure"}
	}
	return gc.HandleAt(gc.Addr(c), 2), nil
}

func (s *Store) ClosureArity(c Handle) (int, error) {
	if !IsClosure(c) {
		return 0, &TypeError{Op: "closure-arity", Want: "closure"}
	}
	return int(gc.WordAt(gc.Addr(c), 3)), nil
}
