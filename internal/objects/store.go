// Package objects implements the tagged object layer on top of the
// collector: pairs, strings, symbols, vectors, booleans, numbers,
// environments, closures, builtins, and external pointers. Every kind is
// identified by the identity of its *gc.ObjectOps pointer, never by a
// numeric discriminator, mirroring the original implementation's
// sc_pointer_typep.
package objects

import (
	"github.com/minisc-rt/minisc/internal/gc"
)

// Handle is re-exported so callers outside this package rarely need to
// import gc directly just to pass references around.
type Handle = gc.Handle

// NIL is the null handle.
const NIL = gc.NIL

// BuiltinFunc is a host-provided procedure reachable from bytecode. Unlike
// a closure, a builtin's code lives in the Go runtime, not the managed
// heap.
type BuiltinFunc func(s *Store, args []Handle) (Handle, error)

// Store ties the object layer to a particular Heap and holds the few
// pieces of process-wide state a C translation would keep as globals: the
// shared True/False singletons (sc_init in the original) and the side
// table of builtin functions a BUILTIN object indexes into.
//
// Builtins are kept in a plain Go slice rather than packed into the
// simulated arena for the same reason root frames are (see gc.rootFrame):
// an arbitrary Go closure has no fixed-width, relocatable representation
// as a machine word, so the BUILTIN object stores only a small integer
// index and Go's own GC manages the slice of actual function values.
type Store struct {
	Heap *gc.Heap

	True, False Handle

	builtins []BuiltinFunc
}

// NewStore allocates the True/False singletons on h and returns a Store
// ready for use. The singletons are permanent: NewStore registers a root
// hook that keeps them alive for the lifetime of h, so callers never need
// to root them again.
func NewStore(h *gc.Heap) *Store {
	s := &Store{Heap: h}
	// Register the hook before the first allocation: s.True and s.False
	// start out NIL, which Relocate always leaves untouched, so there is no
	// window where a collection can see one singleton live and the other
	// not yet rooted.
	h.RegisterRootHook(func() {
		h.Relocate(&s.True)
		h.Relocate(&s.False)
	})
	s.True = allocBoolean(h, true)
	s.False = allocBoolean(h, false)
	return s
}

// ToBool maps a Go bool to the corresponding singleton.
func (s *Store) ToBool(b bool) Handle {
	if b {
		return s.True
	}
	return s.False
}

// Truthy reports whether h counts as true in a conditional branch. Only
// the False singleton is false; everything else, including NIL, is true.
// vm_ops.h's JT/BRANCH opcodes don't spell out the rule the original C
// used, so this follows ordinary Lisp convention.
func (s *Store) Truthy(h Handle) bool {
	return h != s.False
}
