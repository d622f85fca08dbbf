// Package obarray implements symbol interning: every distinct symbol name
// maps to exactly one Handle for the lifetime of a runtime, so bytecode can
// compare bound variable names by handle identity instead of string
// comparison (see objects.Store.EnvLookup). Grounded on symbol.c's
// obarray_init/sc_intern_symbol: a single growable vector, linearly
// scanned, doubling in size when it runs out of room.
package obarray

import (
	"fmt"

	"github.com/minisc-rt/minisc/internal/objects"
)

// InitialSize is the obarray's starting capacity, matching symbol.c's
// OBARRAY_INITIAL_SIZE.
const InitialSize = 50

// Obarray interns symbols against a single Store.
type Obarray struct {
	store *objects.Store
	vec   objects.Handle
}

// New allocates an obarray of InitialSize and registers a root hook
// keeping it (and whatever larger vector growth later replaces it with)
// alive for the lifetime of store's heap.
func New(store *objects.Store) *Obarray {
	o := &Obarray{store: store}
	o.vec = store.MakeVector(InitialSize)
	store.Heap.RegisterRootHook(func() {
		store.Heap.Relocate(&o.vec)
	})
	return o
}

// Intern returns the unique symbol handle for name, allocating and
// registering a new symbol object the first time name is seen.
func (o *Obarray) Intern(name string) objects.Handle {
	n, err := o.store.VectorLen(o.vec)
	if err != nil {
		panic(fmt.Sprintf("obarray: corrupt obarray vector: %v", err))
	}

	i := 0
	for ; i < n; i++ {
		v, _ := o.store.VectorRef(o.vec, i)
		if objects.IsNull(v) {
			break
		}
		existing, _ := o.store.SymbolName(v)
		if existing == name {
			return v
		}
	}

	if i == n {
		o.grow(n)
	}

	sym := o.store.MakeSymbol(name)
	_ = o.store.VectorSet(o.vec, i, sym)
	return sym
}

// grow doubles the obarray's capacity, copying every existing entry into
// the new vector (symbol.c's realloc-on-overflow path).
func (o *Obarray) grow(oldLen int) {
	newLen := oldLen << 1
	o.store.Heap.Logger().Infof("obarray: growing from %d to %d entries", oldLen, newLen)
	grown := o.store.MakeVector(newLen)
	for i := 0; i < oldLen; i++ {
		v, _ := o.store.VectorRef(o.vec, i)
		_ = o.store.VectorSet(grown, i, v)
	}
	o.vec = grown
}

// Len reports the obarray's current vector capacity (not the number of
// interned symbols, which may be fewer if there is trailing free space).
func (o *Obarray) Len() int {
	n, _ := o.store.VectorLen(o.vec)
	return n
}
