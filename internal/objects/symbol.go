package objects

import (
	"unsafe"

	"github.com/minisc-rt/minisc/internal/gc"
)

// symbolOps has the identical layout to stringOps (scgc.c typedefs
// sc_symbol as sc_string) but is a distinct ObjectOps value so IsSymbol
// and IsString never confuse the two kinds.
var symbolOps = &gc.ObjectOps{
	Name:             "symbol",
	SizeWords:        strSizeWords,
	RelocateChildren: func(h *gc.Heap, addr unsafe.Pointer) {},
}

// MakeSymbol allocates a symbol object holding name's bytes verbatim. This
// is the raw allocator the obarray package calls when an interned lookup
// misses; it performs no interning itself.
func (s *Store) MakeSymbol(name string) Handle {
	handle := s.Heap.Alloc(symbolOps, strWords(len(name)))
	gc.SetWordAt(gc.Addr(handle), 0, gc.Word(len(name)))
	copy(gc.BytesAt(gc.Addr(handle), 1, len(name)), name)
	return handle
}

// SymbolName returns a symbol's name as a Go string.
func (s *Store) SymbolName(h Handle) (string, error) {
	if !IsSymbol(h) {
		return "", &TypeError{Op: "symbol-name", Want: "symbol"}
	}
	n := int(gc.WordAt(gc.Addr(h), 0))
	return string(gc.BytesAt(gc.Addr(h), 1, n)), nil
}
