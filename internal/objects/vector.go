package objects

import (
	"unsafe"

	"github.com/minisc-rt/minisc/internal/gc"
)

// vectorOps mirrors scgc.c's sc_vector_ops: header, a length word, then
// that many handle slots, all of which must be relocated.
var vectorOps = &gc.ObjectOps{
	Name: "vector",
	SizeWords: func(h *gc.Heap, addr unsafe.Pointer) int {
		return 2 + int(gc.WordAt(addr, 0))
	},
	RelocateChildren: func(h *gc.Heap, addr unsafe.Pointer) {
		n := int(gc.WordAt(addr, 0))
		for i := 0; i < n; i++ {
			v := gc.HandleAt(addr, 1+i)
			h.Relocate(&v)
			gc.SetHandleAt(addr, 1+i, v)
		}
	},
}

// MakeVector allocates a vector of n slots, every slot initialized to NIL.
func (s *Store) MakeVector(n int) Handle {
	h := s.Heap.Alloc(vectorOps, 2+n)
	gc.SetWordAt(gc.Addr(h), 0, gc.Word(n))
	for i := 0; i < n; i++ {
		gc.SetHandleAt(gc.Addr(h), 1+i, NIL)
	}
	return h
}

func (s *Store) VectorLen(v Handle) (int, error) {
	if !IsVector(v) {
		return 0, &TypeError{Op: "vector-length", Want: "vector"}
	}
	return int(gc.WordAt(gc.Addr(v), 0)), nil
}

func (s *Store) VectorRef(v Handle, i int) (Handle, error) {
	n, err := s.VectorLen(v)
	if err != nil {
		return NIL, err
	}
	if i < 0 || i >= n {
		return NIL, &BoundsError{Op: "vector-ref", Index: i, Size: n}
	}
	return gc.HandleAt(gc.Addr(v), 1+i), nil
}

func (s *Store) VectorSet(v Handle, i int, x Handle) error {
	n, err := s.VectorLen(v)
	if err != nil {
		return err
	}
	if i < 0 || i >= n {
		return &BoundsError{Op: "vector-set!", Index: i, Size: n}
	}
	gc.SetHandleAt(gc.Addr(v), 1+i, x)
	return nil
}
