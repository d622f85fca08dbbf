package objects

import (
	"unsafe"

	"github.com/minisc-rt/minisc/internal/gc"
)

// pairOps mirrors scgc.c's sc_cons_ops: a header plus two handle slots,
// both of which must be relocated.
var pairOps = &gc.ObjectOps{
	Name: "pair",
	SizeWords: func(h *gc.Heap, addr unsafe.Pointer) int {
		return 3 // header + car + cdr
	},
	RelocateChildren: func(h *gc.Heap, addr unsafe.Pointer) {
		car := gc.HandleAt(addr, 0)
		h.Relocate(&car)
		gc.SetHandleAt(addr, 0, car)
		cdr := gc.HandleAt(addr, 1)
		h.Relocate(&cdr)
		gc.SetHandleAt(addr, 1, cdr)
	},
}

// Cons allocates a new pair with both car and cdr set to NIL.
func (s *Store) Cons() Handle {
	h := s.Heap.Alloc(pairOps, 3)
	gc.SetHandleAt(gc.Addr(h), 0, NIL)
	gc.SetHandleAt(gc.Addr(h), 1, NIL)
	return h
}

func (s *Store) Car(c Handle) (Handle, error) {
	if !IsPair(c) {
		return NIL, &TypeError{Op: "car", Want: "pair"}
	}
	return gc.HandleAt(gc.Addr(c), 0), nil
}

func (s *Store) Cdr(c Handle) (Handle, error) {
	if !IsPair(c) {
		return NIL, &TypeError{Op: "cdr", Want: "pair"}
	}
	return gc.HandleAt(gc.Addr(c), 1), nil
}

func (s *Store) SetCar(c, v Handle) error {
	if !IsPair(c) {
		return &TypeError{Op: "set-car!", Want: "pair"}
	}
	gc.SetHandleAt(gc.Addr(c), 0, v)
	return nil
}

func (s *Store) SetCdr(c, v Handle) error {
	if !IsPair(c) {
		return &TypeError{Op: "set-cdr!", Want: "pair"}
	}
	gc.SetHandleAt(gc.Addr(c), 1, v)
	return nil
}
