package objects

import (
	"unsafe"

	"github.com/minisc-rt/minisc/internal/gc"
)

// strWords computes the total object size in words for a byte payload of
// length n: one header word, one word holding the length, and
// ceil(n/wordSize) words of packed bytes -- scgc.c's STRLEN2CELLS.
func strWords(n int) int {
	payload := (n + gc.WordSize - 1) / gc.WordSize
	return 2 + payload
}

func strSizeWords(h *gc.Heap, addr unsafe.Pointer) int {
	return strWords(int(gc.WordAt(addr, 0)))
}

// stringOps mirrors scgc.c's sc_string_ops: the byte payload holds no
// handles, so relocation is a no-op.
var stringOps = &gc.ObjectOps{
	Name:             "string",
	SizeWords:        strSizeWords,
	RelocateChildren: func(h *gc.Heap, addr unsafe.Pointer) {},
}

// AllocString reserves room for an n-byte string. The bytes themselves are
// left zeroed; callers fill them in via StringBytes before the string
// escapes to anywhere a collection could observe it.
func (s *Store) AllocString(n int) Handle {
	h := s.Heap.Alloc(stringOps, strWords(n))
	gc.SetWordAt(gc.Addr(h), 0, gc.Word(n))
	return h
}

// MakeString allocates a string and copies the Go string's bytes into it.
func (s *Store) MakeString(str string) Handle {
	h := s.AllocString(len(str))
	copy(gc.BytesAt(gc.Addr(h), 1, len(str)), str)
	return h
}

// StringLen returns a string's byte length.
func (s *Store) StringLen(h Handle) (int, error) {
	if !IsString(h) {
		return 0, &TypeError{Op: "string-length", Want: "string"}
	}
	return int(gc.WordAt(gc.Addr(h), 0)), nil
}

// StringBytes returns a mutable view of a string's raw bytes.
func (s *Store) StringBytes(h Handle) ([]byte, error) {
	n, err := s.StringLen(h)
	if err != nil {
		return nil, err
	}
	return gc.BytesAt(gc.Addr(h), 1, n), nil
}

// StringValue copies a string handle's contents out as a Go string.
func (s *Store) StringValue(h Handle) (string, error) {
	b, err := s.StringBytes(h)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
