// Package gc implements a copying garbage collector over a semispace heap.
//
// The heap holds two equally sized word arenas. One is active (to-space) and
// bump-allocated into; the other is reserve (from-space once a collection
// starts). Objects are addressed by Handle, a tagged machine word that is
// either an inline integer, an external (non-GC) pointer, or a tagged
// pointer into the active arena. The collector knows nothing about object
// semantics beyond the ObjectOps vtable each kind supplies.
package gc

import "unsafe"

// Word is the unit of heap storage. Every object occupies a whole number of
// words, beginning with a one-word chunk header.
type Word = uint64

const wordSize = unsafe.Sizeof(Word(0))

// Handle is a tagged, pointer-width value. It is the only representation in
// which a mutator ever holds a reference to a heap object, an inline
// integer, or a raw code address.
//
// Tag bits (low 2 bits):
//
//	00  aligned pointer into the active arena (or NIL, the zero handle)
//	01  inline integer, payload in the remaining bits
//	11  external pointer (a VM code offset), opaque to the collector
//	10  reserved, unused
type Handle uint64

const (
	tagMask     = 0x3
	tagPointer  = 0x0
	tagInteger  = 0x1
	tagExternal = 0x3
)

// NIL is the null handle: a pointer tag with a zero payload. It is a valid
// value for any pointer-typed slot; type predicates return false for it.
const NIL Handle = 0

// tag returns the low 2 tag bits of h.
func (h Handle) tag() uint64 { return uint64(h) & tagMask }

// IsNil reports whether h is the null handle.
func (h Handle) IsNil() bool { return h == NIL }

// IsInteger reports whether h is an inline small integer.
func (h Handle) IsInteger() bool { return h.tag() == tagInteger }

// IsExternal reports whether h is an external (non-heap) pointer.
func (h Handle) IsExternal() bool { return h.tag() == tagExternal }

// IsPointer reports whether h is a heap pointer tag (including NIL).
func (h Handle) IsPointer() bool { return h.tag() == tagPointer }

// MakeInteger packs v into an inline-integer handle. Overflow of the
// available payload bits wraps silently, matching the original
// implementation's unchecked fixnum arithmetic.
func MakeInteger(v int64) Handle {
	return Handle(uint64(v)<<2 | tagInteger)
}

// IntegerValue unpacks an inline-integer handle. The caller must have
// checked IsInteger first; this never panics, it just returns garbage for a
// non-integer handle.
func (h Handle) IntegerValue() int64 {
	// Arithmetic right shift on the signed view discards the tag bits
	// exactly, since MakeInteger always leaves them zero before tagging.
	return int64(h) >> 2
}

// MakeExternal packs a VM code offset into an external-pointer handle. The
// collector never dereferences or relocates these; it only needs to avoid
// mistaking them for heap pointers.
func MakeExternal(offset uint64) Handle {
	return Handle(offset<<2 | tagExternal)
}

// ExternalValue unpacks an external-pointer handle.
func (h Handle) ExternalValue() uint64 {
	return uint64(h) >> 2
}

// addr returns the unsafe.Pointer a heap-pointer handle addresses. The
// caller must have checked IsPointer and !IsNil.
func (h Handle) addr() unsafe.Pointer {
	return unsafe.Pointer(uintptr(h))
}

// Addr exposes the unsafe.Pointer a heap-pointer handle addresses, for use
// by the object layer built on top of this package. The caller must have
// checked IsPointer and !IsNil first; Addr does not check for you.
func Addr(h Handle) unsafe.Pointer {
	return h.addr()
}

// handleFromAddr tags a raw word address as a heap-pointer handle. Since
// every arena is word-aligned and words are 8 bytes, the low 2 bits of any
// in-arena address are always zero, so no bits are lost to the pointer tag.
func handleFromAddr(p unsafe.Pointer) Handle {
	return Handle(uintptr(p))
}
