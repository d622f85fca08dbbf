package gc

import "unsafe"

// ObjectOps is the vtable every heap object kind supplies. An object's
// identity as a pair, vector, and so on is established by the identity of
// its ObjectOps pointer, not by a numeric discriminator: adding a new kind
// is purely additive.
type ObjectOps struct {
	// Name is used only in diagnostics (error messages, disassembly).
	Name string

	// SizeWords returns the object's total size in words, including the
	// one-word chunk header at addr.
	SizeWords func(h *Heap, addr unsafe.Pointer) int

	// RelocateChildren is called once per object during the to-space scan
	// (addr is already the object's new, post-copy address). It must call
	// Heap.Relocate on every handle-typed slot the object holds.
	RelocateChildren func(h *Heap, addr unsafe.Pointer)
}

// brokenHeart marks a from-space object that has already been copied to
// to-space this collection. Its payload word 0 holds the forwarding handle.
// No object predicate in the objects package may ever match this pointer.
var brokenHeart = &ObjectOps{Name: "broken-heart"}

// header reads the ObjectOps pointer stored at an object's address.
func header(addr unsafe.Pointer) *ObjectOps {
	return *(**ObjectOps)(addr)
}

// setHeader stamps the ObjectOps pointer at an object's address.
func setHeader(addr unsafe.Pointer, ops *ObjectOps) {
	*(**ObjectOps)(addr) = ops
}

// HeaderOps exposes the ObjectOps pointer stamped at a live handle's
// address, letting the object layer identify an object's kind by pointer
// identity instead of a numeric tag. The caller must have already checked
// IsPointer and !IsNil.
func HeaderOps(addr unsafe.Pointer) *ObjectOps {
	return header(addr)
}

// WordSize is the size in bytes of one heap word, for packages (the object
// layer) that need to convert a byte length into a word count.
const WordSize = int(unsafe.Sizeof(Word(0)))

// wordAt returns a pointer to the i-th word (0 = the header word) of the
// object based at addr.
func wordAt(addr unsafe.Pointer, i int) *Word {
	return (*Word)(unsafe.Pointer(uintptr(addr) + uintptr(i)*wordSize))
}

// HandleAt reads the handle stored in slot i (0-based, not counting the
// header) of the object based at addr.
func HandleAt(addr unsafe.Pointer, slot int) Handle {
	return Handle(*wordAt(addr, slot+1))
}

// SetHandleAt writes the handle stored in slot i (0-based, not counting the
// header) of the object based at addr.
func SetHandleAt(addr unsafe.Pointer, slot int, v Handle) {
	*wordAt(addr, slot+1) = Word(v)
}

// WordAt reads a raw, non-handle word from slot i (0-based, not counting
// the header) -- used for lengths, counts, and arities.
func WordAt(addr unsafe.Pointer, slot int) Word {
	return *wordAt(addr, slot+1)
}

// SetWordAt writes a raw, non-handle word into slot i (0-based, not
// counting the header).
func SetWordAt(addr unsafe.Pointer, slot int, v Word) {
	*wordAt(addr, slot+1) = v
}

// BytesAt returns a byte slice view of nBytes bytes starting at word slot
// (0-based, not counting the header), for strings and symbols.
func BytesAt(addr unsafe.Pointer, slot int, nBytes int) []byte {
	p := unsafe.Pointer(uintptr(addr) + wordSize + uintptr(slot)*wordSize)
	return unsafe.Slice((*byte)(p), nBytes)
}
