package objects

import "github.com/minisc-rt/minisc/internal/gc"

// MakeExternalPointer tags offset (a bytecode address) as an external
// pointer handle. These never occupy heap storage: the collector's
// Relocate leaves the tagExternal bit pattern untouched, which is exactly
// what a raw VM code address needs.
func MakeExternalPointer(offset int) Handle {
	return gc.MakeExternal(uint64(offset))
}

// ExternalPointerOffset unpacks an external pointer handle.
func (s *Store) ExternalPointerOffset(h Handle) (int, error) {
	if !IsExternalPointer(h) {
		return 0, &TypeError{Op: "external-pointer-offset", Want: "external pointer"}
	}
	return int(h.ExternalValue()), nil
}
