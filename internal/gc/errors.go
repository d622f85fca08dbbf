package gc

import "fmt"

// FatalError marks an internal GC inconsistency (a scan that ran past the
// bump pointer, an unrecognized ops pointer, a reentrant collection) or an
// out-of-memory condition after arena growth. These indicate an
// implementation bug, not a program error, and are never routed through a
// mutator-supplied error handler: the collector panics directly.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("gc: fatal: %s", e.Msg)
}

func (h *Heap) fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	h.logger.Errorf("gc: fatal: %s", msg)
	panic(&FatalError{Msg: msg})
}

// RootsError is returned by RegisterRoots when the caller exceeds
// MaxRootsPerFrame in a single call.
type RootsError struct {
	Requested, Max int
}

func (e *RootsError) Error() string {
	return fmt.Sprintf("gc: %d roots requested exceeds max %d per frame", e.Requested, e.Max)
}
