package gc

import (
	"unsafe"

	"github.com/minisc-rt/minisc/internal/rtlog"
)

// MaxRootsPerFrame bounds how many handles a single RegisterRoots call may
// cover. It exists to catch accidental giant registrations early; unlike
// the original C implementation it is not load-bearing for safety, since
// frames here are ordinary Go-heap data rather than words carved out of the
// simulated arena (see rootFrame below).
const MaxRootsPerFrame = 10

// rootFrame is a LIFO record of client-owned Handle slots. Frames chain
// through next so the collector's mandatory root hook can walk the whole
// stack. Deliberately NOT stored inside the simulated semispace arena:
// doing so would mean stashing raw addresses of (possibly stack-resident)
// Go variables as bare words, which Go's stack-growth pointer rewriting
// cannot see or fix up. Keeping the chain as ordinary *Handle-typed Go data
// lets Go's own garbage collector track those addresses correctly even if
// the underlying variables move during a stack grow, while the mandatory
// hook (relocateFrames) still does exactly the relocation work the
// spec's external-roots frame describes.
type rootFrame struct {
	roots []*Handle
	next  *rootFrame
}

// Heap is a semispace, copying-collected store of tagged handles. A Heap is
// not safe for concurrent use: the runtime this package supports is
// strictly single-threaded and cooperative (one mutator, one collector,
// never running at once).
type Heap struct {
	active  []Word // to-space: bump-allocated into
	reserve []Word // from-space once a collection starts
	bump    int

	frames *rootFrame
	hooks  []func()

	stressGC     bool
	errorHandler func(error)
	logger       rtlog.Logger
	collecting   bool
}

// HeapOption configures a Heap at construction.
type HeapOption func(*Heap)

// WithStressGC runs a full collection before every allocation when enabled.
// This is strictly a debugging aid for exercising "allocation may move the
// world" and is never enabled by default.
func WithStressGC(enabled bool) HeapOption {
	return func(h *Heap) { h.stressGC = enabled }
}

// WithErrorHandler installs the callback HandleError passes recoverable
// runtime errors to; without one, HandleError does nothing. It has no
// effect on FatalError, which always panics.
func WithErrorHandler(fn func(error)) HeapOption {
	return func(h *Heap) { h.errorHandler = fn }
}

// WithLogger overrides the Heap's logger. The default is a discard logger.
func WithLogger(l rtlog.Logger) HeapOption {
	return func(h *Heap) { h.logger = l }
}

// NewHeap allocates a Heap with two arenas of wordCap words each.
func NewHeap(wordCap int, opts ...HeapOption) *Heap {
	h := &Heap{
		active:  make([]Word, wordCap),
		reserve: make([]Word, wordCap),
		logger:  rtlog.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.RegisterRootHook(h.relocateFrames)
	return h
}

// FreeWords reports the number of unused words remaining in the active
// arena. It is monotonically non-decreasing in the amount of garbage a
// collection reclaims.
func (h *Heap) FreeWords() int {
	return len(h.active) - h.bump
}

// RegisterRoots pushes a new root frame covering hs and returns a function
// that pops exactly that frame. Frames must be popped in reverse
// registration order -- callers should immediately `defer pop()`.
//
// Every *Handle passed in must already hold NIL or a valid handle: the
// caller is responsible for zeroing storage before registering it, since a
// collection triggered before the first real assignment would otherwise
// relocate (or fail to recognize) garbage bits.
func (h *Heap) RegisterRoots(hs ...*Handle) (pop func(), err error) {
	if len(hs) > MaxRootsPerFrame {
		return nil, &RootsError{Requested: len(hs), Max: MaxRootsPerFrame}
	}
	frame := &rootFrame{roots: append([]*Handle(nil), hs...), next: h.frames}
	h.frames = frame
	popped := false
	return func() {
		if popped {
			return
		}
		popped = true
		if h.frames != frame {
			h.fatalf("root frames popped out of order")
		}
		h.frames = frame.next
	}, nil
}

// RegisterRootHook installs a process-wide callback invoked at the start of
// every collection, used by subsystems (the VM) that keep live handles in
// storage outside any root frame.
func (h *Heap) RegisterRootHook(fn func()) {
	h.hooks = append(h.hooks, fn)
}

// relocateFrames is the mandatory root hook: it walks the root-frame chain
// and relocates every handle each frame covers.
func (h *Heap) relocateFrames() {
	for f := h.frames; f != nil; f = f.next {
		for _, slot := range f.roots {
			h.Relocate(slot)
		}
	}
}

// tryAlloc bump-allocates n words from the active arena without
// collecting. It is the only allocation path RegisterRoots itself could
// ever need, and since RegisterRoots never allocates from the simulated
// heap at all (see rootFrame), this fast path is reserved purely for Alloc
// and the collector's own copying step.
func (h *Heap) tryAlloc(n int) unsafe.Pointer {
	if h.bump+n > len(h.active) {
		return nil
	}
	addr := unsafe.Pointer(&h.active[h.bump])
	h.bump += n
	return addr
}

// Alloc reserves n words (including the header) and stamps ops into the
// header. Contents besides the header are unspecified: callers must
// initialize every handle-typed slot to NIL before any further allocation.
func (h *Heap) Alloc(ops *ObjectOps, n int) Handle {
	if h.stressGC && !h.collecting {
		h.Collect()
	}
	addr := h.tryAlloc(n)
	if addr == nil {
		h.Collect()
		addr = h.tryAlloc(n)
		if addr == nil {
			h.grow(n)
			addr = h.tryAlloc(n)
			if addr == nil {
				h.fatalf("out of memory after arena growth")
			}
		}
	}
	setHeader(addr, ops)
	return handleFromAddr(addr)
}

// inReserve reports whether addr falls within the current from-space
// bounds. An address outside those bounds is either a broken-heart's
// forwarding target already copied to to-space this cycle, or storage the
// collector doesn't own at all.
func (h *Heap) inReserve(addr unsafe.Pointer) bool {
	if len(h.reserve) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(&h.reserve[0]))
	limit := base + uintptr(len(h.reserve))*wordSize
	p := uintptr(addr)
	return p >= base && p < limit
}

// Relocate rewrites *hp in place if it is a from-space heap pointer: it
// copies the pointee to to-space on first visit (stamping a broken-heart at
// the old location) or follows an existing forwarding pointer on a repeat
// visit. Integer and external-pointer handles, NIL, and anything outside
// from-space bounds are left untouched.
func (h *Heap) Relocate(hp *Handle) {
	v := *hp
	if !v.IsPointer() || v.IsNil() {
		return
	}
	addr := v.addr()
	if !h.inReserve(addr) {
		return
	}
	ops := header(addr)
	if ops == brokenHeart {
		*hp = HandleAt(addr, 0)
		return
	}
	if ops == nil {
		h.fatalf("relocate: object at %p has a nil ops pointer", addr)
	}
	n := ops.SizeWords(h, addr)
	dst := h.tryAlloc(n)
	if dst == nil {
		h.fatalf("relocate: to-space exhausted mid-collection")
	}
	copyWords(dst, addr, n)
	fwd := handleFromAddr(dst)
	setHeader(addr, brokenHeart)
	SetHandleAt(addr, 0, fwd)
	*hp = fwd
}

func copyWords(dst, src unsafe.Pointer, n int) {
	d := unsafe.Slice((*Word)(dst), n)
	s := unsafe.Slice((*Word)(src), n)
	copy(d, s)
}

// Collect runs one Cheney-style copying collection to completion.
func (h *Heap) Collect() {
	if h.collecting {
		h.fatalf("reentrant collection")
	}
	h.collecting = true
	defer func() { h.collecting = false }()

	before := h.FreeWords()

	h.active, h.reserve = h.reserve, h.active
	h.bump = 0

	for _, hook := range h.hooks {
		hook()
	}

	scan := 0
	for scan < h.bump {
		addr := unsafe.Pointer(&h.active[scan])
		ops := header(addr)
		if ops == nil {
			h.fatalf("collect: object at scan offset %d has a nil ops pointer", scan)
		}
		ops.RelocateChildren(h, addr)
		n := ops.SizeWords(h, addr)
		scan += n
		if scan > len(h.active) {
			h.fatalf("collect: scan ran off the end of to-space")
		}
	}

	for i := range h.reserve {
		h.reserve[i] = 0
	}

	h.logger.Debugf("gc: collected, freed %d words (active=%d words)", h.FreeWords()-before, len(h.active))
}

// grow doubles (repeatedly, if needed) the arena capacity so at least need
// additional words become available, then collects into the grown
// to-space.
func (h *Heap) grow(need int) {
	newCap := len(h.active)
	if newCap == 0 {
		newCap = 1
	}
	for newCap-len(h.active) < need {
		newCap <<= 1
	}
	h.logger.Infof("gc: growing arenas from %d to %d words", len(h.active), newCap)
	h.reserve = make([]Word, newCap)
	h.Collect()
	h.reserve = make([]Word, len(h.active))
}

// HandleError routes a recoverable runtime error (not a FatalError) through
// the installed error handler, if any. The objects and vm packages do not
// call it: objects returns typed errors, and the vm package reports them
// through its own handler (vm.WithErrorHandler).
func (h *Heap) HandleError(err error) {
	if h.errorHandler != nil {
		h.errorHandler(err)
	}
}

// Logger exposes the Heap's logger so other packages built on top of it
// (the VM, the CLI) can share one sink instead of constructing their own.
func (h *Heap) Logger() rtlog.Logger {
	return h.logger
}
