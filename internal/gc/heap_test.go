package gc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// cellOps is a minimal two-handle-slot object kind used to exercise the
// collector without depending on the objects package (which itself depends
// on gc). It mirrors the original implementation's sc_cons layout: a header
// plus two handle fields.
var cellOps = &ObjectOps{
	Name: "test-cell",
	SizeWords: func(h *Heap, addr unsafe.Pointer) int {
		return 3 // header + car + cdr
	},
	RelocateChildren: func(h *Heap, addr unsafe.Pointer) {
		car := HandleAt(addr, 0)
		h.Relocate(&car)
		SetHandleAt(addr, 0, car)
		cdr := HandleAt(addr, 1)
		h.Relocate(&cdr)
		SetHandleAt(addr, 1, cdr)
	},
}

func allocCell(h *Heap) Handle {
	hdl := h.Alloc(cellOps, 3)
	SetHandleAt(hdl.addr(), 0, NIL)
	SetHandleAt(hdl.addr(), 1, NIL)
	return hdl
}

func cellCar(hdl Handle) Handle { return HandleAt(hdl.addr(), 0) }
func cellCdr(hdl Handle) Handle { return HandleAt(hdl.addr(), 1) }
func setCellCar(hdl, v Handle)  { SetHandleAt(hdl.addr(), 0, v) }
func setCellCdr(hdl, v Handle)  { SetHandleAt(hdl.addr(), 1, v) }

func TestHandleTagging(t *testing.T) {
	i := MakeInteger(1024)
	require.True(t, i.IsInteger())
	require.False(t, i.IsPointer())
	require.False(t, i.IsExternal())
	require.Equal(t, int64(1024), i.IntegerValue())

	neg := MakeInteger(-7777)
	require.Equal(t, int64(-7777), neg.IntegerValue())

	ext := MakeExternal(42)
	require.True(t, ext.IsExternal())
	require.Equal(t, uint64(42), ext.ExternalValue())

	require.True(t, NIL.IsPointer())
	require.True(t, NIL.IsNil())
}

func TestAllocSurvivesCollection(t *testing.T) {
	h := NewHeap(256)

	a := allocCell(h)
	setCellCar(a, MakeInteger(32))

	pop, err := h.RegisterRoots(&a)
	require.NoError(t, err)
	defer pop()

	h.Collect()

	require.Equal(t, int64(32), cellCar(a).IntegerValue())
	require.True(t, cellCdr(a).IsNil())
}

func TestCycleSurvivesCollection(t *testing.T) {
	h := NewHeap(256)

	p := allocCell(h)
	setCellCar(p, p)
	setCellCdr(p, p)

	pop, err := h.RegisterRoots(&p)
	require.NoError(t, err)
	defer pop()

	h.Collect()
	h.Collect()

	require.Equal(t, p, cellCar(p))
	require.Equal(t, p, cellCdr(p))
}

func TestCollectReclaimsGarbage(t *testing.T) {
	h := NewHeap(64)

	live := allocCell(h)
	pop, err := h.RegisterRoots(&live)
	require.NoError(t, err)
	defer pop()

	before := h.FreeWords()
	for i := 0; i < 10; i++ {
		allocCell(h) // garbage: never rooted
	}
	require.Less(t, h.FreeWords(), before)

	h.Collect()
	require.Equal(t, before, h.FreeWords()) // garbage reclaimed, only `live` remains
}

func TestRegisterRootsRejectsTooMany(t *testing.T) {
	h := NewHeap(64)
	hs := make([]*Handle, MaxRootsPerFrame+1)
	for i := range hs {
		v := NIL
		hs[i] = &v
	}
	_, err := h.RegisterRoots(hs...)
	require.Error(t, err)
	var re *RootsError
	require.ErrorAs(t, err, &re)
}

func TestRootFramesPopInOrder(t *testing.T) {
	h := NewHeap(64)
	a, b := NIL, NIL
	popA, err := h.RegisterRoots(&a)
	require.NoError(t, err)
	_, err = h.RegisterRoots(&b)
	require.NoError(t, err)

	require.Panics(t, func() { popA() })
}

func TestRootHookRelocatesExternalStorage(t *testing.T) {
	h := NewHeap(64)

	var stash Handle = allocCell(h)
	setCellCar(stash, MakeInteger(99))

	h.RegisterRootHook(func() { h.Relocate(&stash) })

	h.Collect()

	require.Equal(t, int64(99), cellCar(stash).IntegerValue())
}

func TestAllocationTriggersCollectionAndGrowth(t *testing.T) {
	h := NewHeap(256)

	var keep Handle
	keep = allocCell(h)
	pop, err := h.RegisterRoots(&keep)
	require.NoError(t, err)
	defer pop()

	for i := 0; i < 2000; i++ {
		allocCell(h)
	}

	big := h.Alloc(cellOps, 8192)
	require.False(t, big.IsNil())
	require.Greater(t, len(h.active), 256)
	require.GreaterOrEqual(t, h.FreeWords(), 0)
}

func TestStressGCCollectsOnEveryAlloc(t *testing.T) {
	h := NewHeap(256, WithStressGC(true))

	p := allocCell(h)
	setCellCar(p, p)
	setCellCdr(p, p)
	pop, err := h.RegisterRoots(&p)
	require.NoError(t, err)
	defer pop()

	for i := 0; i < 50; i++ {
		allocCell(h)
	}

	require.Equal(t, p, cellCar(p))
	require.Equal(t, p, cellCdr(p))
}

func TestFatalOnReentrantCollection(t *testing.T) {
	h := NewHeap(64)
	h.RegisterRootHook(func() {
		require.Panics(t, func() { h.Collect() })
	})
	h.Collect()
}
