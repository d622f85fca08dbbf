// Package minisc ties the collector, object layer, symbol table, reader,
// printer, and bytecode VM into a single embeddable runtime, the way
// wazero's root package ties together its store, engine, and module
// builders behind one Runtime/RuntimeConfig pair.
package minisc

import (
	"context"
	"fmt"
	"io"

	"github.com/minisc-rt/minisc/internal/bytecode"
	"github.com/minisc-rt/minisc/internal/gc"
	"github.com/minisc-rt/minisc/internal/obarray"
	"github.com/minisc-rt/minisc/internal/objects"
	"github.com/minisc-rt/minisc/internal/printer"
	"github.com/minisc-rt/minisc/internal/reader"
	"github.com/minisc-rt/minisc/internal/vm"
)

// Runtime owns a heap, its object store, and an interned symbol table. It
// is the unit of isolation: two Runtimes share no state and no Handle from
// one is valid against the other.
type Runtime struct {
	Heap    *gc.Heap
	Store   *objects.Store
	Symbols *obarray.Obarray

	cfg *RuntimeConfig
}

// NewRuntime allocates a Heap and its Store/Obarray per cfg. A nil cfg is
// equivalent to NewRuntimeConfig().
func NewRuntime(cfg *RuntimeConfig) (*Runtime, error) {
	if cfg == nil {
		cfg = NewRuntimeConfig()
	}
	if cfg.arenaWords <= 0 {
		return nil, fmt.Errorf("minisc: arena word capacity must be positive, got %d", cfg.arenaWords)
	}
	if cfg.stackSize <= 0 {
		return nil, fmt.Errorf("minisc: stack size must be positive, got %d", cfg.stackSize)
	}

	logger := cfg.newLogger()
	heap := gc.NewHeap(cfg.arenaWords,
		gc.WithStressGC(cfg.stressGC),
		gc.WithLogger(logger),
	)
	store := objects.NewStore(heap)
	symbols := obarray.New(store)

	return &Runtime{Heap: heap, Store: store, Symbols: symbols, cfg: cfg}, nil
}

// NewReader opens a Reader over r, sharing this Runtime's Store and symbol
// table so interned symbols compare by handle identity across every form
// read from it.
func (rt *Runtime) NewReader(r io.Reader) *reader.Reader {
	return reader.New(rt.Store, rt.Symbols, r)
}

// Print renders h to w in the printer's textual syntax.
func (rt *Runtime) Print(w io.Writer, h objects.Handle) error {
	return printer.Print(w, rt.Store, h)
}

// String renders h to its textual syntax.
func (rt *Runtime) String(h objects.Handle) string {
	return printer.String(rt.Store, h)
}

// Assemble compiles a textual bytecode listing into the flat byte format
// NewVM executes.
func (rt *Runtime) Assemble(r io.Reader) ([]byte, error) {
	return bytecode.Assemble(r)
}

// NewVM constructs a VM over code, running against this Runtime's Store,
// with env as the initial top-level environment and an operand stack of
// the RuntimeConfig's configured stack size.
func (rt *Runtime) NewVM(code []byte, env objects.Handle, opts ...vm.Option) *vm.VM {
	if rt.cfg.maxCallDepth > 0 {
		opts = append(opts, vm.WithMaxCallDepth(rt.cfg.maxCallDepth))
	}
	if rt.cfg.errorHandler != nil {
		opts = append(opts, vm.WithErrorHandler(rt.cfg.errorHandler))
	}
	return vm.New(rt.Store, code, env, rt.cfg.stackSize, opts...)
}

// Run assembles and runs src as a complete program against a fresh
// top-level environment, returning whatever is left on top of the operand
// stack when the program reaches QUIT. It is a convenience for the `run`
// CLI subcommand and for tests; embedders wanting finer control should use
// Assemble and NewVM directly.
func (rt *Runtime) Run(ctx context.Context, src io.Reader) (objects.Handle, error) {
	code, err := rt.Assemble(src)
	if err != nil {
		return objects.NIL, fmt.Errorf("minisc: assemble: %w", err)
	}
	env := rt.Store.ExtendEnv(objects.NIL, objects.NIL, 0)
	machine := rt.NewVM(code, env)
	if err := machine.Run(ctx); err != nil {
		return objects.NIL, err
	}
	return machine.Top()
}
