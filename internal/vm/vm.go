// Package vm implements the stack-based bytecode interpreter: an operand
// stack, a chain of lexical environment frames, and a switch-based
// dispatch loop over internal/bytecode's opcode set. Grounded in structure
// (not semantics -- the original register-based vm.c/vm_ops.h is
// superseded by this stack design) on wazero's callEngine dispatch loop in
// internal/engine/interpreter/interpreter.go: a flat operand stack, a
// single large switch on the decoded instruction, and typed errors
// surfaced at the call boundary rather than ad hoc panics.
package vm

import (
	"context"
	"fmt"

	"github.com/minisc-rt/minisc/internal/bytecode"
	"github.com/minisc-rt/minisc/internal/objects"
	"github.com/minisc-rt/minisc/internal/rtlog"
)

// Handle is re-exported for callers that otherwise only need the vm
// package.
type Handle = objects.Handle

// VM executes one bytecode program against a single Store/Heap. It is not
// safe for concurrent use.
type VM struct {
	Code []byte
	IP   int
	Env  Handle

	stack []Handle
	top   int

	store        *objects.Store
	errorHandler func(*Error)
	logger       rtlog.Logger
	halted       bool

	callDepth    int
	maxCallDepth int // 0 means unlimited
}

// Option configures a VM at construction.
type Option func(*VM)

// WithErrorHandler installs a callback invoked (in addition to Step still
// returning the error) whenever a recoverable VM error occurs.
func WithErrorHandler(fn func(*Error)) Option {
	return func(v *VM) { v.errorHandler = fn }
}

// WithLogger overrides the VM's logger. The default is a discard logger.
func WithLogger(l rtlog.Logger) Option {
	return func(v *VM) { v.logger = l }
}

// WithMaxCallDepth bounds INVOKE_PROCEDURE nesting into closures: once
// depth outstanding calls are pending, a further call fails with a
// KindBounds error rather than growing state without limit. Depth is
// tracked by counting closure invocations against JMP, the instruction
// every compiled return uses; 0 (the default) means unlimited.
func WithMaxCallDepth(depth int) Option {
	return func(v *VM) { v.maxCallDepth = depth }
}

// New constructs a VM over code, with an operand stack of stackCap slots
// and the top-level environment env. It registers the root hook that
// keeps Env and every live stack slot visible to store's collector.
func New(store *objects.Store, code []byte, env Handle, stackCap int, opts ...Option) *VM {
	v := &VM{
		Code:  code,
		Env:   env,
		stack: make([]Handle, stackCap),
		store: store,
		logger: rtlog.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	store.Heap.RegisterRootHook(func() {
		store.Heap.Relocate(&v.Env)
		for i := 0; i < v.top; i++ {
			store.Heap.Relocate(&v.stack[i])
		}
	})
	return v
}

// SetIP jumps execution to offset. Used by a host to call into a
// previously loaded procedure's entry point.
func (v *VM) SetIP(offset int) { v.IP = offset }

// Terminated reports whether the program has reached a QUIT instruction.
func (v *VM) Terminated() bool { return v.halted }

// Push pushes a value onto the operand stack.
func (v *VM) Push(h Handle) error {
	if v.top >= len(v.stack) {
		return &Error{Op: "push", Kind: KindBounds, Err: fmt.Errorf("stack overflow (capacity %d)", len(v.stack))}
	}
	v.stack[v.top] = h
	v.top++
	return nil
}

// Pop removes and returns the top of the operand stack.
func (v *VM) Pop() (Handle, error) {
	if v.top == 0 {
		return objects.NIL, &Error{Op: "pop", Kind: KindBounds, Err: fmt.Errorf("stack underflow")}
	}
	v.top--
	h := v.stack[v.top]
	v.stack[v.top] = objects.NIL
	return h, nil
}

// Top returns the value on top of the operand stack without removing it.
func (v *VM) Top() (Handle, error) {
	if v.top == 0 {
		return objects.NIL, &Error{Op: "top", Kind: KindBounds, Err: fmt.Errorf("stack underflow")}
	}
	return v.stack[v.top-1], nil
}

func (v *VM) popInt(op string) (int64, error) {
	h, err := v.Pop()
	if err != nil {
		return 0, err
	}
	n, nerr := v.store.Number(h)
	if nerr != nil {
		return 0, wrap(op, nerr)
	}
	return n, nil
}

// Run executes Step repeatedly until the program terminates, an error
// occurs, or ctx is canceled. ctx is checked only between instructions,
// never inside a single Step or a collection.
func (v *VM) Run(ctx context.Context) error {
	for !v.Terminated() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := v.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step decodes and executes exactly one instruction. It returns a non-nil
// *Error (after routing it through the installed error handler) on a
// typecheck, bounds, arity, or divide-by-zero failure. A gc.FatalError is
// never caught here: it propagates as a panic, matching the policy that
// internal GC inconsistencies are implementation bugs, not program errors.
func (v *VM) Step() error {
	if v.halted {
		return nil
	}
	instr, err := bytecode.Decode(v.Code, v.IP)
	if err != nil {
		return v.fail(&Error{Op: "decode", Kind: KindTypeCheck, Err: err})
	}
	next := v.IP + instr.Op.InstrLen()
	v.IP = next

	if err := v.dispatch(instr, next); err != nil {
		var ve *Error
		if as, ok := err.(*Error); ok {
			ve = as
		} else {
			ve = &Error{Op: instr.Op.String(), Kind: KindTypeCheck, Err: err}
		}
		return v.fail(ve)
	}
	return nil
}

func (v *VM) fail(e *Error) error {
	if v.errorHandler != nil {
		v.errorHandler(e)
	}
	return e
}

func (v *VM) dispatch(instr bytecode.Instr, next int) error {
	s := v.store
	switch instr.Op {
	case bytecode.Nop:
		// no-op

	case bytecode.PushInt:
		return v.Push(objects.MakeNumber(int64(instr.Imm)))

	case bytecode.Pop:
		_, err := v.Pop()
		return err

	case bytecode.Dup:
		top, err := v.Top()
		if err != nil {
			return err
		}
		return v.Push(top)

	case bytecode.Swap:
		a, err := v.Pop()
		if err != nil {
			return err
		}
		b, err := v.Pop()
		if err != nil {
			return err
		}
		if err := v.Push(a); err != nil {
			return err
		}
		return v.Push(b)

	case bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div:
		return v.arith(instr.Op)

	case bytecode.Cons:
		if v.top < 2 {
			return &Error{Op: "CONS", Kind: KindBounds, Err: fmt.Errorf("stack underflow")}
		}
		// car and cdr still sit on the operand stack here, covered by the
		// root hook registered in New. Cons takes no arguments, so
		// allocating before popping them means a collection mid-alloc
		// relocates them in place; popping first would leave them as
		// unrooted Go locals across the allocation.
		pair := s.Cons()
		cdr, err := v.Pop()
		if err != nil {
			return err
		}
		car, err := v.Pop()
		if err != nil {
			return err
		}
		_ = s.SetCar(pair, car)
		_ = s.SetCdr(pair, cdr)
		return v.Push(pair)

	case bytecode.Car:
		c, err := v.Pop()
		if err != nil {
			return err
		}
		r, err := s.Car(c)
		if err != nil {
			return wrap("CAR", err)
		}
		return v.Push(r)

	case bytecode.Cdr:
		c, err := v.Pop()
		if err != nil {
			return err
		}
		r, err := s.Cdr(c)
		if err != nil {
			return wrap("CDR", err)
		}
		return v.Push(r)

	case bytecode.SetCar:
		val, err := v.Pop()
		if err != nil {
			return err
		}
		c, err := v.Pop()
		if err != nil {
			return err
		}
		return wrap("SET_CAR", s.SetCar(c, val))

	case bytecode.SetCdr:
		val, err := v.Pop()
		if err != nil {
			return err
		}
		c, err := v.Pop()
		if err != nil {
			return err
		}
		return wrap("SET_CDR", s.SetCdr(c, val))

	case bytecode.MakeVector:
		n, err := v.popInt("MAKE_VECTOR")
		if err != nil {
			return err
		}
		return v.Push(s.MakeVector(int(n)))

	case bytecode.VectorRef:
		idx, err := v.popInt("VECTOR_REF")
		if err != nil {
			return err
		}
		vec, err := v.Pop()
		if err != nil {
			return err
		}
		r, err := s.VectorRef(vec, int(idx))
		if err != nil {
			return wrap("VECTOR_REF", err)
		}
		return v.Push(r)

	case bytecode.VectorSet:
		val, err := v.Pop()
		if err != nil {
			return err
		}
		idx, err := v.popInt("VECTOR_SET")
		if err != nil {
			return err
		}
		vec, err := v.Pop()
		if err != nil {
			return err
		}
		return wrap("VECTOR_SET", s.VectorSet(vec, int(idx), val))

	case bytecode.ExtendEnv:
		n := int(instr.Imm)
		if v.top < n {
			return &Error{Op: "EXTEND_ENV", Kind: KindBounds, Err: fmt.Errorf("stack underflow")}
		}
		// The n bound values still sit on the operand stack, covered by
		// the root hook, while ExtendEnv allocates the frame. Only once
		// the frame exists do we drain them off -- Pop and EnvSet never
		// allocate, so nothing goes unrooted in that loop.
		frame := s.ExtendEnv(v.Env, objects.NIL, n)
		for i := n - 1; i >= 0; i-- {
			a, err := v.Pop()
			if err != nil {
				return err
			}
			_ = s.EnvSet(frame, i, a)
		}
		v.Env = frame
		return nil

	case bytecode.EnvParent:
		env, err := v.Pop()
		if err != nil {
			return err
		}
		parent, err := s.EnvParent(env)
		if err != nil {
			return wrap("ENV_PARENT", err)
		}
		return v.Push(parent)

	case bytecode.EnvRef:
		dist, err := v.popInt("ENV_REF")
		if err != nil {
			return err
		}
		idx, err := v.popInt("ENV_REF")
		if err != nil {
			return err
		}
		frame, err := v.ancestor(dist)
		if err != nil {
			return err
		}
		r, err := s.EnvRef(frame, int(idx))
		if err != nil {
			return wrap("ENV_REF", err)
		}
		return v.Push(r)

	case bytecode.EnvSet:
		val, err := v.Pop()
		if err != nil {
			return err
		}
		dist, err := v.popInt("ENV_SET")
		if err != nil {
			return err
		}
		idx, err := v.popInt("ENV_SET")
		if err != nil {
			return err
		}
		frame, err := v.ancestor(dist)
		if err != nil {
			return err
		}
		return wrap("ENV_SET", s.EnvSet(frame, int(idx), val))

	case bytecode.EnvLookup:
		sym, err := v.Pop()
		if err != nil {
			return err
		}
		r, err := s.EnvLookup(v.Env, sym)
		if err != nil {
			return wrap("ENV_LOOKUP", err)
		}
		return v.Push(r)

	case bytecode.ConsP:
		return v.pushPredicate(objects.IsPair)
	case bytecode.NumberP:
		return v.pushPredicate(objects.IsNumber)
	case bytecode.VectorP:
		return v.pushPredicate(objects.IsVector)
	case bytecode.BooleanP:
		return v.pushPredicate(objects.IsBoolean)
	case bytecode.NullP:
		return v.pushPredicate(objects.IsNull)
	case bytecode.ProcedureP:
		return v.pushPredicate(objects.IsProcedure)

	case bytecode.Branch:
		v.IP = next + int(instr.Imm)
		return nil

	case bytecode.Jt:
		pred, err := v.Pop()
		if err != nil {
			return err
		}
		if s.Truthy(pred) {
			v.IP = next + int(instr.Imm)
		}
		return nil

	case bytecode.Jmp:
		target, err := v.Pop()
		if err != nil {
			return err
		}
		off, err := s.ExternalPointerOffset(target)
		if err != nil {
			return wrap("JMP", err)
		}
		v.IP = off
		if v.callDepth > 0 {
			v.callDepth--
		}
		return nil

	case bytecode.PushAddr:
		return v.Push(objects.MakeExternalPointer(next + int(instr.Imm)))

	case bytecode.MakeClosure:
		arity, err := v.popInt("MAKE_CLOSURE")
		if err != nil {
			return err
		}
		clo := s.MakeClosure(v.Env, next+int(instr.Imm), objects.NIL, int(arity))
		return v.Push(clo)

	case bytecode.InvokeProcedure:
		return v.invokeProcedure(next)

	case bytecode.Quit:
		v.halted = true
		return nil

	default:
		return fmt.Errorf("vm: unimplemented opcode %s", instr.Op)
	}
	return nil
}

func (v *VM) pushPredicate(pred func(Handle) bool) error {
	h, err := v.Pop()
	if err != nil {
		return err
	}
	return v.Push(v.store.ToBool(pred(h)))
}

func (v *VM) ancestor(dist int64) (Handle, error) {
	frame := v.Env
	for i := int64(0); i < dist; i++ {
		p, err := v.store.EnvParent(frame)
		if err != nil {
			return objects.NIL, wrap("env-ref", err)
		}
		frame = p
	}
	return frame, nil
}

func (v *VM) arith(op bytecode.Op) error {
	rhs, err := v.Pop()
	if err != nil {
		return err
	}
	lhs, err := v.Pop()
	if err != nil {
		return err
	}
	var result Handle
	var aerr error
	switch op {
	case bytecode.Add:
		result, aerr = v.store.Add(lhs, rhs)
	case bytecode.Sub:
		result, aerr = v.store.Sub(lhs, rhs)
	case bytecode.Mul:
		result, aerr = v.store.Mul(lhs, rhs)
	case bytecode.Div:
		result, aerr = v.store.Div(lhs, rhs)
	}
	if aerr != nil {
		return wrap(op.String(), aerr)
	}
	return v.Push(result)
}

// invokeProcedure implements the calling convention: the caller has
// already pushed its arguments, then their count (an inline integer), and
// finally the callee on top of those. INVOKE_PROCEDURE pops
// callee, argcount, and the arguments, checks argcount against the
// callee's declared arity, and either calls a builtin directly or enters
// a closure by pushing a return address and jumping to its entry point. A
// return is compiled as `Swap; Jmp`.
func (v *VM) invokeProcedure(next int) error {
	s := v.store

	callee, err := v.Pop()
	if err != nil {
		return err
	}
	argCount, err := v.popInt("INVOKE_PROCEDURE")
	if err != nil {
		return err
	}
	n := int(argCount)
	if v.top < n {
		return &Error{Op: "INVOKE_PROCEDURE", Kind: KindBounds, Err: fmt.Errorf("stack underflow")}
	}

	switch {
	case objects.IsBuiltin(callee):
		arity, _ := s.BuiltinArity(callee)
		if arity != n {
			return wrap("INVOKE_PROCEDURE", &objects.ArityError{Want: arity, Got: n})
		}
		args := make([]Handle, n)
		for i := n - 1; i >= 0; i-- {
			a, err := v.Pop()
			if err != nil {
				return err
			}
			args[i] = a
		}
		result, err := s.CallBuiltin(callee, args)
		if err != nil {
			return wrap("INVOKE_PROCEDURE", err)
		}
		return v.Push(result)

	case objects.IsClosure(callee):
		arity, _ := s.ClosureArity(callee)
		if arity != n {
			return wrap("INVOKE_PROCEDURE", &objects.ArityError{Want: arity, Got: n})
		}
		if v.maxCallDepth > 0 && v.callDepth >= v.maxCallDepth {
			return &Error{Op: "INVOKE_PROCEDURE", Kind: KindBounds, Err: fmt.Errorf("call depth exceeded (max %d)", v.maxCallDepth)}
		}
		v.callDepth++
		env, _ := s.ClosureEnv(callee)
		code, _ := s.ClosureCode(callee)

		// The n arguments still sit on the operand stack, covered by the
		// root hook, so extend the frame -- the only allocation on this
		// path -- before draining them off one at a time.
		frame := s.ExtendEnv(env, objects.NIL, n)
		for i := n - 1; i >= 0; i-- {
			a, err := v.Pop()
			if err != nil {
				return err
			}
			_ = s.EnvSet(frame, i, a)
		}

		if err := v.Push(objects.MakeExternalPointer(next)); err != nil {
			return err
		}
		v.Env = frame
		v.IP = code
		return nil

	default:
		return wrap("INVOKE_PROCEDURE", &objects.TypeError{Op: "invoke-procedure", Want: "procedure"})
	}
}
