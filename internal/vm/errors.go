package vm

import (
	"fmt"

	"github.com/minisc-rt/minisc/internal/objects"
)

// Kind classifies a recoverable VM error so callers can switch on it
// without string-matching, following the teacher's convention of typed,
// inspectable runtime errors.
type Kind int

const (
	KindTypeCheck Kind = iota
	KindBounds
	KindArity
	KindDivideByZero
)

func (k Kind) String() string {
	switch k {
	case KindTypeCheck:
		return "type-check"
	case KindBounds:
		return "bounds"
	case KindArity:
		return "arity"
	case KindDivideByZero:
		return "divide-by-zero"
	default:
		return "unknown"
	}
}

// Error reports a recoverable failure executing one instruction: a
// typecheck, bounds, arity, or divide-by-zero condition. Internal GC
// inconsistencies are never wrapped here -- those are gc.FatalError
// panics, deliberately left to propagate rather than be caught and
// classified, since they indicate an implementation bug rather than a
// program error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("vm: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap classifies err (as returned by the object layer) into a *vm.Error
// tagged with the opcode name that produced it. Returns nil if err is nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	e := &Error{Op: op, Err: err}
	switch err.(type) {
	case *objects.BoundsError:
		e.Kind = KindBounds
	case *objects.ArityError:
		e.Kind = KindArity
	case *objects.DivideByZeroError:
		e.Kind = KindDivideByZero
	default:
		// *objects.TypeError and *objects.UnboundError (an unbound
		// variable is, in effect, a reference of the wrong kind) both
		// land here.
		e.Kind = KindTypeCheck
	}
	return e
}
