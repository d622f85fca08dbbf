package objects

import "github.com/minisc-rt/minisc/internal/gc"

// hasOps reports whether h is a live (non-broken-heart) heap pointer whose
// header matches ops, mirroring sc_pointer_typep: identity is established
// by comparing ObjectOps pointers, never by a numeric tag.
func hasOps(h Handle, ops *gc.ObjectOps) bool {
	if !h.IsPointer() || h.IsNil() {
		return false
	}
	return gc.HeaderOps(gc.Addr(h)) == ops
}

func IsPair(h Handle) bool   { return hasOps(h, pairOps) }
func IsString(h Handle) bool { return hasOps(h, stringOps) }
func IsSymbol(h Handle) bool { return hasOps(h, symbolOps) }
func IsVector(h Handle) bool { return hasOps(h, vectorOps) }
func IsBoolean(h Handle) bool { return hasOps(h, booleanOps) }
func IsEnvironment(h Handle) bool { return hasOps(h, environmentOps) }
func IsClosure(h Handle) bool { return hasOps(h, closureOps) }
func IsBuiltin(h Handle) bool { return hasOps(h, builtinOps) }

// IsNumber reports whether h is an inline integer.
func IsNumber(h Handle) bool { return h.IsInteger() }

// IsExternalPointer reports whether h is a tagged code address.
func IsExternalPointer(h Handle) bool { return h.IsExternal() }

// IsNull reports whether h is the null handle.
func IsNull(h Handle) bool { return h.IsNil() }

// IsProcedure reports whether h is anything InvokeProcedure can call.
func IsProcedure(h Handle) bool { return IsClosure(h) || IsBuiltin(h) }
