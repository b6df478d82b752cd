package interp

import (
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/value"
)

// ExceptionValue boxes a Go error (always an *rterror.Error in
// practice) as a frame-local Value so RAISE_L, exception-table
// catches, and LEAVE_FINALLY can carry it through ordinary local
// slots (spec §4.4 "Exceptions").
type ExceptionValue struct{ Err error }

func (*ExceptionValue) Kind() value.Kind { return value.KindInstance }

func wrapErr(err error) *ExceptionValue { return &ExceptionValue{Err: err} }

// unwrapErr recovers the Go error from a raised Value, wrapping any
// user value that isn't already an ExceptionValue as a RuntimeError
// carrying its printed form (RAISE_L may raise an arbitrary instance,
// not only one built by this package).
func unwrapErr(v value.Value) error {
	if ev, ok := v.(*ExceptionValue); ok {
		return ev.Err
	}
	return rterror.New(rterror.RuntimeError, "%v", v)
}

// Finally leave-state codes for the three-slot LEAVE_FINALLY block
// (spec §4.4 "Finally clauses ... a three-slot state block (status,
// value, context-depth)").
const (
	finallyContinue = 0
	finallyReturn   = 1
	finallyRaise    = 2
)
