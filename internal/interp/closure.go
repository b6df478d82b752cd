package interp

import "alore.dev/runtime/internal/value"

// Closure is the runtime representation of an anonymous function
// (spec §4.4 "Closures"): a global implementation function plus the
// fix-array of captured "cells" created by OpCreateExposed at the
// enclosing scope. Calling a Closure prepends its cells to the user's
// arguments before invoking GlobalIndex.
//
// Closure reuses value.KindFunction: to the rest of the runtime it is
// just another callable Function-kind value; only the interpreter's
// call dispatch needs to know it carries captured cells.
type Closure struct {
	GlobalIndex int
	Cells       value.FixArray
}

func (Closure) Kind() value.Kind { return value.KindFunction }

// bindCaptures prepends c's captured cells to userArgs, the argument
// list that actually reaches the global function's bindArgs call
// (spec §4.4: "whose _call prepends the cells to user arguments").
func (c Closure) bindCaptures(userArgs []value.Value) []value.Value {
	out := make([]value.Value, 0, len(c.Cells)+len(userArgs))
	out = append(out, c.Cells...)
	out = append(out, userArgs...)
	return out
}
