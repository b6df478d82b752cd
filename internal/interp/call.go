package interp

import (
	"alore.dev/runtime/internal/container"
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/value"
)

// bindArgs implements the call-convention argument-binding algorithm
// (spec §4.4 "Call convention detail") into a fresh set of frame
// locals. Expansion of a caller's `*array` argument is the caller's
// responsibility (it flattens into args before reaching here, since
// it is a property of the call site's syntax, not the callee).
func bindArgs(code *CodeObject, args []value.Value) ([]value.Value, error) {
	n := len(args)
	if n < code.MinArgs || (!code.HasVarArgs && n > code.MaxArgs) {
		return nil, wrongArgCount(code, n)
	}

	locals := make([]value.Value, code.FrameSize)
	for i := range locals {
		locals[i] = value.Nil
	}

	fixed := code.MaxArgs
	if n < fixed {
		fixed = n
	}
	copy(locals[:fixed], args[:fixed])

	// Optional positional slots the caller didn't supply default to
	// the Default sentinel (spec §4.4: "receive Default where the
	// caller supplied none").
	for i := n; i < code.MaxArgs; i++ {
		locals[i] = value.Default
	}

	if code.HasVarArgs {
		var rest []value.Value
		if n > code.MaxArgs {
			rest = args[code.MaxArgs:]
		}
		locals[code.MaxArgs] = container.NewArray(rest...)
	}

	return locals, nil
}

func wrongArgCount(code *CodeObject, got int) error {
	return rterror.New(rterror.ValueError,
		"%s takes between %d and %d arguments (%d given)", code.Name, code.MinArgs, code.MaxArgs, got)
}
