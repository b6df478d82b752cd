package types

import "alore.dev/runtime/internal/value"

// Wrappers holds the internal wrapper TypeInfo used for member
// dispatch on each primitive kind (spec §3.3: "Primitive types ...
// have both a public 'function-object type' ... and an internal
// wrapper TypeInfo used for member dispatch; symbol translation maps
// between them").
type Wrappers struct {
	Int, Str, Float, Range, Pair, Constant, Function, Type *TypeInfo
}

// NewWrappers builds the fixed set of primitive wrapper types, each
// with no supertype of its own (they sit directly below Object,
// installed by the caller once Object exists).
func NewWrappers() *Wrappers {
	mk := func(name string) *TypeInfo { return NewTypeInfo(name, nil) }
	return &Wrappers{
		Int:      mk("Int"),
		Str:      mk("Str"),
		Float:    mk("Float"),
		Range:    mk("Range"),
		Pair:     mk("Pair"),
		Constant: mk("Constant"),
		Function: mk("Function"),
		Type:     mk("Type"),
	}
}

// WrapperFor returns the wrapper TypeInfo for a primitive Value kind,
// or nil if v is not a primitive needing wrapping (instances already
// carry their own TypeInfo).
func (w *Wrappers) WrapperFor(v value.Value) *TypeInfo {
	switch v.(type) {
	case value.ShortInt, *value.LongInt:
		return w.Int
	case value.NarrowStr, value.WideStr, value.SubStr:
		return w.Str
	case value.Float:
		return w.Float
	case value.Range:
		return w.Range
	case value.Pair:
		return w.Pair
	case *value.Constant:
		return w.Constant
	case *value.Function:
		return w.Function
	case *value.TypeValue:
		return w.Type
	}
	return nil
}

// ReceiverType returns the TypeInfo that owns member dispatch for v:
// the instance's own type, or the matching primitive wrapper.
// Primitive values are not boxed: only the wrapper TypeInfo is
// returned, no single-slot wrapper instance is allocated, and the
// receiver passed on to the member stays the original value.
func ReceiverType(w *Wrappers, v value.Value) (*TypeInfo, bool) {
	if inst, ok := v.(*value.Instance); ok {
		ti, ok := inst.Type.(*TypeInfo)
		return ti, ok
	}
	return w.WrapperFor(v), w.WrapperFor(v) != nil
}

// NewBoundMethod allocates the one-allocation bound-method mixed
// value pairing receiver with the method's global function index
// (spec §4.3).
func NewBoundMethod(receiver value.Value, methodGlobalIndex int) value.Value {
	return value.BoundMethod{Receiver: receiver, MethodIndex: methodGlobalIndex}
}
