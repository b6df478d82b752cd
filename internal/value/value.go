// Package value implements Alore's tagged-value representation (spec
// §3.1, §4.1): short/long integers, floats, narrow/wide/substrings,
// fix-arrays, instances, types, functions, and the pair/range "mixed"
// kind, plus the Nil/True/False/Default/Error sentinels.
//
// A Value is modeled as a Go interface rather than a literal packed
// machine word — idiomatic Go has no portable way to steal tag bits
// from a pointer — but every concrete type below preserves the
// invariants spec.md §3.1 demands of the original word encoding:
// a value's concrete Go type uniquely identifies its Kind (except the
// Nil/True/False/Default/Error sentinels, which share *Sentinel and
// carry their Kind in a field), and
// short-int arithmetic overflow promotes to LongInt exactly as if the
// two low tag bits of a machine word had been exhausted.
package value

// Kind names the concrete variety of a Value, standing in for the tag
// bits of the original word encoding.
type Kind uint8

const (
	KindShortInt Kind = iota
	KindLongInt
	KindFloat
	KindNarrowStr
	KindWideStr
	KindSubStr
	KindFixArray
	KindInstance
	KindType
	KindFunction
	KindConstant
	KindBoundMethod
	KindPair
	KindRange
	KindNil
	KindTrue
	KindFalse
	KindDefault
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindShortInt:
		return "ShortInt"
	case KindLongInt:
		return "LongInt"
	case KindFloat:
		return "Float"
	case KindNarrowStr:
		return "NarrowStr"
	case KindWideStr:
		return "WideStr"
	case KindSubStr:
		return "SubStr"
	case KindFixArray:
		return "FixArray"
	case KindInstance:
		return "Instance"
	case KindType:
		return "Type"
	case KindFunction:
		return "Function"
	case KindConstant:
		return "Constant"
	case KindBoundMethod:
		return "BoundMethod"
	case KindPair:
		return "Pair"
	case KindRange:
		return "Range"
	case KindNil:
		return "Nil"
	case KindTrue:
		return "True"
	case KindFalse:
		return "False"
	case KindDefault:
		return "Default"
	case KindError:
		return "Error"
	}
	return "Unknown"
}

// Value is any Alore runtime value. Every concrete type in this
// package implements it; types.Instance and types.TypeInfo implement
// TypeRef (below) and are wrapped by Instance/TypeValue here to avoid
// an import cycle between value and types.
type Value interface {
	Kind() Kind
}

// TypeRef is the minimal view of a type object that the value package
// needs: enough to wrap a TypeInfo into a Value without depending on
// package types (which depends on value for Value itself).
type TypeRef interface {
	TypeName() string
}

// Sentinel implements the four singleton non-integer sentinels Nil,
// True, False, Default, plus the Error propagation marker.
type Sentinel struct {
	kind Kind
	name string
}

func (s *Sentinel) Kind() Kind   { return s.kind }
func (s *Sentinel) String() string { return s.name }

var (
	Nil     = &Sentinel{kind: KindNil, name: "Nil"}
	True    = &Sentinel{kind: KindTrue, name: "True"}
	False   = &Sentinel{kind: KindFalse, name: "False"}
	Default = &Sentinel{kind: KindDefault, name: "Default"}
	// Error is the sentinel a C-implemented method returns to signal
	// that a non-direct exception is pending on the current thread
	// (spec §4.4 "Propagation policy"); the caller must test for it.
	Error = &Sentinel{kind: KindError, name: "Error"}
)

// Bool returns True or False for a Go bool, the canonical boxing used
// throughout the interpreter's comparison opcodes.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// IsTruthy implements Alore's notion of a Boolean condition: only
// True/False participate; any other kind reaching a condition opcode
// is a TypeError at the call site, not decided here.
func IsTruthy(v Value) (truth bool, ok bool) {
	switch v {
	case True:
		return true, true
	case False:
		return false, true
	}
	return false, false
}

// TypeValue is the heap "type" kind: a Value wrapping a TypeRef
// (either a types.TypeInfo for a class/interface, or a primitive
// wrapper describing Int/Str/Float/etc., per spec §3.3).
type TypeValue struct {
	Info TypeRef
}

func (t *TypeValue) Kind() Kind { return KindType }

// Instance is a heap instance block: a pointer to its TypeRef plus its
// Value slots and any extra raw data bytes (spec §3.2, §3.3).
type Instance struct {
	Type TypeRef
	// Slots holds the type's declared Value-typed members, in
	// declaration order; a fresh instance has every slot set to Nil.
	Slots []Value
	// Raw holds extra non-pointer data bytes the compiler reserved
	// for this type (TypeInfo.has-external-data-size).
	Raw []byte
}

func (i *Instance) Kind() Kind { return KindInstance }

// NewInstance allocates a zeroed instance: every Value slot set to
// Nil, every raw byte zero, per spec §4.4's CALL_* constructor setup.
func NewInstance(t TypeRef, numSlots, rawSize int) *Instance {
	slots := make([]Value, numSlots)
	for i := range slots {
		slots[i] = Nil
	}
	var raw []byte
	if rawSize > 0 {
		raw = make([]byte, rawSize)
	}
	return &Instance{Type: t, Slots: slots, Raw: raw}
}

// Function is a heap function reference: either a global bytecode
// function (by global index, resolved by the interpreter) or a
// C/Go-native function pointer.
type Function struct {
	GlobalIndex int
	Native      NativeFunc
	Name        string
}

func (f *Function) Kind() Kind { return KindFunction }

// NativeFunc is the signature for a Go-implemented builtin. It
// follows the "non-direct" exception convention (spec §4.4,
// "Propagation policy"): a failure returns a non-nil *rterror.Error.
// It is defined in terms of Value/any so this package need not import
// rterror's error value concretely — callers import both.
type NativeFunc func(args []Value) (Value, error)

// Constant is a symbolic singleton compared by identity (pointer
// equality), used for enum-like built-in constants (spec §3.1).
type Constant struct {
	Name string
}

func (c *Constant) Kind() Kind { return KindConstant }
