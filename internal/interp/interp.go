package interp

import (
	"alore.dev/runtime/internal/concurrent"
	"alore.dev/runtime/internal/heap"
	"alore.dev/runtime/internal/rt"
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/types"
	"alore.dev/runtime/internal/value"
)

// Interpreter owns the pieces every running frame needs to reach:
// the global array, the compiled code backing bytecode globals (or
// nil, for native-backed ones), the primitive wrapper types for
// member dispatch, and the heap the call convention allocates through
// (spec §3.6, §4.3, §4.4).
type Interpreter struct {
	Globals []value.Value
	Code    []*CodeObject
	Natives map[int]value.NativeFunc

	Wrappers *types.Wrappers
	Heap     *heap.Heap

	// Freezer, when set, is consulted at every backward branch and
	// call site (spec §4.4 "Safepoint"); a nil Freezer (e.g. in unit
	// tests that don't spin up a full Runtime) simply skips the check.
	Freezer *concurrent.Freezer
	// Tracer logs throttled safepoint-check events under -T; a nil
	// Tracer (the default) traces nothing.
	Tracer *rt.SafepointTracer
	// MaxCallDepth bounds nested interpreted calls (spec §4.4 "Stack
	// overflow"); 0 disables the check.
	MaxCallDepth int

	symbols   map[string]types.MemberID
	nextSym   types.MemberID
}

// New creates an Interpreter with an empty global array of the given
// size and the standard primitive wrapper types installed.
func New(h *heap.Heap, numGlobals int) *Interpreter {
	globals := make([]value.Value, numGlobals)
	for i := range globals {
		globals[i] = value.Nil
	}
	return &Interpreter{
		Globals:      globals,
		Code:         make([]*CodeObject, numGlobals),
		Natives:      make(map[int]value.NativeFunc),
		Wrappers:     types.NewWrappers(),
		Heap:         h,
		MaxCallDepth: rt.MaxCallDepth(),
		symbols:      make(map[string]types.MemberID),
	}
}

// safepoint implements spec §4.4's "periodic check at every backward
// branch and at every non-trivial call site": it parks the calling
// thread if a freeze is in effect and, if enabled, logs a throttled
// trace line.
func (ip *Interpreter) safepoint(th *concurrent.Thread, pc int) {
	if ip.Freezer != nil {
		ip.Freezer.Safepoint()
	}
	ip.Tracer.Trace(th.ID, pc)
}

// Intern assigns (or returns the existing) MemberID for a symbol
// name, standing in for the compiler's parse-time symbol table (spec
// §4.3 "an interned integer member id assigned at parse time").
func (ip *Interpreter) Intern(name string) types.MemberID {
	if id, ok := ip.symbols[name]; ok {
		return id
	}
	id := ip.nextSym
	ip.nextSym++
	ip.symbols[name] = id
	return id
}

// DefineFunction installs a bytecode function at globalIndex.
func (ip *Interpreter) DefineFunction(globalIndex int, code *CodeObject) {
	ip.Code[globalIndex] = code
	ip.Globals[globalIndex] = &value.Function{GlobalIndex: globalIndex, Name: code.Name}
}

// DefineNative installs a Go-implemented builtin at globalIndex.
func (ip *Interpreter) DefineNative(globalIndex int, name string, fn value.NativeFunc) {
	ip.Natives[globalIndex] = fn
	ip.Globals[globalIndex] = &value.Function{GlobalIndex: globalIndex, Native: fn, Name: name}
}

// Call invokes any callable Value: a bytecode or native Function, a
// Closure, or a BoundMethod (spec §4.3, §4.4 "Calls").
func (ip *Interpreter) Call(th *concurrent.Thread, callee value.Value, args []value.Value) (value.Value, error) {
	switch c := callee.(type) {
	case *value.Function:
		if c.Native != nil {
			return c.Native(args)
		}
		return ip.callGlobal(th, c.GlobalIndex, args)
	case Closure:
		return ip.callGlobal(th, c.GlobalIndex, c.bindCaptures(args))
	case value.BoundMethod:
		full := make([]value.Value, 0, len(args)+1)
		full = append(full, c.Receiver)
		full = append(full, args...)
		return ip.callGlobal(th, c.MethodIndex, full)
	}
	return nil, rterror.New(rterror.TypeError, "value of kind %s is not callable", callee.Kind())
}

// callGlobal invokes the function installed at globalIndex, whichever
// of Code/Natives backs it (spec §4.6: globals hold either a compiled
// function or, for runtime-provided builtins, a native).
func (ip *Interpreter) callGlobal(th *concurrent.Thread, globalIndex int, args []value.Value) (value.Value, error) {
	ip.safepoint(th, -1)
	th.CallDepth++
	defer func() { th.CallDepth-- }()
	if ip.MaxCallDepth > 0 && th.CallDepth > ip.MaxCallDepth {
		return nil, rterror.New(rterror.RuntimeError, "stack overflow")
	}
	if code := ip.Code[globalIndex]; code != nil {
		locals, err := bindArgs(code, args)
		if err != nil {
			return nil, err
		}
		return ip.runFrame(th, code, locals)
	}
	if native, ok := ip.Natives[globalIndex]; ok {
		return native(args)
	}
	return nil, rterror.New(rterror.RuntimeError, "unresolved global function index %d", globalIndex)
}

// overloadHook builds the value.OverloadHook bound to th, used by
// Add/Sub/.../Equal when a built-in fast path doesn't apply (spec
// §4.1, §4.3): it looks up the operator's member id on the operand's
// receiver type and, if found, calls it as a method.
func (ip *Interpreter) overloadHook(th *concurrent.Thread) value.OverloadHook {
	return func(op string, a, b value.Value) (value.Value, bool, error) {
		ti, ok := types.ReceiverType(ip.Wrappers, a)
		if !ok {
			return nil, false, nil
		}
		id, ok := ip.symbols[op]
		if !ok {
			return nil, false, nil
		}
		item, _, ok := ti.LookupMethod(id, false)
		if !ok {
			return nil, false, nil
		}
		var callArgs []value.Value
		if b != nil {
			callArgs = []value.Value{b}
		}
		v, err := ip.invokeMember(th, a, item, callArgs)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
}

// invokeMember calls a resolved member Item against receiver with the
// given extra arguments: a slot item must itself hold a callable; a
// global item is invoked with receiver prepended (spec §4.3 "Item
// decoding").
func (ip *Interpreter) invokeMember(th *concurrent.Thread, receiver value.Value, item types.Item, args []value.Value) (value.Value, error) {
	if item.IsSlot() {
		inst, ok := receiver.(*value.Instance)
		if !ok {
			return nil, rterror.New(rterror.TypeError, "member is not callable on %s", receiver.Kind())
		}
		return ip.Call(th, inst.Slots[item.SlotIndex()], args)
	}
	full := make([]value.Value, 0, len(args)+1)
	full = append(full, receiver)
	full = append(full, args...)
	return ip.callGlobal(th, item.GlobalIndex(), full)
}
