package interp

import (
	"testing"

	"alore.dev/runtime/internal/concurrent"
	"alore.dev/runtime/internal/container"
	"alore.dev/runtime/internal/heap"
	"alore.dev/runtime/internal/types"
	"alore.dev/runtime/internal/value"
)

func newTestInterp(t *testing.T) (*Interpreter, *concurrent.Thread) {
	t.Helper()
	h := heap.New(nil)
	rt, main := concurrent.NewRuntime(h, 0)
	_ = rt
	return New(h, 16), main
}

func TestCallGArithmetic(t *testing.T) {
	ip, th := newTestInterp(t)
	add := &CodeObject{
		Name:      "add",
		FrameSize: 3,
		MinArgs:   2,
		MaxArgs:   2,
		Instrs: []Instr{
			{Op: OpAdd, A: 2, B: 0, C: 1},
			{Op: OpRetL, A: 2},
		},
	}
	ip.DefineFunction(1, add)

	got, err := ip.Call(th, ip.Globals[1], []value.Value{value.ShortInt(3), value.ShortInt(4)})
	if err != nil {
		t.Fatal(err)
	}
	if got != value.ShortInt(7) {
		t.Fatalf("got %v, want 7", got)
	}
}

func TestBindArgsDefaultsAndVarargs(t *testing.T) {
	// slot0 = required, slot1 = optional (default), slot2 = varargs array.
	code := &CodeObject{
		Name:       "f",
		FrameSize:  3,
		MinArgs:    1,
		MaxArgs:    2,
		HasVarArgs: true,
		Instrs: []Instr{
			{Op: OpCreateTuple, A: 0, B: 0, C: 3}, // pack all three slots for inspection
			{Op: OpRetL, A: 0},
		},
	}
	ip, th := newTestInterp(t)
	ip.DefineFunction(1, code)

	got, err := ip.Call(th, ip.Globals[1], []value.Value{value.ShortInt(1)})
	if err != nil {
		t.Fatal(err)
	}
	tup := got.(*container.Tuple)
	elems := tup.Elements()
	if elems[0] != value.ShortInt(1) {
		t.Fatalf("required arg = %v, want 1", elems[0])
	}
	if elems[1] != value.Default {
		t.Fatalf("optional arg = %v, want Default", elems[1])
	}
	varr := elems[2].(*container.Array)
	if varr.Len() != 0 {
		t.Fatalf("vararg array len = %d, want 0", varr.Len())
	}

	got2, err := ip.Call(th, ip.Globals[1], []value.Value{value.ShortInt(1), value.ShortInt(2), value.ShortInt(3), value.ShortInt(4)})
	if err != nil {
		t.Fatal(err)
	}
	tup2 := got2.(*container.Tuple)
	elems2 := tup2.Elements()
	varr2 := elems2[2].(*container.Array)
	if varr2.Len() != 2 {
		t.Fatalf("vararg array len = %d, want 2", varr2.Len())
	}
	v0, _ := varr2.Get(0)
	v1, _ := varr2.Get(1)
	if v0 != value.ShortInt(3) || v1 != value.ShortInt(4) {
		t.Fatalf("vararg elements = %v, %v, want 3, 4", v0, v1)
	}
}

func TestBindArgsWrongArgCount(t *testing.T) {
	code := &CodeObject{Name: "f", FrameSize: 1, MinArgs: 1, MaxArgs: 1}
	ip, th := newTestInterp(t)
	ip.DefineFunction(1, code)
	if _, err := ip.Call(th, ip.Globals[1], nil); err == nil {
		t.Fatal("expected ValueError for missing required argument")
	}
}

func TestTryRaiseCaughtByHandler(t *testing.T) {
	ip, th := newTestInterp(t)
	code := &CodeObject{
		Name:      "f",
		FrameSize: 2,
		MaxArgs:   0,
		Instrs: []Instr{
			{Op: OpRaiseL, A: 0}, // pc 0: raise locals[0] (Nil -> wrapped RuntimeError)
			{Op: OpRetL, A: 1},   // pc 1: handler lands here, returns caught value
		},
		Exceptions: []ExceptionRange{
			{Start: 0, End: 1, Handler: 1, CatchLocal: 1},
		},
	}
	ip.DefineFunction(1, code)

	got, err := ip.Call(th, ip.Globals[1], nil)
	if err != nil {
		t.Fatalf("exception should have been caught, got error: %v", err)
	}
	if _, ok := got.(*ExceptionValue); !ok {
		t.Fatalf("expected the caught value to be an ExceptionValue, got %T", got)
	}
}

func TestRaiseUncaughtPropagates(t *testing.T) {
	ip, th := newTestInterp(t)
	code := &CodeObject{
		Name:      "f",
		FrameSize: 1,
		Instrs:    []Instr{{Op: OpRaiseL, A: 0}},
	}
	ip.DefineFunction(1, code)
	if _, err := ip.Call(th, ip.Globals[1], nil); err == nil {
		t.Fatal("expected the raise to propagate past a function with no handler")
	}
}

func TestLeaveFinallyReturn(t *testing.T) {
	ip, th := newTestInterp(t)
	code := &CodeObject{
		Name:      "f",
		FrameSize: 3,
		Consts:    []value.Value{value.ShortInt(finallyReturn), value.ShortInt(42)},
		Instrs: []Instr{
			{Op: OpLoadConst, A: 0, B: 0}, // status = finallyReturn
			{Op: OpLoadConst, A: 1, B: 1}, // value = 42
			{Op: OpLeaveFinally, A: 0},
			{Op: OpRetL, A: 2}, // unreachable if LEAVE_FINALLY returns
		},
	}
	ip.DefineFunction(1, code)
	got, err := ip.Call(th, ip.Globals[1], nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != value.ShortInt(42) {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestForLoopOverArraySum(t *testing.T) {
	ip, th := newTestInterp(t)
	code := &CodeObject{
		Name:      "sum",
		FrameSize: 4,
		MinArgs:   1,
		MaxArgs:   1,
		Consts:    []value.Value{value.ShortInt(0)},
		Instrs: []Instr{
			{Op: OpLoadConst, A: 1, B: 0},   // pc0: acc = 0
			{Op: OpForInit, A: 2, B: 0},     // pc1: state = iterate(locals[0])
			{Op: OpForLoop, A: 2, B: 2, C: 3}, // pc2: exhausted -> pc+1+2=5
			{Op: OpAdd, A: 1, B: 1, C: 3},   // pc3: acc += item
			{Op: OpJmp, A: -3},              // pc4: back to pc2 (4+1-3=2)
			{Op: OpRetL, A: 1},               // pc5
		},
	}
	ip.DefineFunction(1, code)
	arr := container.NewArray(value.ShortInt(1), value.ShortInt(2), value.ShortInt(3), value.ShortInt(4), value.ShortInt(5))
	got, err := ip.Call(th, ip.Globals[1], []value.Value{arr})
	if err != nil {
		t.Fatal(err)
	}
	if got != value.ShortInt(15) {
		t.Fatalf("got %v, want 15", got)
	}
}

func TestForLoopOverRange(t *testing.T) {
	ip, th := newTestInterp(t)
	code := &CodeObject{
		Name:      "sum",
		FrameSize: 4,
		MinArgs:   1,
		MaxArgs:   1,
		Consts:    []value.Value{value.ShortInt(0)},
		Instrs: []Instr{
			{Op: OpLoadConst, A: 1, B: 0},
			{Op: OpForInit, A: 2, B: 0},
			{Op: OpForLoop, A: 2, B: 2, C: 3},
			{Op: OpAdd, A: 1, B: 1, C: 3},
			{Op: OpJmp, A: -3},
			{Op: OpRetL, A: 1},
		},
	}
	ip.DefineFunction(1, code)
	rng := value.Range{Start: value.ShortInt(1), Stop: value.ShortInt(4)} // half-open [1,4) -> 1+2+3=6
	got, err := ip.Call(th, ip.Globals[1], []value.Value{rng})
	if err != nil {
		t.Fatal(err)
	}
	if got != value.ShortInt(6) {
		t.Fatalf("got %v, want 6", got)
	}
}

func TestClosureCapturesAndCalls(t *testing.T) {
	ip, th := newTestInterp(t)

	// addClosure(cell, x) = cell[0] + x
	addClosure := &CodeObject{
		Name:      "addClosure",
		FrameSize: 4,
		MinArgs:   2,
		MaxArgs:   2,
		Consts:    []value.Value{value.ShortInt(0)},
		Instrs: []Instr{
			{Op: OpLoadConst, A: 2, B: 0},
			{Op: OpAGet, A: 3, B: 0, C: 2},
			{Op: OpAdd, A: 3, B: 3, C: 1},
			{Op: OpRetL, A: 3},
		},
	}
	const addClosureIdx = 2
	ip.DefineFunction(addClosureIdx, addClosure)

	// makeAdder(n) = a closure over n calling addClosure.
	makeAdder := &CodeObject{
		Name:      "makeAdder",
		FrameSize: 1,
		MinArgs:   1,
		MaxArgs:   1,
		Instrs: []Instr{
			{Op: OpCreateExposed, A: 0},
			{Op: OpCreateAnon, A: 0, B: addClosureIdx, C: 0, D: 1},
			{Op: OpRetL, A: 0},
		},
	}
	ip.DefineFunction(1, makeAdder)

	adder, err := ip.Call(th, ip.Globals[1], []value.Value{value.ShortInt(10)})
	if err != nil {
		t.Fatal(err)
	}
	got, err := ip.Call(th, adder, []value.Value{value.ShortInt(5)})
	if err != nil {
		t.Fatal(err)
	}
	if got != value.ShortInt(15) {
		t.Fatalf("got %v, want 15", got)
	}
}

func TestMemberDispatchGetSetMethod(t *testing.T) {
	ip, th := newTestInterp(t)
	idCount := ip.Intern("count")
	idBump := ip.Intern("bump")

	counter := types.NewTypeInfo("Counter", nil)
	counter.SetMember(types.RolePublicGetter, idCount, types.SlotItem(0))
	counter.SetMember(types.RolePublicSetter, idCount, types.SlotItem(0))

	// bump(self, by): self.count = self.count + by; returns the new count.
	bump := &CodeObject{
		Name:      "bump",
		FrameSize: 4,
		MinArgs:   2,
		MaxArgs:   2,
		Instrs: []Instr{
			{Op: OpMoveLocal, A: 2, B: 0},
			{Op: OpGetMember, A: 2, B: int(idCount)},
			{Op: OpAdd, A: 3, B: 2, C: 1},
			{Op: OpSetMember, A: 0, B: int(idCount), C: 3},
			{Op: OpRetL, A: 3},
		},
	}
	const bumpIdx = 3
	ip.DefineFunction(bumpIdx, bump)
	counter.SetMember(types.RolePublicMethod, idBump, types.GlobalItem(bumpIdx))

	inst := value.NewInstance(counter, 1, 0)
	inst.Slots[0] = value.ShortInt(5)

	got, err := ip.callMethod(th, inst, idBump, false, []value.Value{value.ShortInt(3)})
	if err != nil {
		t.Fatal(err)
	}
	if got != value.ShortInt(8) {
		t.Fatalf("bump result = %v, want 8", got)
	}
	if inst.Slots[0] != value.ShortInt(8) {
		t.Fatalf("slot after bump = %v, want 8", inst.Slots[0])
	}

	v, err := ip.getMember(th, inst, idCount, false)
	if err != nil || v != value.ShortInt(8) {
		t.Fatalf("getMember(count) = %v, %v, want 8", v, err)
	}

	if _, err := ip.getMember(th, inst, ip.Intern("missing"), false); err == nil {
		t.Fatal("expected MemberError for unknown member")
	}
}

func TestCallGStackOverflowRaisesRuntimeError(t *testing.T) {
	ip, th := newTestInterp(t)
	ip.MaxCallDepth = 8

	var recurse *CodeObject
	recurse = &CodeObject{
		Name:      "recurse",
		FrameSize: 1,
		MinArgs:   0,
		MaxArgs:   0,
		Instrs: []Instr{
			{Op: OpCallG, A: 0, B: 2},
			{Op: OpRetL, A: 0},
		},
	}
	_ = recurse
	const gi = 2
	ip.DefineFunction(gi, recurse)

	_, err := ip.callGlobal(th, gi, nil)
	if err == nil {
		t.Fatal("expected a stack-overflow RuntimeError, got nil")
	}
}
