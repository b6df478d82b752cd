package loader

import (
	"testing"

	"alore.dev/runtime/internal/heap"
	"alore.dev/runtime/internal/interp"
	"alore.dev/runtime/internal/value"
)

func newTestLoader(t *testing.T) (*interp.Interpreter, *Loader) {
	t.Helper()
	ip := interp.New(heap.New(nil), 16)
	return ip, New(ip, 16)
}

func TestAllocateModuleGlobalsRoundsToBuckets(t *testing.T) {
	ip, l := newTestLoader(t)
	firstVar, firstConst, err := l.AllocateModuleGlobals("m", 3, 1)
	if err != nil {
		t.Fatalf("AllocateModuleGlobals: %v", err)
	}
	if firstConst != firstVar+BucketSize {
		t.Fatalf("expected const range to start one bucket after var range, got var=%d const=%d", firstVar, firstConst)
	}
	if len(ip.Globals) < firstConst+BucketSize {
		t.Fatalf("interpreter globals not grown to cover allocation: len=%d", len(ip.Globals))
	}
}

func TestAllocateModuleGlobalsRejectsDuplicateName(t *testing.T) {
	_, l := newTestLoader(t)
	if _, _, err := l.AllocateModuleGlobals("dup", 1, 0); err != nil {
		t.Fatalf("first allocate: %v", err)
	}
	if _, _, err := l.AllocateModuleGlobals("dup", 1, 0); err == nil {
		t.Fatalf("expected error re-allocating an already-loaded module")
	}
}

func TestFreeGlobalsReturnsBucketsForReuse(t *testing.T) {
	ip, l := newTestLoader(t)
	firstVar, _, err := l.AllocateModuleGlobals("a", 10, 0)
	if err != nil {
		t.Fatalf("allocate a: %v", err)
	}
	ip.Globals[firstVar] = value.True

	if err := l.FreeGlobals(firstVar); err != nil {
		t.Fatalf("FreeGlobals: %v", err)
	}
	if ip.Globals[firstVar] != value.Nil {
		t.Fatalf("freed global should reset to Nil, got %v", ip.Globals[firstVar])
	}

	firstVar2, _, err := l.AllocateModuleGlobals("b", 10, 0)
	if err != nil {
		t.Fatalf("allocate b: %v", err)
	}
	if firstVar2 != firstVar {
		t.Fatalf("expected the freed bucket to be reused, got new first=%d want=%d", firstVar2, firstVar)
	}
}

func TestFreeGlobalsUnknownIndexErrors(t *testing.T) {
	_, l := newTestLoader(t)
	if err := l.FreeGlobals(9999); err == nil {
		t.Fatalf("expected error freeing an unregistered index")
	}
}

func TestInstallFuncEntryRegistersPublicGlobal(t *testing.T) {
	ip, l := newTestLoader(t)
	firstVar, _, err := l.AllocateModuleGlobals("mathx", 4, 0)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	mod, _ := l.Lookup("mathx")

	called := false
	entries := []Entry{
		{Kind: EntryFunc, Name: "square", Arity: Arity{Min: 1, Max: 1}, Fn: func(args []value.Value) (value.Value, error) {
			called = true
			return args[0], nil
		}},
	}
	if _, err := Install(ip, mod, entries); err != nil {
		t.Fatalf("Install: %v", err)
	}

	g, ok := mod.Public["square"]
	if !ok {
		t.Fatalf("expected \"square\" registered as public")
	}
	if g < firstVar || g >= firstVar+mod.NumVars {
		t.Fatalf("global index %d outside reserved range [%d,%d)", g, firstVar, firstVar+mod.NumVars)
	}
	fn, ok := ip.Globals[g].(*value.Function)
	if !ok || fn.Native == nil {
		t.Fatalf("expected a native function installed at %d, got %#v", g, ip.Globals[g])
	}
	if _, err := fn.Native([]value.Value{value.ShortInt(3)}); err != nil || !called {
		t.Fatalf("installed native not reachable: err=%v called=%v", err, called)
	}
}

func TestInstallClassWiresMembersAndInheritance(t *testing.T) {
	ip, l := newTestLoader(t)
	_, _, err := l.AllocateModuleGlobals("shapes", 8, 0)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	mod, _ := l.Lookup("shapes")

	baseEntries := []Entry{
		{Kind: EntryClass, Name: "Base", Body: []ClassMember{
			{Kind: MemberVar, Name: "x"},
		}},
	}
	classes, err := Install(ip, mod, baseEntries)
	if err != nil {
		t.Fatalf("Install base: %v", err)
	}
	base := classes["Base"]

	derivedEntries := []Entry{
		{Kind: EntryClass, Name: "Derived", Body: []ClassMember{
			{Kind: MemberInherit, Super: base},
			{Kind: MemberVar, Name: "y"},
			{Kind: MemberMethod, Name: "sum", Fn: func(args []value.Value) (value.Value, error) {
				return value.ShortInt(0), nil
			}},
		}},
	}
	classes, err = Install(ip, mod, derivedEntries)
	if err != nil {
		t.Fatalf("Install derived: %v", err)
	}
	derived := classes["Derived"]

	if derived.Super != base {
		t.Fatalf("expected Derived.Super == Base")
	}
	if derived.NumSlots != 2 {
		t.Fatalf("expected Derived to have 2 slots (inherited x + own y), got %d", derived.NumSlots)
	}
	id := ip.Intern("sum")
	item, owner, ok := derived.LookupMethod(id, false)
	if !ok || owner != derived || item.IsSlot() {
		t.Fatalf("expected sum resolved as a global method on Derived, got item=%v owner=%v ok=%v", item, owner, ok)
	}
}
