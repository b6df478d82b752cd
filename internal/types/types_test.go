package types

import "testing"

func TestLookupWalksSupertypeChain(t *testing.T) {
	base := NewTypeInfo("Base", nil)
	base.SetMember(RolePublicMethod, 42, GlobalItem(7))
	derived := NewTypeInfo("Derived", base)

	item, owner, ok := derived.Lookup(RolePublicMethod, 42)
	if !ok {
		t.Fatal("expected to find inherited member")
	}
	if owner != base {
		t.Fatalf("owner = %v, want base", owner.Name)
	}
	if item.GlobalIndex() != 7 {
		t.Fatalf("global index = %d, want 7", item.GlobalIndex())
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	derived := NewTypeInfo("Derived", NewTypeInfo("Base", nil))
	if _, _, ok := derived.Lookup(RolePublicMethod, 999); ok {
		t.Fatal("expected miss")
	}
}

func TestLookupMethodFallsBackToGetter(t *testing.T) {
	ti := NewTypeInfo("T", nil)
	ti.SetMember(RolePublicGetter, 5, GlobalItem(3))
	item, owner, ok := ti.LookupMethod(5, false)
	if !ok || owner != ti || item.GlobalIndex() != 3 {
		t.Fatalf("expected getter fallback to succeed, got %v %v %v", item, owner, ok)
	}
}

func TestImplementsTransitiveInterfaces(t *testing.T) {
	iface := NewTypeInfo("Comparable", nil)
	iface.IsInterface = true
	mid := NewTypeInfo("Mid", nil)
	mid.IsInterface = true
	mid.Interfaces = []*TypeInfo{iface}

	concrete := NewTypeInfo("Concrete", nil)
	concrete.Interfaces = []*TypeInfo{mid}

	if !concrete.Implements(iface) {
		t.Fatal("expected transitive interface implementation")
	}
}

func TestItemSlotVsGlobalEncoding(t *testing.T) {
	slot := SlotItem(3)
	if !slot.IsSlot() || slot.SlotIndex() != 3 {
		t.Fatalf("slot item decoded wrong: %v", slot)
	}
	gi := GlobalItem(10)
	if gi.IsSlot() {
		t.Fatal("global item misclassified as slot")
	}
	if gi.GlobalIndex() != 10 {
		t.Fatalf("global index = %d, want 10", gi.GlobalIndex())
	}
}

func TestMemberTableGrowsAndKeepsEntries(t *testing.T) {
	ti := NewTypeInfo("Big", nil)
	for i := 0; i < 200; i++ {
		ti.SetMember(RolePublicMethod, MemberID(i), GlobalItem(i))
	}
	for i := 0; i < 200; i++ {
		item, _, ok := ti.Lookup(RolePublicMethod, MemberID(i))
		if !ok || item.GlobalIndex() != i {
			t.Fatalf("entry %d lost after growth", i)
		}
	}
}
