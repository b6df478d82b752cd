// Package types implements TypeInfo, the six per-type hashed member
// tables, supertype-chain dispatch, and primitive wrapper types (spec
// §3.3, §4.3).
package types

import (
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/value"
)

// MemberID is a small integer assigned by the compiler to each member
// name (glossary "Member id"), used as the key for every dispatch
// table.
type MemberID int

// Role names one of the six per-type member tables.
type Role int

const (
	RolePublicGetter Role = iota
	RolePublicSetter
	RolePublicMethod
	RolePrivateGetter
	RolePrivateSetter
	RolePrivateMethod
	numRoles
)

// MethodSentinel is the boundary below which a member-table item is a
// direct instance-slot index, and at or above which it encodes a
// global function index (spec §3.3).
const MethodSentinel = 1 << 20

// Item is one entry of a member hash table: either a direct slot
// index (< MethodSentinel) or a global function index (spec §3.3).
type Item int

func (it Item) IsSlot() bool         { return int(it) < MethodSentinel }
func (it Item) SlotIndex() int       { return int(it) }
func (it Item) GlobalIndex() int     { return int(it) - MethodSentinel }
func SlotItem(idx int) Item          { return Item(idx) }
func GlobalItem(globalIdx int) Item  { return Item(globalIdx + MethodSentinel) }

// memberEntry is one hash-chain node.
type memberEntry struct {
	id   MemberID
	item Item
	next *memberEntry
}

// memberTable is an open hash table keyed by MemberID with explicit
// collision chains (spec §3.3: "collisions chain through explicit
// next pointers; size is a power of two minus one used as a mask").
type memberTable struct {
	buckets []*memberEntry
	mask    uint32
	count   int
}

func newMemberTable() *memberTable {
	return &memberTable{buckets: make([]*memberEntry, 8), mask: 7}
}

func (t *memberTable) hash(id MemberID) uint32 {
	return uint32(id) & t.mask
}

func (t *memberTable) get(id MemberID) (Item, bool) {
	for e := t.buckets[t.hash(id)]; e != nil; e = e.next {
		if e.id == id {
			return e.item, true
		}
	}
	return 0, false
}

func (t *memberTable) set(id MemberID, item Item) {
	h := t.hash(id)
	for e := t.buckets[h]; e != nil; e = e.next {
		if e.id == id {
			e.item = item
			return
		}
	}
	t.buckets[h] = &memberEntry{id: id, item: item, next: t.buckets[h]}
	t.count++
	if t.count > len(t.buckets)*2 {
		t.grow()
	}
}

func (t *memberTable) grow() {
	old := t.buckets
	t.buckets = make([]*memberEntry, len(old)*2)
	t.mask = uint32(len(t.buckets) - 1)
	t.count = 0
	for _, head := range old {
		for e := head; e != nil; e = e.next {
			t.set(e.id, e.item)
		}
	}
}

// TypeInfo is a class or interface's runtime type object (spec §3.3).
type TypeInfo struct {
	Name          string
	IsInterface   bool
	Super         *TypeInfo
	Interfaces    []*TypeInfo // directly implemented/extended interfaces
	tables        [numRoles]*memberTable
	ConstructorGI int // global index of the constructor, -1 if none
	InitializerGI int // global index of the member initializer, -1 if none
	InstanceSize  int // allocation-unit-rounded size
	NumSlots      int // number of Value slots
	RawSize       int // extra raw-data bytes
	RawOffset     int

	HasEquality   bool
	HasHash       bool
	HasFinalizer  bool
	HasInitializer bool
	HasExternalDataSize bool
}

func (t *TypeInfo) TypeName() string { return t.Name }

// NewTypeInfo constructs a TypeInfo with empty member tables and no
// constructor/initializer bound yet.
func NewTypeInfo(name string, super *TypeInfo) *TypeInfo {
	ti := &TypeInfo{
		Name:          name,
		Super:         super,
		ConstructorGI: -1,
		InitializerGI: -1,
	}
	for i := range ti.tables {
		ti.tables[i] = newMemberTable()
	}
	return ti
}

// SetMember installs an item into one of the six role tables.
func (t *TypeInfo) SetMember(role Role, id MemberID, item Item) {
	t.tables[role].set(id, item)
}

// lookupLocal checks only this type's own table for the role.
func (t *TypeInfo) lookupLocal(role Role, id MemberID) (Item, bool) {
	return t.tables[role].get(id)
}

// Lookup walks the supertype chain searching table `role` for `id`
// (spec §4.3 steps 1-3): start at the receiver's concrete type, walk
// the hash chain, then move to the supertype and repeat.
func (t *TypeInfo) Lookup(role Role, id MemberID) (Item, *TypeInfo, bool) {
	for cur := t; cur != nil; cur = cur.Super {
		if item, ok := cur.lookupLocal(role, id); ok {
			return item, cur, true
		}
	}
	return 0, nil, false
}

// LookupMethod implements the full method-dispatch search (spec §4.3
// step 4): after the method-table chain misses all the way to the
// root, probe the public/private getter table at the leaf (and
// recurse up it too) since an accessible getter may yield a callable.
func (t *TypeInfo) LookupMethod(id MemberID, private bool) (Item, *TypeInfo, bool) {
	methodRole := RolePublicMethod
	getterRole := RolePublicGetter
	if private {
		methodRole, getterRole = RolePrivateMethod, RolePrivateGetter
	}
	if item, owner, ok := t.Lookup(methodRole, id); ok {
		return item, owner, true
	}
	return t.Lookup(getterRole, id)
}

// Implements reports whether t's transitive interface closure (via
// supertype walks at each level) includes iface (spec §3.3 "Interface
// type-inclusion checks walk the interface list at each level of the
// supertype chain").
func (t *TypeInfo) Implements(iface *TypeInfo) bool {
	for cur := t; cur != nil; cur = cur.Super {
		if cur == iface {
			return true
		}
		for _, impl := range cur.Interfaces {
			if interfaceIncludes(impl, iface) {
				return true
			}
		}
	}
	return false
}

func interfaceIncludes(i, target *TypeInfo) bool {
	if i == target {
		return true
	}
	for _, super := range i.Interfaces {
		if interfaceIncludes(super, target) {
			return true
		}
	}
	return i.Super != nil && interfaceIncludes(i.Super, target)
}

// MemberError constructs the error raised when a member id is unknown
// for the receiver type after a full supertype walk (spec §4.1, §7).
func MemberError(typeName string, id MemberID) error {
	return rterror.New(rterror.MemberError, "%s has no member %d", typeName, id)
}

var _ value.TypeRef = (*TypeInfo)(nil)
