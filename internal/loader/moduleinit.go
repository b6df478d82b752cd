package loader

import (
	"alore.dev/runtime/internal/heap"
	"alore.dev/runtime/internal/interp"
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/types"
	"alore.dev/runtime/internal/value"
)

// Arity is a function export's declared (min, max, varargs) shape
// (spec §6 "Module-init descriptors ... arity (min, max, varargs
// flag)"). Install does not read it: native exports receive whatever
// arguments the caller passes, unchecked.
type Arity struct {
	Min     int
	Max     int
	Varargs bool
}

// EntryKind identifies one module-init descriptor entry's shape (spec
// §6): a plain native function export, or a class/interface built
// from a body of sub-entries.
type EntryKind int

const (
	EntryFunc EntryKind = iota
	EntryClass
	EntryInterface
)

// ClassMemberKind identifies one entry of a class body (spec §6 "a
// class body (list of method/getter/setter/var/const/inherit/
// implement entries)").
type ClassMemberKind int

const (
	MemberMethod ClassMemberKind = iota
	MemberGetter
	MemberSetter
	MemberVar
	MemberConst
	MemberInherit
	MemberImplement
)

// ClassMember is one entry of a class body.
type ClassMember struct {
	Kind ClassMemberKind
	Name string

	// MemberMethod/MemberGetter/MemberSetter
	Arity Arity
	Fn    value.NativeFunc

	// MemberInherit
	Super *types.TypeInfo
	// MemberImplement
	Iface *types.TypeInfo
}

// Entry is one module-init descriptor entry: either a function export
// or a class/interface definition.
type Entry struct {
	Kind EntryKind
	Name string

	// EntryFunc
	Arity Arity
	Fn    value.NativeFunc

	// EntryClass / EntryInterface
	Body []ClassMember
}

// Install walks entries, assigns each a global index out of mod's
// reserved variable range, and wires it into ip: a func entry becomes
// a native global registered as public; a class/interface entry
// becomes a types.TypeInfo with its body installed into the matching
// member-table role and its instance layout sized from its own plus
// its superclass's slots (spec §3.3, §6). No constructor or
// initializer is recorded on the TypeInfo.
func Install(ip *interp.Interpreter, mod *Module, entries []Entry) (map[string]*types.TypeInfo, error) {
	classes := make(map[string]*types.TypeInfo, len(entries))
	next := mod.FirstVar

	allocGlobal := func() (int, error) {
		if next >= mod.FirstVar+mod.NumVars {
			return 0, rterror.New(rterror.RuntimeError, "module %q: exceeded reserved global count", mod.Name)
		}
		g := next
		next++
		return g, nil
	}

	for _, e := range entries {
		switch e.Kind {
		case EntryFunc:
			g, err := allocGlobal()
			if err != nil {
				return nil, err
			}
			ip.DefineNative(g, e.Name, e.Fn)
			mod.Public[e.Name] = g

		case EntryClass, EntryInterface:
			ti, err := installClass(ip, mod, &e, allocGlobal)
			if err != nil {
				return nil, err
			}
			classes[e.Name] = ti
			mod.Public[e.Name] = 0 // type objects carry no global index of their own
		}
	}
	return classes, nil
}

func installClass(ip *interp.Interpreter, mod *Module, e *Entry, allocGlobal func() (int, error)) (*types.TypeInfo, error) {
	ti := types.NewTypeInfo(e.Name, nil)
	ti.IsInterface = e.Kind == EntryInterface

	slot := 0
	for _, m := range e.Body {
		switch m.Kind {
		case MemberInherit:
			ti.Super = m.Super
			slot = m.Super.NumSlots
		case MemberImplement:
			ti.Interfaces = append(ti.Interfaces, m.Iface)

		case MemberVar:
			id := ip.Intern(m.Name)
			ti.SetMember(types.RolePublicGetter, id, types.SlotItem(slot))
			ti.SetMember(types.RolePublicSetter, id, types.SlotItem(slot))
			slot++
		case MemberConst:
			ti.SetMember(types.RolePublicGetter, ip.Intern(m.Name), types.SlotItem(slot))
			slot++

		case MemberMethod, MemberGetter, MemberSetter:
			g, err := allocGlobal()
			if err != nil {
				return nil, err
			}
			ip.DefineNative(g, e.Name+"."+m.Name, m.Fn)
			role := types.RolePublicMethod
			switch m.Kind {
			case MemberGetter:
				role = types.RolePublicGetter
			case MemberSetter:
				role = types.RolePublicSetter
			}
			ti.SetMember(role, ip.Intern(m.Name), types.GlobalItem(g))
			if m.Name == "_eq" {
				ti.HasEquality = true
			}
			if m.Name == "_hash" {
				ti.HasHash = true
			}
			if m.Name == "finalize" {
				ti.HasFinalizer = true
			}
		}
	}

	ti.NumSlots = slot
	ti.InstanceSize = slotsToBytes(slot)
	return ti, nil
}

// slotsToBytes approximates n pointer-sized Value slots' footprint,
// rounded to the heap's allocation unit (spec §3.3 "instance size
// rounded to allocation unit").
func slotsToBytes(n int) int {
	const slotSize = 8
	bytes := n * slotSize
	if bytes <= 0 {
		return heap.AllocUnit
	}
	return (bytes + heap.AllocUnit - 1) / heap.AllocUnit * heap.AllocUnit
}
