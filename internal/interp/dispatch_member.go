package interp

import (
	"alore.dev/runtime/internal/concurrent"
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/types"
	"alore.dev/runtime/internal/value"
)

// getMember implements OpGetMember (spec §4.3 steps 1-5, §4.4 "member
// -> local, both direct and via getter"): a direct slot reads the
// instance field; otherwise the resolved global getter is invoked
// with the receiver as its sole argument.
func (ip *Interpreter) getMember(th *concurrent.Thread, receiver value.Value, id types.MemberID, private bool) (value.Value, error) {
	ti, ok := types.ReceiverType(ip.Wrappers, receiver)
	if !ok {
		return nil, rterror.New(rterror.TypeError, "%s has no members", receiver.Kind())
	}
	role := types.RolePublicGetter
	if private {
		role = types.RolePrivateGetter
	}
	item, _, ok := ti.Lookup(role, id)
	if !ok {
		return nil, types.MemberError(ti.Name, id)
	}
	if item.IsSlot() {
		inst, ok := receiver.(*value.Instance)
		if !ok {
			return nil, rterror.New(rterror.TypeError, "%s has no slots", receiver.Kind())
		}
		return inst.Slots[item.SlotIndex()], nil
	}
	return ip.callGlobal(th, item.GlobalIndex(), []value.Value{receiver})
}

// setMember implements OpSetMember (spec §4.4 "local -> member, both
// direct and via setter").
func (ip *Interpreter) setMember(th *concurrent.Thread, receiver value.Value, id types.MemberID, val value.Value, private bool) error {
	ti, ok := types.ReceiverType(ip.Wrappers, receiver)
	if !ok {
		return rterror.New(rterror.TypeError, "%s has no members", receiver.Kind())
	}
	role := types.RolePublicSetter
	if private {
		role = types.RolePrivateSetter
	}
	item, _, ok := ti.Lookup(role, id)
	if !ok {
		return types.MemberError(ti.Name, id)
	}
	if item.IsSlot() {
		inst, ok := receiver.(*value.Instance)
		if !ok {
			return rterror.New(rterror.TypeError, "%s has no slots", receiver.Kind())
		}
		inst.Slots[item.SlotIndex()] = val
		if ip.Heap != nil {
			ip.Heap.WriteBarrier(th.Mutator, inst, val)
		}
		return nil
	}
	_, err := ip.callGlobal(th, item.GlobalIndex(), []value.Value{receiver, val})
	return err
}

// callMethod implements OpCallM's dispatch half (spec §4.3 step 4:
// the method-table chain, falling back to an accessible getter).
func (ip *Interpreter) callMethod(th *concurrent.Thread, receiver value.Value, id types.MemberID, private bool, args []value.Value) (value.Value, error) {
	ti, ok := types.ReceiverType(ip.Wrappers, receiver)
	if !ok {
		return nil, rterror.New(rterror.TypeError, "%s has no members", receiver.Kind())
	}
	item, _, ok := ti.LookupMethod(id, private)
	if !ok {
		return nil, types.MemberError(ti.Name, id)
	}
	return ip.invokeMember(th, receiver, item, args)
}
