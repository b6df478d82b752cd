package value

import "reflect"

// Identity returns a stable pointer identity for heap-reference kinds
// that the garbage collector tracks as blocks (Instance, FixArray,
// Function, TypeValue, LongInt). It reports ok=false for value kinds
// with no separate heap identity (ShortInt, Float, sentinels,
// Pair/Range/BoundMethod, Constant), which the collector treats as
// inline payloads of whatever block contains them.
func Identity(v Value) (uintptr, bool) {
	switch t := v.(type) {
	case *Instance:
		return reflect.ValueOf(t).Pointer(), true
	case *Function:
		return reflect.ValueOf(t).Pointer(), true
	case *TypeValue:
		return reflect.ValueOf(t).Pointer(), true
	case *LongInt:
		return reflect.ValueOf(t).Pointer(), true
	case FixArray:
		if t == nil {
			return 0, false
		}
		return reflect.ValueOf(t).Pointer(), true
	case NarrowStr, WideStr:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice && rv.Len() == 0 {
			return 0, false
		}
		if rv.Kind() == reflect.Slice {
			return rv.Pointer(), true
		}
		return 0, false
	}
	return 0, false
}

// Children returns v's directly-contained Values, the edges a
// reachability walk follows during collection (spec §4.2 step 4
// "scan the old-gen frontier ... any young reference still found is
// forwarded recursively").
func Children(v Value) []Value {
	switch t := v.(type) {
	case *Instance:
		return t.Slots
	case FixArray:
		return t
	case Pair:
		return []Value{t.Left, t.Right}
	case Range:
		if t.Stop == nil {
			return []Value{t.Start}
		}
		return []Value{t.Start, t.Stop}
	case BoundMethod:
		return []Value{t.Receiver}
	}
	return nil
}
