package value

import "reflect"

// ptrOf returns the numeric address backing a pointer-typed Go value,
// used only as an identity hash fallback for reference-kind values
// with no user _hash override (spec §4.5).
func ptrOf(v interface{}) uintptr {
	return reflect.ValueOf(v).Pointer()
}
