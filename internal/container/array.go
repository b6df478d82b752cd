// Package container implements Alore's standard container types (spec
// §4.5): Array, Tuple, Map, Set, and sort — grounded on the exact
// resize/probe constants in _examples/original_source/src/std_array.c,
// std_map.c, and set_module.c.
package container

import (
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/value"
)

// Array is a growable vector backed by a value.FixArray, with
// separate length and capacity (spec §4.5 "Array"): it grows by
// doubling plus the requested extension.
type Array struct {
	backing value.FixArray
	length  int
}

func (*Array) Kind() value.Kind { return value.KindInstance } // Array is a built-in Instance-shaped type in the running VM

// NewArray creates an Array from the given initial elements.
func NewArray(elems ...value.Value) *Array {
	a := &Array{backing: make(value.FixArray, len(elems)), length: len(elems)}
	copy(a.backing, elems)
	return a
}

// Len returns the current element count.
func (a *Array) Len() int { return a.length }

func (a *Array) ensureCapacity(extra int) {
	need := a.length + extra
	if need <= len(a.backing) {
		return
	}
	newCap := len(a.backing)*2 + extra
	if newCap < need {
		newCap = need
	}
	grown := make(value.FixArray, newCap)
	copy(grown, a.backing[:a.length])
	a.backing = grown
}

// Append adds v to the end, growing the backing FixArray by doubling
// plus the requested extension when full.
func (a *Array) Append(v value.Value) {
	a.ensureCapacity(1)
	a.backing[a.length] = v
	a.length++
}

func normalizeIndex(i, length int) (int, error) {
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, rterror.New(rterror.IndexError, "array index out of range: %d", i)
	}
	return i, nil
}

// Get returns the element at index i, after negative-index
// normalization (spec §7 IndexError trigger).
func (a *Array) Get(i int) (value.Value, error) {
	idx, err := normalizeIndex(i, a.length)
	if err != nil {
		return nil, err
	}
	return a.backing[idx], nil
}

// Set replaces the element at index i.
func (a *Array) Set(i int, v value.Value) error {
	idx, err := normalizeIndex(i, a.length)
	if err != nil {
		return err
	}
	a.backing[idx] = v
	return nil
}

// Slice implements the AGET pair-index form: openEnded=true means the
// range has no stop index and runs through the end, and stop is then
// ignored (spec §4.5 "slicing (open-ended with a sentinel index)").
func (a *Array) Slice(start, stop int, openEnded bool) (*Array, error) {
	s, err := clampSliceIndex(start, a.length)
	if err != nil {
		return nil, err
	}
	e := a.length
	if !openEnded {
		e, err = clampSliceIndex(stop, a.length)
		if err != nil {
			return nil, err
		}
	}
	if e < s {
		e = s
	}
	out := NewArray(a.backing[s:e]...)
	return out, nil
}

func clampSliceIndex(i, length int) (int, error) {
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i, nil
}

// Concat implements `+`: `[1,2,3] + [4,5]` -> `[1,2,3,4,5]` (spec §8).
func (a *Array) Concat(b *Array) *Array {
	out := NewArray(a.backing[:a.length]...)
	out.ensureCapacity(b.length)
	copy(out.backing[out.length:], b.backing[:b.length])
	out.length += b.length
	return out
}

// Repeat implements `*` by a non-negative integer count.
func (a *Array) Repeat(n int) *Array {
	if n <= 0 {
		return NewArray()
	}
	out := NewArray()
	out.ensureCapacity(a.length * n)
	for i := 0; i < n; i++ {
		copy(out.backing[out.length:], a.backing[:a.length])
		out.length += a.length
	}
	return out
}

// Find returns the index of the first element equal to v, or -1.
func (a *Array) Find(v value.Value, eq EqualFn) (int, error) {
	for i := 0; i < a.length; i++ {
		ok, err := eq(a.backing[i], v)
		if err != nil {
			return 0, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// Count counts elements equal to v.
func (a *Array) Count(v value.Value, eq EqualFn) (int, error) {
	n := 0
	for i := 0; i < a.length; i++ {
		ok, err := eq(a.backing[i], v)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// InsertAt inserts v before index i, shifting later elements right.
func (a *Array) InsertAt(i int, v value.Value) error {
	if i < 0 {
		i += a.length
	}
	if i < 0 || i > a.length {
		return rterror.New(rterror.IndexError, "array index out of range: %d", i)
	}
	a.ensureCapacity(1)
	copy(a.backing[i+1:a.length+1], a.backing[i:a.length])
	a.backing[i] = v
	a.length++
	return nil
}

// RemoveAt removes and discards the element at index i.
func (a *Array) RemoveAt(i int) error {
	idx, err := normalizeIndex(i, a.length)
	if err != nil {
		return err
	}
	copy(a.backing[idx:a.length-1], a.backing[idx+1:a.length])
	a.length--
	a.backing[a.length] = value.Nil
	return nil
}

// Remove removes the first element equal to v, if any.
func (a *Array) Remove(v value.Value, eq EqualFn) (bool, error) {
	idx, err := a.Find(v, eq)
	if err != nil {
		return false, err
	}
	if idx < 0 {
		return false, nil
	}
	return true, a.RemoveAt(idx)
}

// Compare lexicographically compares two arrays with a bounded
// recursion depth (spec §4.5), delegating equal-length element
// comparisons to cmp.
func Compare(a, b *Array, cmp CompareFn, depth int) (int, error) {
	const maxDepth = 1000
	if depth > maxDepth {
		return 0, rterror.New(rterror.RuntimeError, "array comparison nested too deeply")
	}
	n := a.length
	if b.length < n {
		n = b.length
	}
	for i := 0; i < n; i++ {
		c, err := cmp(a.backing[i], b.backing[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case a.length < b.length:
		return -1, nil
	case a.length > b.length:
		return 1, nil
	default:
		return 0, nil
	}
}

// Iterator is a stateful index + snapshot length iterator (spec §4.5,
// §8 "Array mutation + iteration": "an iterator started before append
// visits only the snapshot-length prefix").
type Iterator struct {
	a      *Array
	idx    int
	length int
}

// NewIterator snapshots a's current length at creation time.
func (a *Array) NewIterator() *Iterator {
	return &Iterator{a: a, length: a.length}
}

// HasNext reports whether more elements remain in the snapshot.
func (it *Iterator) HasNext() bool { return it.idx < it.length }

// Next returns the next element and advances the iterator.
func (it *Iterator) Next() (value.Value, error) {
	if !it.HasNext() {
		return nil, rterror.New(rterror.RuntimeError, "iterator exhausted")
	}
	v := it.a.backing[it.idx]
	it.idx++
	return v, nil
}

// Elements returns a defensive copy of the live elements, for tests
// and for building a Tuple from an Array literal.
func (a *Array) Elements() []value.Value {
	out := make([]value.Value, a.length)
	copy(out, a.backing[:a.length])
	return out
}

// EqualFn and CompareFn let callers plug in user `_eq`/comparator
// overload dispatch without this package depending on package types.
type EqualFn func(a, b value.Value) (bool, error)
type CompareFn func(a, b value.Value) (int, error)

// DefaultEqual compares using only the built-in value.Equal rules (no
// user _eq overload).
func DefaultEqual(a, b value.Value) (bool, error) { return value.Equal(a, b, nil) }

// DefaultCompare compares using only the built-in value.Compare rules.
func DefaultCompare(a, b value.Value) (int, error) { return value.Compare(a, b, nil), nil }
