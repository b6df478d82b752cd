package container

import (
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/value"
)

// Tuple is an immutable fixed-length sequence (spec §4.5 "Tuple"),
// backed directly by a value.FixArray since it never grows or shrinks
// after construction.
type Tuple struct {
	elems value.FixArray
}

// NewTuple copies elems into a new Tuple.
func NewTuple(elems ...value.Value) *Tuple {
	t := &Tuple{elems: make(value.FixArray, len(elems))}
	copy(t.elems, elems)
	return t
}

// Len returns the element count.
func (t *Tuple) Len() int { return len(t.elems) }

// Get returns the element at index i, with negative-index wraparound.
func (t *Tuple) Get(i int) (value.Value, error) {
	idx, err := normalizeIndex(i, len(t.elems))
	if err != nil {
		return nil, err
	}
	return t.elems[idx], nil
}

// Slice returns a new Tuple over [start, stop), honoring the
// AGET open-ended form the same way Array.Slice does.
func (t *Tuple) Slice(start, stop int, openEnded bool) (*Tuple, error) {
	s, err := clampSliceIndex(start, len(t.elems))
	if err != nil {
		return nil, err
	}
	e := len(t.elems)
	if !openEnded {
		e, err = clampSliceIndex(stop, len(t.elems))
		if err != nil {
			return nil, err
		}
	}
	if e < s {
		e = s
	}
	return NewTuple(t.elems[s:e]...), nil
}

// Concat implements `+`.
func (t *Tuple) Concat(o *Tuple) *Tuple {
	out := make(value.FixArray, len(t.elems)+len(o.elems))
	copy(out, t.elems)
	copy(out[len(t.elems):], o.elems)
	return &Tuple{elems: out}
}

// Repeat implements `*` by a non-negative integer count.
func (t *Tuple) Repeat(n int) *Tuple {
	if n <= 0 {
		return NewTuple()
	}
	out := make(value.FixArray, 0, len(t.elems)*n)
	for i := 0; i < n; i++ {
		out = append(out, t.elems...)
	}
	return &Tuple{elems: out}
}

// Elements returns a defensive copy, mirroring Array.Elements.
func (t *Tuple) Elements() []value.Value {
	out := make([]value.Value, len(t.elems))
	copy(out, t.elems)
	return out
}

// Equal implements structural equality across equal-length tuples.
func (t *Tuple) Equal(o *Tuple, eq EqualFn) (bool, error) {
	if len(t.elems) != len(o.elems) {
		return false, nil
	}
	for i := range t.elems {
		ok, err := eq(t.elems[i], o.elems[i])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// CompareTuples lexicographically compares two tuples the same way
// Compare does for Array.
func CompareTuples(a, b *Tuple, cmp CompareFn) (int, error) {
	n := len(a.elems)
	if len(b.elems) < n {
		n = len(b.elems)
	}
	for i := 0; i < n; i++ {
		c, err := cmp(a.elems[i], b.elems[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case len(a.elems) < len(b.elems):
		return -1, nil
	case len(a.elems) > len(b.elems):
		return 1, nil
	default:
		return 0, nil
	}
}

// Unpack validates that t has exactly n elements, for multiple
// assignment (`var a, b, c = someTuple`); a mismatch is a ValueError
// (spec §7).
func (t *Tuple) Unpack(n int) ([]value.Value, error) {
	if len(t.elems) != n {
		return nil, rterror.New(rterror.ValueError, "tuple has %d elements, expected %d", len(t.elems), n)
	}
	return t.Elements(), nil
}
