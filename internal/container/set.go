package container

import "alore.dev/runtime/internal/value"

// Set is Alore's hash set (spec §4.5 "Set"), grounded on
// _examples/original_source/src/set_module.c, which reuses the same
// open-addressing table as Map with an absent value slot. This
// package models that reuse directly: a Set wraps a Map whose values
// are unused.
type Set struct {
	m *Map
}

// NewSet creates an empty Set using the given hooks.
func NewSet(hooks Hooks) *Set { return &Set{m: NewMap(hooks)} }

// Len reports the number of elements.
func (s *Set) Len() int { return s.m.Len() }

// Add inserts v, returning whether it was newly added.
func (s *Set) Add(v value.Value) (bool, error) {
	had, err := s.m.Has(v)
	if err != nil {
		return false, err
	}
	if had {
		return false, nil
	}
	return true, s.m.Set(v, value.Nil)
}

// Remove deletes v, returning whether it was present.
func (s *Set) Remove(v value.Value) (bool, error) { return s.m.Delete(v) }

// Has reports whether v is a member.
func (s *Set) Has(v value.Value) (bool, error) { return s.m.Has(v) }

// Elements returns every member, in table order.
func (s *Set) Elements() []value.Value { return s.m.Keys() }

// Union returns a new Set containing every element of s or o.
func (s *Set) Union(o *Set) (*Set, error) {
	out := NewSet(s.m.hooks)
	for _, v := range s.Elements() {
		if _, err := out.Add(v); err != nil {
			return nil, err
		}
	}
	for _, v := range o.Elements() {
		if _, err := out.Add(v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Intersection returns a new Set containing elements present in both.
func (s *Set) Intersection(o *Set) (*Set, error) {
	out := NewSet(s.m.hooks)
	for _, v := range s.Elements() {
		has, err := o.Has(v)
		if err != nil {
			return nil, err
		}
		if has {
			if _, err := out.Add(v); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Difference returns a new Set of elements in s but not in o.
func (s *Set) Difference(o *Set) (*Set, error) {
	out := NewSet(s.m.hooks)
	for _, v := range s.Elements() {
		has, err := o.Has(v)
		if err != nil {
			return nil, err
		}
		if !has {
			if _, err := out.Add(v); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// IsSubset reports whether every element of s is also in o.
func (s *Set) IsSubset(o *Set) (bool, error) {
	for _, v := range s.Elements() {
		has, err := o.Has(v)
		if err != nil {
			return false, err
		}
		if !has {
			return false, nil
		}
	}
	return true, nil
}
