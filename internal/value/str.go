package value

import "strings"

// NarrowStr is an immutable 8-bit-character string (spec §3.1, §4.1).
type NarrowStr string

func (NarrowStr) Kind() Kind { return KindNarrowStr }

// WideStr is an immutable 16-bit-character string, used once any
// character in the string exceeds the 8-bit range.
type WideStr []uint16

func (WideStr) Kind() Kind { return KindWideStr }

// SubStr is a view into a narrow or wide string: base value plus
// offset and length, sharing the backing storage (spec §3.1, §3.2).
// Base must be a NarrowStr or WideStr.
type SubStr struct {
	Base   Value
	Offset int
	Length int
}

func (SubStr) Kind() Kind { return KindSubStr }

// Runes returns the code-point sequence of any string-kind value,
// resolving substrings and narrow/wide representations uniformly.
// This is the common denominator used by concatenation, comparison,
// equality, and indexing.
func Runes(v Value) []uint16 {
	switch s := v.(type) {
	case NarrowStr:
		out := make([]uint16, len(s))
		for i := 0; i < len(s); i++ {
			out[i] = uint16(s[i])
		}
		return out
	case WideStr:
		return s
	case SubStr:
		base := Runes(s.Base)
		end := s.Offset + s.Length
		if end > len(base) {
			end = len(base)
		}
		if s.Offset > end {
			return nil
		}
		return base[s.Offset:end]
	}
	return nil
}

// IsWide reports whether a string-kind value requires 16-bit storage.
func IsWide(v Value) bool {
	switch s := v.(type) {
	case WideStr:
		return true
	case SubStr:
		return IsWide(s.Base)
	default:
		return false
	}
}

// ConcatStr concatenates two string-kind values. narrow+narrow stays
// narrow; any wide participant promotes the result to wide (spec §4.1,
// §8 "String concat").
func ConcatStr(a, b Value) Value {
	if !IsWide(a) && !IsWide(b) {
		return NarrowStr(string(narrowBytes(a)) + string(narrowBytes(b)))
	}
	out := make(WideStr, 0, len(Runes(a))+len(Runes(b)))
	out = append(out, Runes(a)...)
	out = append(out, Runes(b)...)
	return out
}

func narrowBytes(v Value) []byte {
	r := Runes(v)
	b := make([]byte, len(r))
	for i, c := range r {
		b[i] = byte(c)
	}
	return b
}

// RepeatStr implements string repetition by a non-negative integer
// count (spec §4.1, §8 "ab" * 3 == "ababab").
func RepeatStr(s Value, n int) Value {
	if n <= 0 {
		if IsWide(s) {
			return WideStr{}
		}
		return NarrowStr("")
	}
	if !IsWide(s) {
		return NarrowStr(strings.Repeat(string(narrowBytes(s)), n))
	}
	r := Runes(s)
	out := make(WideStr, 0, len(r)*n)
	for i := 0; i < n; i++ {
		out = append(out, r...)
	}
	return out
}

// EqualStr compares two string-kind values by code-point sequence.
func EqualStr(a, b Value) bool {
	ra, rb := Runes(a), Runes(b)
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if ra[i] != rb[i] {
			return false
		}
	}
	return true
}

// CompareStr lexicographically compares two string-kind values by
// code-point sequence, returning -1, 0, 1.
func CompareStr(a, b Value) int {
	ra, rb := Runes(a), Runes(b)
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	for i := 0; i < n; i++ {
		if ra[i] != rb[i] {
			if ra[i] < rb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	default:
		return 0
	}
}

// StrLen returns the code-point length of a string-kind value.
func StrLen(v Value) int { return len(Runes(v)) }
