package value

import (
	"strconv"
	"strings"
)

// LongInt is a heap-allocated arbitrary-precision integer: a sign bit
// plus a little-endian sequence of base-1e9 "digits" (spec §3.1,
// §4.1). Schoolbook algorithms are used throughout, matching
// _examples/original_source/src/std_int_long.c rather than wrapping
// math/big (see DESIGN.md's standard-library justification).
type LongInt struct {
	Negative bool
	// Digits is little-endian, base digitBase, with no trailing
	// (most-significant) zero digit except for the value zero itself,
	// which is represented as a single zero digit.
	Digits []uint32
}

func (*LongInt) Kind() Kind { return KindLongInt }

const digitBase = 1_000_000_000 // 1e9, fits two decimal digits short of uint32 overflow on add-carry

// LongIntFromInt64 converts a machine integer to a LongInt.
func LongIntFromInt64(n int64) *LongInt {
	neg := n < 0
	u := absU64(n)
	if u == 0 {
		return &LongInt{Digits: []uint32{0}}
	}
	var digits []uint32
	for u > 0 {
		digits = append(digits, uint32(u%digitBase))
		u /= digitBase
	}
	return &LongInt{Negative: neg, Digits: digits}
}

func (l *LongInt) isZero() bool {
	return len(l.Digits) == 0 || (len(l.Digits) == 1 && l.Digits[0] == 0)
}

func trim(d []uint32) []uint32 {
	n := len(d)
	for n > 1 && d[n-1] == 0 {
		n--
	}
	return d[:n]
}

// cmpMag compares magnitudes of a and b: -1, 0, 1.
func cmpMag(a, b []uint32) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func addMag(a, b []uint32) []uint32 {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]uint32, len(a)+1)
	var carry uint64
	for i := range a {
		s := uint64(a[i]) + carry
		if i < len(b) {
			s += uint64(b[i])
		}
		out[i] = uint32(s % digitBase)
		carry = s / digitBase
	}
	out[len(a)] = uint32(carry)
	return trim(out)
}

// subMag computes a-b assuming a >= b in magnitude.
func subMag(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	var borrow int64
	for i := range a {
		d := int64(a[i]) - borrow
		if i < len(b) {
			d -= int64(b[i])
		}
		if d < 0 {
			d += digitBase
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint32(d)
	}
	return trim(out)
}

func addLong(a, b *LongInt) *LongInt {
	if a.Negative == b.Negative {
		return &LongInt{Negative: a.Negative, Digits: addMag(a.Digits, b.Digits)}
	}
	// Different signs: subtract the smaller magnitude from the larger.
	c := cmpMag(a.Digits, b.Digits)
	switch {
	case c == 0:
		return &LongInt{Digits: []uint32{0}}
	case c > 0:
		return &LongInt{Negative: a.Negative, Digits: subMag(a.Digits, b.Digits)}
	default:
		return &LongInt{Negative: b.Negative, Digits: subMag(b.Digits, a.Digits)}
	}
}

func negateLI(a *LongInt) *LongInt {
	if a.isZero() {
		return a
	}
	return &LongInt{Negative: !a.Negative, Digits: a.Digits}
}

func subLong(a, b *LongInt) *LongInt { return addLong(a, negateLI(b)) }

func negLong(a *LongInt) *LongInt { return negateLI(a) }

func mulLong(a, b *LongInt) *LongInt {
	if a.isZero() || b.isZero() {
		return &LongInt{Digits: []uint32{0}}
	}
	out := make([]uint64, len(a.Digits)+len(b.Digits))
	for i, ad := range a.Digits {
		if ad == 0 {
			continue
		}
		var carry uint64
		for j, bd := range b.Digits {
			out[i+j] += uint64(ad)*uint64(bd) + carry
			carry = out[i+j] / digitBase
			out[i+j] %= digitBase
		}
		k := i + len(b.Digits)
		for carry > 0 {
			out[k] += carry
			carry = out[k] / digitBase
			out[k] %= digitBase
			k++
		}
	}
	digits := make([]uint32, len(out))
	for i, v := range out {
		digits[i] = uint32(v)
	}
	return &LongInt{Negative: a.Negative != b.Negative, Digits: trim(digits)}
}

// DivModLong implements schoolbook long division one base-digitBase
// digit at a time, without divisor normalization (spec §4.1). Division by zero is the caller's
// responsibility (ArithmeticError). Quotient truncates toward zero at
// the magnitude level; floor semantics (spec §8 division laws) are
// applied by the caller adjusting sign the same way IDivMod does for
// short ints.
func DivModLong(a, b *LongInt) (q, r *LongInt) {
	if cmpMag(a.Digits, b.Digits) < 0 {
		return &LongInt{Digits: []uint32{0}}, &LongInt{Negative: a.Negative, Digits: append([]uint32(nil), a.Digits...)}
	}
	// Simple base-digitBase long division: each quotient digit is
	// found by binary search over 0..digitBase-1, and that multiple of
	// b is subtracted from the running remainder; sufficient for the
	// digit counts this runtime deals with.
	rem := &LongInt{Digits: []uint32{0}}
	quotDigits := make([]uint32, len(a.Digits))
	bMag := &LongInt{Digits: b.Digits}
	for i := len(a.Digits) - 1; i >= 0; i-- {
		rem = &LongInt{Digits: addMag(shiftMag(rem.Digits, 1), []uint32{a.Digits[i]})}
		lo, hi := uint32(0), uint32(digitBase-1)
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if cmpMag(mulMagBySmall(bMag.Digits, mid), rem.Digits) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		quotDigits[i] = lo
		rem = &LongInt{Digits: subMag(rem.Digits, mulMagBySmall(bMag.Digits, lo))}
	}
	q = &LongInt{Negative: a.Negative != b.Negative, Digits: trim(quotDigits)}
	r = &LongInt{Negative: a.Negative, Digits: rem.Digits}
	if q.isZero() {
		q.Negative = false
	}
	if r.isZero() {
		r.Negative = false
	}
	return q, r
}

func shiftMag(d []uint32, n int) []uint32 {
	if len(d) == 1 && d[0] == 0 {
		return d
	}
	out := make([]uint32, len(d)+n)
	copy(out[n:], d)
	return trim(out)
}

func mulMagBySmall(d []uint32, m uint32) []uint32 {
	if m == 0 {
		return []uint32{0}
	}
	out := make([]uint64, len(d)+1)
	var carry uint64
	for i, v := range d {
		out[i] = uint64(v)*uint64(m) + carry
		carry = out[i] / digitBase
		out[i] %= digitBase
	}
	out[len(d)] = carry
	digits := make([]uint32, len(out))
	for i, v := range out {
		digits[i] = uint32(v)
	}
	return trim(digits)
}

// IDivModLong applies floor-division semantics on top of DivModLong,
// matching the short-int contract: (a idiv b)*b + (a mod b) == a and
// sign(a mod b) == sign(b) or zero.
func IDivModLong(a, b *LongInt) (q, r *LongInt) {
	q, r = DivModLong(a, b)
	if !r.isZero() && r.Negative != b.Negative {
		q = subLong(q, LongIntFromInt64(1))
		r = addLong(r, b)
	}
	return q, r
}

func cmpLong(a, b *LongInt) int {
	if a.Negative != b.Negative {
		if a.isZero() && b.isZero() {
			return 0
		}
		if a.Negative {
			return -1
		}
		return 1
	}
	c := cmpMag(a.Digits, b.Digits)
	if a.Negative {
		return -c
	}
	return c
}

// CmpLong returns -1, 0, 1 comparing two LongInts numerically.
func CmpLong(a, b *LongInt) int { return cmpLong(a, b) }

// String formats the long int in base 10. A [128]byte stack scratch
// buffer covers the common case (per spec §4.1's "stack-allocated
// scratch up to 128 chars before heap fallback"); longer values fall
// back to a strings.Builder.
func (l *LongInt) String() string {
	var scratch [128]byte
	buf := scratch[:0]
	if len(l.Digits)*9+1 <= len(scratch) {
		buf = appendLongDigits(buf, l)
		return string(buf)
	}
	var sb strings.Builder
	sb.Grow(len(l.Digits)*9 + 1)
	sb.Write(appendLongDigits(nil, l))
	return sb.String()
}

func appendLongDigits(buf []byte, l *LongInt) []byte {
	if l.Negative && !l.isZero() {
		buf = append(buf, '-')
	}
	d := l.Digits
	buf = strconv.AppendUint(buf, uint64(d[len(d)-1]), 10)
	for i := len(d) - 2; i >= 0; i-- {
		s := strconv.FormatUint(uint64(d[i]), 10)
		for pad := 9 - len(s); pad > 0; pad-- {
			buf = append(buf, '0')
		}
		buf = append(buf, s...)
	}
	return buf
}

// ParseLongInt parses a decimal string into a LongInt, accepting an
// optional leading sign, an optional radix prefix (0x/0o/0b), and
// underscore digit separators — supplemental detail recovered from
// _examples/original_source/src/strtonum.c (spec.md §4.1 describes
// "string-to-number" conversion without spelling out separators or
// prefixes).
func ParseLongInt(s string) (*LongInt, bool) {
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return nil, false
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	if s == "" {
		return nil, false
	}
	result := &LongInt{Digits: []uint32{0}}
	baseL := LongIntFromInt64(int64(base))
	for _, c := range s {
		var digit int
		switch {
		case c >= '0' && c <= '9':
			digit = int(c - '0')
		case c >= 'a' && c <= 'z':
			digit = int(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			digit = int(c-'A') + 10
		default:
			return nil, false
		}
		if digit >= base {
			return nil, false
		}
		result = mulLong(result, baseL)
		result = addLong(result, LongIntFromInt64(int64(digit)))
	}
	result.Negative = neg && !result.isZero()
	return result, true
}

// Int64 reports whether l fits in an int64 and, if so, its value.
func (l *LongInt) Int64() (int64, bool) {
	var acc int64
	for i := len(l.Digits) - 1; i >= 0; i-- {
		if acc > (1<<63-1)/digitBase {
			return 0, false
		}
		acc = acc*digitBase + int64(l.Digits[i])
		if acc < 0 {
			return 0, false
		}
	}
	if l.Negative {
		acc = -acc
	}
	return acc, true
}

// Normalize demotes a LongInt back to ShortInt when it now fits,
// which matters after subtraction/division narrow a previously
// promoted value.
func Normalize(l *LongInt) Value {
	if n, ok := l.Int64(); ok && InRange(n) {
		return ShortInt(n)
	}
	return l
}
