package value

import "math/bits"

// ShortInt is a fixed-width signed integer packed directly in the
// value word (spec §3.1). Its range is symmetric around zero and
// deliberately narrower than int64's full range so that arithmetic
// overflow can be detected and promoted to LongInt, mirroring a
// machine word that has sacrificed its two low bits to tagging.
type ShortInt int64

const (
	// ShortIntBits is the usable payload width once two tag bits are
	// reserved, matching a 64-bit word's encoding.
	ShortIntBits = 62
	MaxShortInt  = ShortInt(1<<(ShortIntBits-1) - 1)
	MinShortInt  = -MaxShortInt
)

func (ShortInt) Kind() Kind { return KindShortInt }

// InRange reports whether n fits in the short-int payload.
func InRange(n int64) bool {
	return n >= int64(MinShortInt) && n <= int64(MaxShortInt)
}

// Box wraps a machine int64 into a Value, promoting to LongInt if it
// falls outside the short-int range. Boxing never allocates for the
// short-int case.
func Box(n int64) Value {
	if InRange(n) {
		return ShortInt(n)
	}
	return LongIntFromInt64(n)
}

// Unbox is the inverse of Box for values known to be short ints.
func Unbox(v ShortInt) int64 { return int64(v) }

// AddInt adds two short ints, promoting to LongInt on overflow (spec
// §4.1, §8 "Integer overflow promotion").
func AddInt(a, b ShortInt) Value {
	sum := int64(a) + int64(b)
	if InRange(sum) {
		return ShortInt(sum)
	}
	return addLong(LongIntFromInt64(int64(a)), LongIntFromInt64(int64(b)))
}

// SubInt subtracts two short ints with overflow promotion.
func SubInt(a, b ShortInt) Value {
	diff := int64(a) - int64(b)
	if InRange(diff) {
		return ShortInt(diff)
	}
	return subLong(LongIntFromInt64(int64(a)), LongIntFromInt64(int64(b)))
}

// MulInt multiplies two short ints with overflow promotion, detected
// via bits.Mul64 on the absolute values so the check is exact even
// near the boundary (unlike a naive divide-back check).
func MulInt(a, b ShortInt) Value {
	hi, lo := bits.Mul64(absU64(int64(a)), absU64(int64(b)))
	neg := (a < 0) != (b < 0)
	if hi == 0 && lo>>63 == 0 && InRange(signedFromUnsigned(lo, neg)) {
		return ShortInt(signedFromUnsigned(lo, neg))
	}
	return mulLong(LongIntFromInt64(int64(a)), LongIntFromInt64(int64(b)))
}

// NegInt negates a short int. The short-int range is symmetric, so the
// negation always fits and the LongInt promotion branch is not taken;
// it is kept general for clarity.
func NegInt(a ShortInt) Value {
	n := -int64(a)
	if InRange(n) {
		return ShortInt(n)
	}
	return negLong(LongIntFromInt64(int64(a)))
}

func absU64(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

func signedFromUnsigned(u uint64, neg bool) int64 {
	if neg {
		return -int64(u)
	}
	return int64(u)
}

// IDivMod implements floor division and modulus for short ints: both
// round toward negative infinity and satisfy
// (a idiv b) * b + (a mod b) == a with sign(a mod b) == sign(b)
// (spec §4.1, §8 "Division laws"). Division by zero is the caller's
// responsibility to reject before calling (spec §4.1 ArithmeticError).
func IDivMod(a, b ShortInt) (q, m ShortInt) {
	qq := int64(a) / int64(b)
	rr := int64(a) % int64(b)
	if rr != 0 && (rr < 0) != (int64(b) < 0) {
		qq--
		rr += int64(b)
	}
	return ShortInt(qq), ShortInt(rr)
}

// CmpInt returns -1, 0, 1 comparing two short ints.
func CmpInt(a, b ShortInt) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
