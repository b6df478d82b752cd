package value

import (
	"math"
	"strconv"
)

// Float wraps an IEEE double (spec §3.1, §4.1).
type Float float64

func (Float) Kind() Kind { return KindFloat }

// String normalizes Inf/NaN spellings across platforms the way the
// original runtime does, rather than delegating to strconv's default
// "+Inf"/"-Inf"/"NaN" forms for every case.
func (f Float) String() string {
	switch {
	case math.IsNaN(float64(f)):
		return "nan"
	case math.IsInf(float64(f), 1):
		return "inf"
	case math.IsInf(float64(f), -1):
		return "-inf"
	default:
		return strconv.FormatFloat(float64(f), 'g', -1, 64)
	}
}

// DivShortInts implements short-int division, which always promotes
// to float (spec §4.1 "Division of short ints promotes to float").
func DivShortInts(a, b ShortInt) (Value, error) {
	if b == 0 {
		return nil, divByZero()
	}
	return Float(float64(a) / float64(b)), nil
}

// PowInt raises a short int to a non-negative integer power, staying
// in the integer domain with overflow promotion; a negative exponent
// is a ValueError (spec §4.1).
func PowInt(base ShortInt, exp ShortInt) (Value, error) {
	if exp < 0 {
		return nil, negativeExponent()
	}
	result := Value(ShortInt(1))
	b := Value(base)
	e := int64(exp)
	for e > 0 {
		if e&1 == 1 {
			result = mulValues(result, b)
		}
		e >>= 1
		if e > 0 {
			b = mulValues(b, b)
		}
	}
	return result, nil
}

func mulValues(a, b Value) Value {
	as, aok := a.(ShortInt)
	bs, bok := b.(ShortInt)
	if aok && bok {
		return MulInt(as, bs)
	}
	al, aok2 := toLong(a)
	bl, bok2 := toLong(b)
	if aok2 && bok2 {
		return Normalize(mulLong(al, bl))
	}
	return nil
}

func toLong(v Value) (*LongInt, bool) {
	switch t := v.(type) {
	case ShortInt:
		return LongIntFromInt64(int64(t)), true
	case *LongInt:
		return t, true
	}
	return nil, false
}
