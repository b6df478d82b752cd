package value

import (
	"math"

	"alore.dev/runtime/internal/rterror"
)

func divByZero() error {
	return rterror.New(rterror.ArithmeticError, "integer division or modulo by zero")
}

func negativeExponent() error {
	return rterror.New(rterror.ValueError, "negative exponent to integer power")
}

func noCoercion(op string, a, b Value) error {
	return rterror.New(rterror.TypeError, "unsupported operand types for %s: %s and %s", op, a.Kind(), b.Kind())
}

// OverloadHook lets the interpreter supply user-defined operator
// overload dispatch (e.g. `_add`) without this package importing the
// dispatch machinery in package types. Add/Sub/... call it only after
// every built-in fast path has been ruled out.
type OverloadHook func(op string, a, b Value) (Value, bool, error)

// Add implements the ADD opcode's full promotion ladder: short-int
// fast path, long-int/float promotion, string concatenation, and
// falling through to an operator-overload hook (spec §4.1, §4.4).
func Add(a, b Value, overload OverloadHook) (Value, error) {
	if as, ok := a.(ShortInt); ok {
		if bs, ok := b.(ShortInt); ok {
			return AddInt(as, bs), nil
		}
	}
	if isNumeric(a) && isNumeric(b) {
		return numericOp(a, b, AddInt, addLong, func(x, y Float) Float { return x + y })
	}
	if isString(a) && isString(b) {
		return ConcatStr(a, b), nil
	}
	return tryOverload("_add", a, b, overload)
}

func Sub(a, b Value, overload OverloadHook) (Value, error) {
	if as, ok := a.(ShortInt); ok {
		if bs, ok := b.(ShortInt); ok {
			return SubInt(as, bs), nil
		}
	}
	if isNumeric(a) && isNumeric(b) {
		return numericOp(a, b, SubInt, subLong, func(x, y Float) Float { return x - y })
	}
	return tryOverload("_sub", a, b, overload)
}

func Mul(a, b Value, overload OverloadHook) (Value, error) {
	if as, ok := a.(ShortInt); ok {
		if bs, ok := b.(ShortInt); ok {
			return MulInt(as, bs), nil
		}
	}
	if isNumeric(a) && isNumeric(b) {
		return numericOp(a, b, MulInt, mulLong, func(x, y Float) Float { return x * y })
	}
	if n, ok := repeatCount(a, b); ok {
		s, str := stringOperand(a, b)
		if str {
			return RepeatStr(s, n), nil
		}
	}
	return tryOverload("_mul", a, b, overload)
}

func repeatCount(a, b Value) (int, bool) {
	if n, ok := b.(ShortInt); ok {
		return int(n), true
	}
	if n, ok := a.(ShortInt); ok {
		return int(n), true
	}
	return 0, false
}

func stringOperand(a, b Value) (Value, bool) {
	if isString(a) {
		return a, true
	}
	if isString(b) {
		return b, true
	}
	return nil, false
}

// Div always promotes to float for numeric operands (spec §4.1).
func Div(a, b Value, overload OverloadHook) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return tryOverload("_div", a, b, overload)
	}
	fa, fb := toFloat(a), toFloat(b)
	if fb == 0 {
		return nil, divByZero()
	}
	return Float(fa / fb), nil
}

// IDiv and Mod implement floor division/modulus for integer operands
// (spec §4.1, §8 "Division laws"). Any other operand pair, floats
// included, goes to the overload hook and, with no matching overload,
// raises TypeError.
func IDiv(a, b Value, overload OverloadHook) (Value, error) {
	q, _, err := idivmod(a, b)
	if err != nil {
		if _, isOverloadCandidate := err.(noOverloadCandidate); isOverloadCandidate {
			return tryOverload("_idiv", a, b, overload)
		}
		return nil, err
	}
	return q, nil
}

func Mod(a, b Value, overload OverloadHook) (Value, error) {
	_, r, err := idivmod(a, b)
	if err != nil {
		if _, isOverloadCandidate := err.(noOverloadCandidate); isOverloadCandidate {
			return tryOverload("_mod", a, b, overload)
		}
		return nil, err
	}
	return r, nil
}

type noOverloadCandidate struct{}

func (noOverloadCandidate) Error() string { return "not an integer pair" }

func idivmod(a, b Value) (q, r Value, err error) {
	as, aok := a.(ShortInt)
	bs, bok := b.(ShortInt)
	if aok && bok {
		if bs == 0 {
			return nil, nil, divByZero()
		}
		qq, rr := IDivMod(as, bs)
		return qq, rr, nil
	}
	al, aok2 := toLong(a)
	bl, bok2 := toLong(b)
	if aok2 && bok2 {
		if bl.isZero() {
			return nil, nil, divByZero()
		}
		qq, rr := IDivModLong(al, bl)
		return Normalize(qq), Normalize(rr), nil
	}
	return nil, nil, noOverloadCandidate{}
}

// Pow implements integer exponentiation with promotion, and float
// exponentiation for any float operand (spec §4.1).
func Pow(a, b Value, overload OverloadHook) (Value, error) {
	if as, ok := a.(ShortInt); ok {
		if bs, ok := b.(ShortInt); ok {
			return PowInt(as, bs)
		}
	}
	if e, ok := b.(ShortInt); ok {
		if _, ok := a.(*LongInt); ok {
			if e < 0 {
				return nil, negativeExponent()
			}
			result, base := Value(ShortInt(1)), a
			for ; e > 0; e >>= 1 {
				if e&1 == 1 {
					result = mulValues(result, base)
				}
				if e > 1 {
					base = mulValues(base, base)
				}
			}
			return result, nil
		}
	}
	if isNumeric(a) && isNumeric(b) {
		return Float(math.Pow(toFloat(a), toFloat(b))), nil
	}
	return tryOverload("_pow", a, b, overload)
}

// Neg implements unary negation.
func Neg(a Value, overload OverloadHook) (Value, error) {
	switch t := a.(type) {
	case ShortInt:
		return NegInt(t), nil
	case *LongInt:
		return Normalize(negLong(t)), nil
	case Float:
		return -t, nil
	}
	v, ok, err := overload("_neg", a, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, rterror.New(rterror.TypeError, "bad operand type for unary -: %s", a.Kind())
	}
	return v, nil
}

func tryOverload(op string, a, b Value, overload OverloadHook) (Value, error) {
	if overload == nil {
		return nil, noCoercion(op, a, b)
	}
	v, ok, err := overload(op, a, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, noCoercion(op, a, b)
	}
	return v, nil
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case ShortInt, *LongInt, Float:
		return true
	}
	return false
}

func isString(v Value) bool {
	switch v.(type) {
	case NarrowStr, WideStr, SubStr:
		return true
	}
	return false
}

func toFloat(v Value) float64 {
	switch t := v.(type) {
	case ShortInt:
		return float64(t)
	case *LongInt:
		f, _ := t.Int64()
		return float64(f)
	case Float:
		return float64(t)
	}
	return 0
}

func numericOp(a, b Value, shortOp func(ShortInt, ShortInt) Value, longOp func(*LongInt, *LongInt) *LongInt, floatOp func(Float, Float) Float) (Value, error) {
	_, aFloat := a.(Float)
	_, bFloat := b.(Float)
	if aFloat || bFloat {
		return floatOp(Float(toFloat(a)), Float(toFloat(b))), nil
	}
	al, _ := toLong(a)
	bl, _ := toLong(b)
	return Normalize(longOp(al, bl)), nil
}

// Equal implements `==`, dispatching by kind the way spec §4.1/§4.5
// describe for built-in types; user `_eq` overloads are handled by
// the overload hook when neither operand is a built-in kind pair this
// function understands.
func Equal(a, b Value, overload OverloadHook) (bool, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		return Compare(a, b, nil) == 0, nil
	case isString(a) && isString(b):
		return EqualStr(a, b), nil
	case a == Nil || b == Nil:
		return a == b, nil
	case a == True || a == False || b == True || b == False:
		return a == b, nil
	}
	if pa, ok := a.(Pair); ok {
		if pb, ok := b.(Pair); ok {
			eqL, err := Equal(pa.Left, pb.Left, overload)
			if err != nil || !eqL {
				return false, err
			}
			return Equal(pa.Right, pb.Right, overload)
		}
	}
	if overload != nil {
		v, ok, err := overload("_eq", a, b)
		if err != nil {
			return false, err
		}
		if ok {
			truth, _ := IsTruthy(v)
			return truth, nil
		}
	}
	return a == b, nil
}

// Compare implements ordering comparisons (LT/LTE/GT/GTE), returning
// -1/0/1, for numeric and string kinds. Any other pair returns 0; the
// overload hook is not consulted.
func Compare(a, b Value, overload OverloadHook) int {
	switch {
	case isNumeric(a) && isNumeric(b):
		if as, ok := a.(ShortInt); ok {
			if bs, ok := b.(ShortInt); ok {
				return CmpInt(as, bs)
			}
		}
		if _, aFloat := a.(Float); !aFloat {
			if _, bFloat := b.(Float); !bFloat {
				// Neither operand is a Float: both are ShortInt/LongInt,
				// so compare exactly via CmpLong rather than rounding
				// through float64, which loses precision past 2^53
				// (spec §8 "Integer overflow promotion").
				al, _ := toLong(a)
				bl, _ := toLong(b)
				return CmpLong(al, bl)
			}
		}
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	case isString(a) && isString(b):
		return CompareStr(a, b)
	}
	return 0
}
