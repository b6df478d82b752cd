package value

// Hash computes the built-in hash for a value (spec §4.5 "Hash/eq
// invariant"): equal values hash equal, and the hash is reduced to a
// machine int for bucket selection. User types supply their own
// _hash via the overload hook; this function covers only the
// built-in kinds container.Map/Set need directly.
func Hash(v Value, overload func(Value) (Value, bool, error)) (int64, error) {
	switch t := v.(type) {
	case ShortInt:
		return int64(t), nil
	case *LongInt:
		return hashLongInt(t), nil
	case Float:
		return int64(t), nil
	case NarrowStr:
		return int64(hashRunes(Runes(t))), nil
	case WideStr:
		return int64(hashRunes(t)), nil
	case SubStr:
		return int64(hashRunes(Runes(t))), nil
	case Pair:
		hl, err := Hash(t.Left, overload)
		if err != nil {
			return 0, err
		}
		hr, err := Hash(t.Right, overload)
		if err != nil {
			return 0, err
		}
		return hl*31 + hr, nil
	}
	switch v {
	case Nil:
		return 0, nil
	case True:
		return 1, nil
	case False:
		return 2, nil
	}
	if overload != nil {
		hv, ok, err := overload(v)
		if err != nil {
			return 0, err
		}
		if ok {
			switch h := hv.(type) {
			case ShortInt:
				return int64(h), nil
			case *LongInt:
				return hashLongInt(h), nil
			}
		}
	}
	// Fallback: identity hash for reference-kind values without a
	// user-defined _hash, e.g. plain instances used as map keys by
	// reference identity.
	return identityHash(v), nil
}

func hashRunes(r []uint16) uint32 {
	var h uint32 = 2166136261 // FNV-1a offset basis
	for _, c := range r {
		h ^= uint32(c)
		h *= 16777619
	}
	return h
}

// hashLongInt reduces a LongInt's digit sequence to a machine int by
// sign/digit accumulation (spec §4.5).
func hashLongInt(l *LongInt) int64 {
	var h int64
	for i := len(l.Digits) - 1; i >= 0; i-- {
		h = h*1000003 + int64(l.Digits[i])
	}
	if l.Negative {
		h = -h
	}
	return h
}

func identityHash(v Value) int64 {
	switch t := v.(type) {
	case *Instance:
		return int64(uintptr(ptrOf(t)))
	case *Function:
		return int64(uintptr(ptrOf(t)))
	case *TypeValue:
		return int64(uintptr(ptrOf(t)))
	}
	return 0
}
