package interp

import (
	"alore.dev/runtime/internal/concurrent"
	"alore.dev/runtime/internal/container"
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/value"
)

func indexInt(v value.Value) (int, error) {
	si, ok := v.(value.ShortInt)
	if !ok {
		return 0, rterror.New(rterror.TypeError, "index must be an Int, not %s", v.Kind())
	}
	return int(si), nil
}

// aget implements OpAGET's specialized inline Array/string/Map/Tuple
// paths (spec §4.4 "Container ops").
func (ip *Interpreter) aget(recv, index value.Value) (value.Value, error) {
	switch c := recv.(type) {
	case *container.Array:
		i, err := indexInt(index)
		if err != nil {
			return nil, err
		}
		return c.Get(i)
	case *container.Tuple:
		i, err := indexInt(index)
		if err != nil {
			return nil, err
		}
		return c.Get(i)
	case *container.Map:
		v, ok, err := c.Get(index)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, rterror.New(rterror.KeyError, "key not found")
		}
		return v, nil
	case value.NarrowStr, value.WideStr, value.SubStr:
		i, err := indexInt(index)
		if err != nil {
			return nil, err
		}
		runes := value.Runes(c)
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return nil, rterror.New(rterror.IndexError, "string index out of range: %d", i)
		}
		return value.SubStr{Base: c, Offset: i, Length: 1}, nil
	case value.FixArray:
		i, err := indexInt(index)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(c) {
			return nil, rterror.New(rterror.IndexError, "fix-array index out of range: %d", i)
		}
		return c[i], nil
	}
	return nil, rterror.New(rterror.TypeError, "%s is not indexable", recv.Kind())
}

// aset implements OpASET.
func (ip *Interpreter) aset(recv, index, val value.Value) error {
	switch c := recv.(type) {
	case *container.Array:
		i, err := indexInt(index)
		if err != nil {
			return err
		}
		return c.Set(i, val)
	case *container.Map:
		return c.Set(index, val)
	case *container.Tuple:
		return rterror.New(rterror.TypeError, "Tuple does not support item assignment")
	case value.FixArray:
		i, err := indexInt(index)
		if err != nil {
			return err
		}
		if i < 0 || i >= len(c) {
			return rterror.New(rterror.IndexError, "fix-array index out of range: %d", i)
		}
		c[i] = val
		return nil
	}
	return rterror.New(rterror.TypeError, "%s does not support item assignment", recv.Kind())
}

// inOp implements the IN comparison opcode.
func (ip *Interpreter) inOp(th *concurrent.Thread, elem, recv value.Value) (bool, error) {
	switch c := recv.(type) {
	case *container.Array:
		idx, err := c.Find(elem, ip.eqFn(th))
		return idx >= 0, err
	case *container.Set:
		return c.Has(elem)
	case *container.Map:
		return c.Has(elem)
	case value.NarrowStr, value.WideStr, value.SubStr:
		needle := value.Runes(elem)
		hay := value.Runes(c)
		return containsRunes(hay, needle), nil
	}
	return false, rterror.New(rterror.TypeError, "argument of type %s is not iterable", recv.Kind())
}

func containsRunes(hay, needle []uint16) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (ip *Interpreter) eqFn(th *concurrent.Thread) container.EqualFn {
	hook := ip.overloadHook(th)
	return func(a, b value.Value) (bool, error) { return value.Equal(a, b, hook) }
}

// forIterState is the runtime state object FOR_INIT stores and
// FOR_LOOP advances (spec §4.4 "FOR_INIT / FOR_LOOP"). It implements
// value.Value purely so it can occupy a frame local slot like any
// other value; it is never heap-tracked or user-visible.
type forIterState struct {
	kind int // 0 = array, 1 = range of short ints, 2 = generic iterator

	arrIt *container.Iterator

	cur, stop int64
	closed    bool

	genIter value.Value
}

func (*forIterState) Kind() value.Kind { return value.KindInstance }

var (
	symIterator = "iterator"
	symHasNext  = "hasNext"
	symNext     = "next"
)

// forInit implements OpForInit.
func (ip *Interpreter) forInit(th *concurrent.Thread, src value.Value) (*forIterState, error) {
	switch s := src.(type) {
	case *container.Array:
		return &forIterState{kind: 0, arrIt: s.NewIterator()}, nil
	case value.Range:
		start, ok1 := s.Start.(value.ShortInt)
		stop, ok2 := s.Stop.(value.ShortInt)
		if !ok1 || !ok2 {
			return nil, rterror.New(rterror.TypeError, "range bounds must be Int for iteration")
		}
		return &forIterState{kind: 1, cur: int64(start), stop: int64(stop), closed: s.Closed}, nil
	}
	id := ip.Intern(symIterator)
	iter, err := ip.callMethod(th, src, id, false, nil)
	if err != nil {
		return nil, err
	}
	return &forIterState{kind: 2, genIter: iter}, nil
}

// forLoop implements OpForLoop: it reports whether iteration is
// exhausted and, if not, the next element.
func (ip *Interpreter) forLoop(th *concurrent.Thread, st *forIterState) (value.Value, bool, error) {
	switch st.kind {
	case 0:
		if !st.arrIt.HasNext() {
			return nil, false, nil
		}
		v, err := st.arrIt.Next()
		return v, true, err
	case 1:
		more := st.cur < st.stop
		if st.closed {
			more = st.cur <= st.stop
		}
		if !more {
			return nil, false, nil
		}
		v := value.ShortInt(st.cur)
		st.cur++
		return v, true, nil
	case 2:
		hasID := ip.Intern(symHasNext)
		has, err := ip.callMethod(th, st.genIter, hasID, false, nil)
		if err != nil {
			return nil, false, err
		}
		truth, ok := value.IsTruthy(has)
		if !ok {
			return nil, false, rterror.New(rterror.TypeError, "hasNext() must return a Boolean")
		}
		if !truth {
			return nil, false, nil
		}
		nextID := ip.Intern(symNext)
		v, err := ip.callMethod(th, st.genIter, nextID, false, nil)
		return v, true, err
	}
	return nil, false, rterror.New(rterror.RuntimeError, "corrupt iterator state")
}
