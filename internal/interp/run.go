package interp

import (
	"alore.dev/runtime/internal/concurrent"
	"alore.dev/runtime/internal/container"
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/types"
	"alore.dev/runtime/internal/value"
)

// runFrame is the opcode dispatch loop (spec §4.4). It executes code
// against locals until a RET/RET_L, an unhandled raise (returned as
// an error), or falling off the end of the instruction stream
// (treated as an implicit `return nil`).
func (ip *Interpreter) runFrame(th *concurrent.Thread, code *CodeObject, locals []value.Value) (value.Value, error) {
	hook := ip.overloadHook(th)
	pc := 0

	// raise looks for an enclosing handler in code's exception table;
	// if none exists, it returns the error to the caller, which is
	// either another runFrame's OpCall handling (checked below) or
	// Interpreter.Call's caller (spec §4.4: "a frame with no handler
	// discards itself").
	raise := func(err error) (int, bool) {
		r, ok := code.HandlerFor(pc)
		if !ok {
			return 0, false
		}
		locals[r.CatchLocal] = wrapErr(err)
		return r.Handler, true
	}

	for {
		if pc < 0 || pc >= len(code.Instrs) {
			return value.Nil, nil
		}
		in := code.Instrs[pc]

		switch in.Op {
		case OpNop:
			pc++

		case OpLoadConst:
			locals[in.A] = code.Consts[in.B]
			pc++
		case OpMoveLocal:
			locals[in.A] = locals[in.B]
			pc++
		case OpLoadGlobal:
			locals[in.A] = ip.Globals[in.B]
			pc++
		case OpStoreGlobal:
			ip.Globals[in.B] = locals[in.A]
			pc++
		case OpLoadNil:
			locals[in.A] = value.Nil
			pc++

		case OpGetMember:
			v, err := ip.getMember(th, locals[in.A], types.MemberID(in.B), in.D == 1)
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			locals[in.A] = v
			pc++
		case OpSetMember:
			if err := ip.setMember(th, locals[in.A], types.MemberID(in.B), locals[in.C], in.D == 1); err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			pc++

		case OpAdd, OpSub, OpMul, OpDiv, OpIDiv, OpMod, OpPow:
			v, err := arith(in.Op, locals[in.B], locals[in.C], hook)
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			locals[in.A] = v
			pc++
		case OpNeg:
			v, err := value.Neg(locals[in.B], hook)
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			locals[in.A] = v
			pc++

		case OpEq, OpNeq:
			eq, err := value.Equal(locals[in.A], locals[in.B], hook)
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			if in.Op == OpNeq {
				eq = !eq
			}
			pc = branch(pc, in.C, eq)
		case OpLt, OpLte, OpGt, OpGte:
			c := value.Compare(locals[in.A], locals[in.B], hook)
			var ok bool
			switch in.Op {
			case OpLt:
				ok = c < 0
			case OpLte:
				ok = c <= 0
			case OpGt:
				ok = c > 0
			case OpGte:
				ok = c >= 0
			}
			pc = branch(pc, in.C, ok)
		case OpIs:
			pc = branch(pc, in.C, locals[in.A] == locals[in.B])
		case OpIsNot:
			pc = branch(pc, in.C, locals[in.A] != locals[in.B])
		case OpIn:
			found, err := ip.inOp(th, locals[in.A], locals[in.B])
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			pc = branch(pc, in.C, found)

		case OpAGet:
			v, err := ip.aget(locals[in.B], locals[in.C])
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			locals[in.A] = v
			pc++
		case OpASet:
			if err := ip.aset(locals[in.A], locals[in.B], locals[in.C]); err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			pc++

		case OpCallL, OpCallG:
			var callee value.Value
			if in.Op == OpCallL {
				callee = locals[in.B]
			} else {
				callee = ip.Globals[in.B]
			}
			args := locals[in.C : in.C+in.D]
			v, err := ip.Call(th, callee, args)
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			locals[in.A] = v
			pc++
		case OpCallM:
			receiver := locals[in.C]
			args := locals[in.C+1 : in.C+1+in.D]
			v, err := ip.callMethod(th, receiver, types.MemberID(in.B), false, args)
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			locals[in.A] = v
			pc++

		case OpJmp:
			if in.A < 0 {
				ip.safepoint(th, pc)
			}
			pc = pc + 1 + in.A
		case OpForInit:
			st, err := ip.forInit(th, locals[in.B])
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			locals[in.A] = st
			pc++
		case OpForLoop:
			st, ok := locals[in.B].(*forIterState)
			if !ok {
				return nil, rterror.New(rterror.RuntimeError, "FOR_LOOP on non-iterator state")
			}
			v, more, err := ip.forLoop(th, st)
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			if !more {
				pc = pc + 1 + in.A
				continue
			}
			locals[in.C] = v
			pc++

		case OpTry:
			th.PushExceptionContext(0)
			pc++
		case OpTryEnd:
			th.PopExceptionContext()
			pc++
		case OpLeaveFinally:
			status, ok := locals[in.A].(value.ShortInt)
			if !ok {
				return nil, rterror.New(rterror.RuntimeError, "corrupt finally state block")
			}
			switch int(status) {
			case finallyContinue:
				pc++
			case finallyReturn:
				return locals[in.A+1], nil
			case finallyRaise:
				err := unwrapErr(locals[in.A+1])
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			default:
				return nil, rterror.New(rterror.RuntimeError, "corrupt finally state block")
			}
		case OpRaiseL:
			err := unwrapErr(locals[in.A])
			if np, ok := raise(err); ok {
				pc = np
				continue
			}
			return nil, err

		case OpRet:
			return value.Nil, nil
		case OpRetL:
			return locals[in.A], nil

		case OpCreateArray:
			locals[in.A] = container.NewArray(locals[in.B : in.B+in.C]...)
			pc++
		case OpCreateTuple:
			locals[in.A] = container.NewTuple(locals[in.B : in.B+in.C]...)
			pc++
		case OpExpand:
			elems, err := expandElements(locals[in.B], in.C)
			if err != nil {
				if np, ok := raise(err); ok {
					pc = np
					continue
				}
				return nil, err
			}
			copy(locals[in.A:in.A+in.C], elems)
			pc++

		case OpCreateExposed:
			locals[in.A] = value.NewCell(locals[in.A])
			pc++
		case OpCreateAnon:
			cells := make(value.FixArray, in.D)
			copy(cells, locals[in.C:in.C+in.D])
			locals[in.A] = Closure{GlobalIndex: in.B, Cells: cells}
			pc++

		default:
			return nil, rterror.New(rterror.RuntimeError, "unknown opcode %d", in.Op)
		}
	}
}

// branch returns the post-branch pc: pc+1+offset when taken is true
// (matching OpJmp's own pc+1+offset convention), else pc+1.
func branch(pc, offset int, taken bool) int {
	if taken {
		return pc + 1 + offset
	}
	return pc + 1
}

func arith(op Op, a, b value.Value, hook value.OverloadHook) (value.Value, error) {
	switch op {
	case OpAdd:
		return value.Add(a, b, hook)
	case OpSub:
		return value.Sub(a, b, hook)
	case OpMul:
		return value.Mul(a, b, hook)
	case OpDiv:
		return value.Div(a, b, hook)
	case OpIDiv:
		return value.IDiv(a, b, hook)
	case OpMod:
		return value.Mod(a, b, hook)
	case OpPow:
		return value.Pow(a, b, hook)
	}
	return nil, rterror.New(rterror.RuntimeError, "not an arithmetic opcode")
}

// expandElements implements OpExpand's destructuring source (spec
// §4.4 "EXPAND (multi-assign destructuring)"): src must be an Array
// or Tuple with exactly want elements.
func expandElements(src value.Value, want int) ([]value.Value, error) {
	var elems []value.Value
	switch s := src.(type) {
	case *container.Array:
		elems = s.Elements()
	case *container.Tuple:
		elems = s.Elements()
	default:
		return nil, rterror.New(rterror.TypeError, "cannot expand %s", src.Kind())
	}
	if len(elems) != want {
		return nil, rterror.New(rterror.ValueError, "expected %d values to unpack, got %d", want, len(elems))
	}
	return elems, nil
}
