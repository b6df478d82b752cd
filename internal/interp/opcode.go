// Package interp implements the bytecode interpreter (spec §3.4,
// §4.4): stack frames, the opcode dispatch loop, the call-convention
// argument binder, and exception/finally unwinding.
package interp

// Op is one interpreter opcode. Operands are fixed-width immediates
// carried directly on the Instr rather than trailing the opcode in a
// byte stream, since Go has no portable computed-goto to exploit a
// packed instruction encoding — spec §4.4 calls that an optional
// optimization, not a requirement.
type Op uint8

const (
	OpNop Op = iota

	// Moves (spec §4.4 "Moves").
	OpLoadConst   // locals[A] = code.Consts[B]
	OpMoveLocal   // locals[A] = locals[B]
	OpLoadGlobal  // locals[A] = globals[B]
	OpStoreGlobal // globals[B] = locals[A]
	OpLoadNil     // locals[A] = Nil
	OpGetMember   // locals[A] = member B of locals[A] (direct slot or getter call)
	OpSetMember   // member B of locals[A] = locals[C] (direct slot or setter call)

	// Arithmetic (spec §4.4 "Arithmetic").
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIDiv
	OpMod
	OpPow
	OpNeg

	// Comparisons and branches: each tests locals[A] against locals[B]
	// (Neg/unary forms unused here) and jumps by offset C when true
	// (spec §4.4 "Comparisons and branches").
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpIn
	OpIs
	OpIsNot

	// Container ops (spec §4.4 "Container ops").
	OpAGet // locals[A] = locals[B][locals[C]]
	OpASet // locals[A][locals[B]] = locals[C]

	// Calls (spec §4.4 "Calls").
	OpCallL // call locals[B] (callable) with args locals[C:C+argc], result into locals[A]
	OpCallG // call globals[B], same arg/result convention
	OpCallM // call member B of locals[C] (method dispatch), args follow C

	// Flow (spec §4.4 "Flow").
	OpJmp          // unconditional relative jump by A
	OpForInit      // initialize a FOR_LOOP over locals[B], result state in locals[A]
	OpForLoop      // advance the state in locals[B]; on exhaustion jump by relative offset A, else locals[C] = next element
	OpTry          // push an exception-context entry on the thread; handlers come from Code.Exceptions, A is unused
	OpTryEnd       // pop the innermost exception-context frame
	OpLeaveFinally // inspect the three-slot finally state block at A and act
	OpRaiseL       // raise locals[A] as the current exception
	OpRet          // return Nil
	OpRetL         // return locals[A]

	// Sequence construction (spec §4.4 "Sequence construction").
	OpCreateArray // locals[A] = Array(locals[B:B+C])
	OpCreateTuple // locals[A] = Tuple(locals[B:B+C])
	OpExpand      // destructure locals[B] (Array/Tuple) into locals[A:A+C]

	// Closures (spec §4.4 "Closures").
	OpCreateExposed // locals[A] = cell(locals[A]) -- wraps a local in a one-element fix-array
	OpCreateAnon    // locals[A] = closure(global B, cells locals[C:C+D])
)
