package interp

import "alore.dev/runtime/internal/value"

// Instr is one decoded instruction: an opcode plus up to four
// immediate operands. Their meaning is opcode-specific (see opcode.go);
// most read as local-slot indices, global indices, constant-pool
// indices, or relative jump offsets.
type Instr struct {
	Op         Op
	A, B, C, D int
}

// ExceptionRange maps a [Start, End) instruction-index range to the
// instruction index of its handler (spec §4.4 "Exceptions": "the
// compiler has supplied an exception table mapping opcode-index
// ranges to handler opcode indices").
type ExceptionRange struct {
	Start, End, Handler int
	// CatchLocal is the frame slot the caught exception value is
	// stored into before control transfers to Handler.
	CatchLocal int
}

// CodeObject is one compiled function body (spec §3.4, §4.4): its
// instruction stream, constant pool, frame layout, call-convention
// signature, and exception table.
type CodeObject struct {
	Name string

	Instrs []Instr
	Consts []value.Value

	// FrameSize is the total number of Value-typed slots the frame
	// needs beyond the fixed header: arguments plus locals plus
	// temporaries (spec §3.4 "Frame").
	FrameSize int

	// MinArgs/MaxArgs/HasVarArgs describe the call convention (spec
	// §4.4 "Call convention detail"). Args in [MinArgs, MaxArgs) are
	// optional and default to value.Default when the caller omits
	// them. A varargs tail is always the last slot when HasVarArgs.
	MinArgs    int
	MaxArgs    int
	HasVarArgs bool

	// ConstSlots marks which global indices are compiler-flagged
	// constant (spec §3.6 "A subset of globals is marked constant and
	// uses the untraced-reference write barrier"). This interpreter
	// treats the whole Globals array as an always-scanned GC root set
	// rather than barrier-tracking individual constant slots (there is
	// no Block backing the array itself to hang a barrier off), so
	// ConstSlots is carried for a future loader/compiler to consult
	// rather than read by OpStoreGlobal today.
	ConstSlots map[int]bool

	Exceptions []ExceptionRange
}

// HandlerFor returns the exception range enclosing pc, and whether
// one was found (spec §4.4: "a match transfers control to that
// handler"). The innermost (last-registered, hence last-matching in
// table order) enclosing range wins.
func (c *CodeObject) HandlerFor(pc int) (ExceptionRange, bool) {
	var best ExceptionRange
	found := false
	for _, r := range c.Exceptions {
		if pc >= r.Start && pc < r.End {
			best, found = r, true
		}
	}
	return best, found
}
