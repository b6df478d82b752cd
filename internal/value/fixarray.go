package value

// FixArray is a fixed-length, pointer-sized-slot array (spec §3.2,
// glossary "Fix-array"). It backs Array/Tuple storage and, as a
// length-1 instance, a closure "cell" for CREATE_EXPOSED (spec §4.4).
type FixArray []Value

func (FixArray) Kind() Kind { return KindFixArray }

// NewCell creates a one-element FixArray holding v, the representation
// CREATE_EXPOSED uses to make a captured local shareable between a
// frame and the closures that reference it (spec §4.4, §9).
func NewCell(v Value) FixArray { return FixArray{v} }
