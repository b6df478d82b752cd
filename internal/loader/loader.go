// Package loader implements the runtime-side half of the module
// loader contract (spec §4.6, §6 "Module-init descriptors"): the two
// primitives the out-of-scope compiler/loader calls to reserve global
// slots for a module (allocate_module_globals, free_globals), the
// free-bucket chain that lets module unload return them, and
// installation of a module's exported functions/classes.
//
// The lexer/parser/compiler itself is an external collaborator (spec
// §1); this package only specifies what the runtime exposes to it.
package loader

import (
	"fmt"
	"sync"

	"alore.dev/runtime/internal/interp"
	"alore.dev/runtime/internal/value"
)

// BucketSize mirrors interp.GlobalBucketSize: modules are allocated a
// whole number of buckets so the free-bucket chain can return exactly
// what it was given (spec §3.6 "the array grows in buckets of a fixed
// power-of-two size; buckets form a linked list per module so module
// unload can return them to a free-bucket chain").
const BucketSize = interp.GlobalBucketSize

// Module is what allocate_module_globals hands back plus the
// bookkeeping the runtime keeps on the module's behalf.
type Module struct {
	Name       string
	FirstVar   int
	NumVars    int
	FirstConst int
	NumConsts  int

	// Public maps a public global identifier name to its global index
	// (spec §4.6: "a lookup from a module symbol to all its public
	// global identifiers" -- a scan of the symbol table filtered by
	// module and visibility; here the filtering is done at
	// registration time instead of at lookup time).
	Public map[string]int

	// Init is the compiler-returned init function, pinned here so it
	// can't be collected while the module is still loaded (spec §4.6
	// "The runtime pins the returned init function until the module
	// object is collected").
	Init *value.Function
}

// bucketRange is one contiguous run of free buckets.
type bucketRange struct {
	first int
	count int // in buckets
}

// Loader owns global-array growth, the free-bucket chain, and the
// module registry (spec §3.6, §4.6).
type Loader struct {
	ip *interp.Interpreter

	mu        sync.Mutex
	free      []bucketRange
	highWater int // first never-yet-allocated global index

	modules map[string]*Module
	byFirst map[int]*Module
}

// New creates a Loader over ip. reserved is the count of fixed-low
// globals the boot sequence has already installed (spec §3.6 "Core
// entities ... occupy fixed low indices") -- Loader starts allocating
// module globals after the bucket(s) covering them.
func New(ip *interp.Interpreter, reserved int) *Loader {
	buckets := (reserved + BucketSize - 1) / BucketSize
	if buckets == 0 {
		buckets = 1
	}
	hw := buckets * BucketSize
	ip.GrowGlobals(hw)
	return &Loader{
		ip:        ip,
		highWater: hw,
		modules:   make(map[string]*Module),
		byFirst:   make(map[int]*Module),
	}
}

// AllocateModuleGlobals reserves numVars variable slots and numConsts
// constant slots for a module named name, each rounded up to whole
// buckets (spec §4.6: "allocate_module_globals -> (first_var_index,
// first_const_index)"). It satisfies the request from the free-bucket
// chain first, growing the global array only when the chain can't.
func (l *Loader) AllocateModuleGlobals(name string, numVars, numConsts int) (firstVar, firstConst int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.modules[name]; exists {
		return 0, 0, fmt.Errorf("loader: module %q already loaded", name)
	}

	firstVar = l.allocBucketsLocked(numVars)
	firstConst = l.allocBucketsLocked(numConsts)

	mod := &Module{
		Name:       name,
		FirstVar:   firstVar,
		NumVars:    numVars,
		FirstConst: firstConst,
		NumConsts:  numConsts,
		Public:     make(map[string]int),
	}
	l.modules[name] = mod
	l.byFirst[firstVar] = mod
	return firstVar, firstConst, nil
}

func (l *Loader) allocBucketsLocked(n int) int {
	if n == 0 {
		return l.highWater
	}
	need := (n + BucketSize - 1) / BucketSize

	for i, fr := range l.free {
		if fr.count >= need {
			first := fr.first
			if fr.count == need {
				l.free = append(l.free[:i], l.free[i+1:]...)
			} else {
				l.free[i] = bucketRange{first: fr.first + need*BucketSize, count: fr.count - need}
			}
			return first
		}
	}

	first := l.highWater
	l.highWater += need * BucketSize
	l.ip.GrowGlobals(l.highWater)
	return first
}

// FreeGlobals returns a module's reserved globals to the free-bucket
// chain (spec §4.6 "free_globals(first_index)"), clearing them back
// to Nil/no-code and dropping the module from the registry.
func (l *Loader) FreeGlobals(firstIndex int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	mod, ok := l.byFirst[firstIndex]
	if !ok {
		return fmt.Errorf("loader: no module registered at global %d", firstIndex)
	}
	delete(l.modules, mod.Name)
	delete(l.byFirst, firstIndex)

	l.freeRangeLocked(mod.FirstVar, mod.NumVars)
	l.freeRangeLocked(mod.FirstConst, mod.NumConsts)
	return nil
}

func (l *Loader) freeRangeLocked(first, n int) {
	if n == 0 {
		return
	}
	buckets := (n + BucketSize - 1) / BucketSize
	for i := 0; i < buckets*BucketSize; i++ {
		l.ip.Globals[first+i] = value.Nil
		l.ip.Code[first+i] = nil
	}
	l.free = append(l.free, bucketRange{first: first, count: buckets})
}

// PinInit installs the compiler-returned init function for moduleName
// (spec §4.6 "then calls the init function returned by compilation").
func (l *Loader) PinInit(moduleName string, init *value.Function) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mod, ok := l.modules[moduleName]; ok {
		mod.Init = init
	}
}

// Lookup returns the Module registered under name, if any.
func (l *Loader) Lookup(name string) (*Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	mod, ok := l.modules[name]
	return mod, ok
}

// PublicGlobals returns a copy of every public global identifier name
// registered for moduleName, mapped to its global index (spec §4.6).
func (l *Loader) PublicGlobals(moduleName string) map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	mod, ok := l.modules[moduleName]
	if !ok {
		return nil
	}
	out := make(map[string]int, len(mod.Public))
	for k, v := range mod.Public {
		out[k] = v
	}
	return out
}
