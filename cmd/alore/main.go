// Command alore is the VM runtime's CLI entry point (spec §6):
//
//	alore [options] program.alo [program-args...]
//
// The lexer/parser/compiler is an external collaborator (spec §1):
// this binary doesn't embed one. Instead it exposes a Compile hook a
// companion compiler package wires up via SetCompiler at init time --
// the same boundary spec §4.6 draws between "the runtime" and "the
// module loader". Without a registered compiler, alore reports
// ExitLaunchFailure and explains why, rather than fabricating one.
package main

import (
	"fmt"

	"alore.dev/runtime/internal/cmdmain"
	"alore.dev/runtime/internal/concurrent"
	"alore.dev/runtime/internal/config"
	"alore.dev/runtime/internal/heap"
	"alore.dev/runtime/internal/interp"
	"alore.dev/runtime/internal/rt"
	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/value"
)

// Compile turns a program path, its own argument vector, and the
// resolved boot configuration (heap cap, module search path -- spec
// §6 ALOREPATH) into a ready-to-run Interpreter and entry Function.
// nil until a compiler package's init calls SetCompiler.
var Compile func(programPath string, programArgs []string, boot *config.BootConfig) (*interp.Interpreter, *value.Function, error)

// SetCompiler installs the compiler hook.
func SetCompiler(fn func(string, []string, *config.BootConfig) (*interp.Interpreter, *value.Function, error)) {
	Compile = fn
}

type vmRunner struct{}

func (vmRunner) Run(opts *cmdmain.Options, programPath string, programArgs []string) (int, error) {
	boot := config.DefaultBootConfig()
	if opts.MaxHeap != "" {
		n, err := config.ParseByteSize(opts.MaxHeap)
		if err != nil {
			return cmdmain.ExitLaunchFailure, err
		}
		boot.HeapCap = n
	}

	if Compile == nil {
		cmdmain.Errorf("alore: no compiler registered for this build (lexer/parser/compiler is outside the runtime core's scope; see spec.md §1)\n")
		return cmdmain.ExitLaunchFailure, nil
	}

	ip, entry, err := Compile(programPath, programArgs, boot)
	if err != nil {
		cmdmain.Errorf("%s: %v\n", programPath, err)
		return cmdmain.ExitCheckError, nil
	}
	if opts.TypeCheckOnly {
		return cmdmain.ExitOK, nil
	}

	h := ip.Heap
	if h == nil {
		h = heap.New(nil)
	}
	vm, mainThread := concurrent.NewRuntime(h, 0)
	ip.Freezer = vm.Freezer
	ip.Tracer = rt.NewSafepointTracer(cmdmain.Stderr, opts.TraceSafepoints)

	argv := make([]value.Value, len(programArgs))
	for i, a := range programArgs {
		argv[i] = value.NarrowStr(a)
	}

	_, runErr := ip.Call(mainThread, entry, argv)
	if runErr == nil {
		return cmdmain.ExitOK, nil
	}

	if rterr, ok := runErr.(*rterror.Error); ok && rterr.Kind == rterror.ExitException {
		return rterr.ExitCode, nil
	}
	return cmdmain.ExitInternalFailure, fmt.Errorf("%s: %w", programPath, runErr)
}

func main() {
	cmdmain.Main(vmRunner{})
}
