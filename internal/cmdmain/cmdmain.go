// Package cmdmain implements the shared CLI driver for the `alore`
// binary (spec §6), adapted from the teacher's pkg/cmdmain: the same
// flag-var declarations, Stdin/Stdout/Stderr indirections (so tests
// can swap them), and an Exit indirection in place of a direct
// os.Exit call -- but driving a single program invocation instead of
// a camget/camput-style subcommand table, since `alore` takes a
// program file and its own arguments rather than a mode name.
package cmdmain

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Exit codes (spec §6 "Exit codes"): 0 normal; 1 compile or
// type-check error; 2 failure to launch the type checker; 99
// unrecoverable internal failure. A user Exit(n) call propagates n
// directly via ExitError.
const (
	ExitOK              = 0
	ExitCheckError      = 1
	ExitLaunchFailure   = 2
	ExitInternalFailure = 99
)

// ExitError lets Run report the user-level Exit(n) builtin's result
// code directly instead of going through the generic internal-failure
// path.
type ExitError struct{ Code int }

func (e *ExitError) Error() string { return fmt.Sprintf("program called Exit(%d)", e.Code) }

var (
	FlagVersion    = flag.Bool("v", false, "print version and exit")
	flagVersionLong = flag.Bool("version", false, "print version and exit")
	FlagCheckOnly  = flag.Bool("c", false, "type-check only, then exit")
	FlagCheckThenRun = flag.Bool("t", false, "type-check, then run")
	FlagDump       = flag.Bool("d", false, "dump compiled code (debug builds only)")
	FlagMaxHeap    = flag.String("max-heap", "", "cap the heap size, with an optional k|M|G suffix")

	// Debug-build-only flags (spec §6 "debug-only -m, -T, -a addr,
	// -Dn N, -Df N, -Dl N"). DebugBuild gates whether Main honors them;
	// a release build leaves it false and these flags are parsed but
	// ignored.
	FlagTraceMem   = flag.Bool("m", false, "trace memory allocation (debug builds only)")
	FlagTraceSafepoints = flag.Bool("T", false, "trace safepoint checks (debug builds only)")
	FlagBreakAddr  = flag.String("a", "", "break at address (debug builds only)")
	FlagDebugN     = flag.Int("Dn", 0, "debug heap knob N (debug builds only)")
	FlagDebugF     = flag.Int("Df", 0, "debug frame knob N (debug builds only)")
	FlagDebugL     = flag.Int("Dl", 0, "debug loop-count knob N (debug builds only)")
)

// DebugBuild reports whether this binary honors the debug-only flags.
// It defaults to false, and no code in this repository sets it.
var DebugBuild = false

var (
	// Indirections for replacement by tests.
	Stderr io.Writer = os.Stderr
	Stdout io.Writer = os.Stdout
	Stdin  io.Reader = os.Stdin

	Exit = realExit
)

func realExit(code int) { os.Exit(code) }

// Errorf writes a formatted message to Stderr.
func Errorf(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, format, args...)
}

func usage(msg string) {
	if msg != "" {
		Errorf("Error: %s\n\n", msg)
	}
	Errorf("Usage: alore [options] program.alo [program-args...]\n\nOptions:\n")
	flag.PrintDefaults()
}

// Options is the parsed command line, handed to Runner.Run.
type Options struct {
	TypeCheckOnly    bool
	TypeCheckThenRun bool
	Dump             bool
	MaxHeap          string

	TraceMem        bool
	TraceSafepoints bool
	BreakAddr       string
	DebugN          int
	DebugF          int
	DebugL          int
}

// Runner is implemented by the `alore` binary's entry point: it
// receives the parsed options, the program path, and the program's
// own argument vector (spec §6 "alore [options] program.alo
// [program-args...]").
type Runner interface {
	Run(opts *Options, programPath string, programArgs []string) (exitCode int, err error)
}

// Version is the build version string printed for -v; it is "dev"
// unless overridden at link time (-ldflags -X).
var Version = "dev"

// Main parses the command line and dispatches to r. Every path,
// including the version flag, ends by calling Exit, so tests can
// observe the code without killing the test binary.
func Main(r Runner) {
	flag.Parse()

	if *FlagVersion || *flagVersionLong {
		fmt.Fprintf(Stdout, "alore version %s\n", Version)
		Exit(ExitOK)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage("no program given")
		Exit(ExitLaunchFailure)
		return
	}

	opts := &Options{
		TypeCheckOnly:    *FlagCheckOnly,
		TypeCheckThenRun: *FlagCheckThenRun,
		Dump:             *FlagDump && DebugBuild,
		MaxHeap:          *FlagMaxHeap,
	}
	if DebugBuild {
		opts.TraceMem = *FlagTraceMem
		opts.TraceSafepoints = *FlagTraceSafepoints
		opts.BreakAddr = *FlagBreakAddr
		opts.DebugN = *FlagDebugN
		opts.DebugF = *FlagDebugF
		opts.DebugL = *FlagDebugL
	}

	code, err := r.Run(opts, args[0], args[1:])
	if ee, ok := err.(*ExitError); ok {
		Exit(ee.Code)
		return
	}
	if err != nil {
		Errorf("Error: %v\n", err)
	}
	Exit(code)
}
