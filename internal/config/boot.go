package config

import (
	"os"
	"path/filepath"
)

// Default tunables (spec §3.6, §5): the VM boots with a generous but
// bounded heap and an advisory cap of 256 live threads unless
// overridden.
const (
	DefaultHeapCap   int64 = 256 << 20
	DefaultThreadCap       = 256
)

// BootConfig holds the resolved VM boot parameters: heap cap, the
// advisory maximum live-thread count, and the module search path
// (spec §6 "ALOREPATH is a PATH_SEPARATOR-separated list of
// directories prepended to the default module search path").
type BootConfig struct {
	HeapCap    int64
	ThreadCap  int
	ModulePath []string
}

// DefaultBootConfig returns a BootConfig with the built-in defaults
// and the default module search path (just the current directory),
// with ALOREPATH entries prepended.
func DefaultBootConfig() *BootConfig {
	return &BootConfig{
		HeapCap:    DefaultHeapCap,
		ThreadCap:  DefaultThreadCap,
		ModulePath: ModuleSearchPath([]string{"."}),
	}
}

// LoadBootConfig reads an optional JSON config file (the `-jsonconfig`
// CLI option) and overlays it onto the defaults; a nil/empty path
// leaves the defaults untouched.
func LoadBootConfig(jsonPath string) (*BootConfig, error) {
	bc := DefaultBootConfig()
	if jsonPath == "" {
		return bc, nil
	}
	obj, err := ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	if s := obj.OptionalString("maxHeap", ""); s != "" {
		n, err := ParseByteSize(s)
		if err != nil {
			return nil, err
		}
		bc.HeapCap = n
	}
	bc.ThreadCap = obj.OptionalInt("threadCap", bc.ThreadCap)
	if extra := obj.OptionalList("modulePath"); extra != nil {
		bc.ModulePath = append(append([]string{}, extra...), bc.ModulePath...)
	}
	return bc, obj.Validate()
}

// ModuleSearchPath implements the ALOREPATH rule from spec §6: the
// environment variable is a filepath.ListSeparator-delimited list of
// directories prepended to defaultPath (the caller's built-in module
// roots, e.g. alongside the program file and an installed stdlib
// directory).
func ModuleSearchPath(defaultPath []string) []string {
	env := os.Getenv("ALOREPATH")
	if env == "" {
		return append([]string{}, defaultPath...)
	}
	extra := filepath.SplitList(env)
	return append(extra, defaultPath...)
}
