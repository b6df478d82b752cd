package container

import "alore.dev/runtime/internal/value"

// Hooks lets Map/Set dispatch through a type's user-defined _hash/_eq
// overloads without this package depending on package types; the
// interpreter constructs a Hooks bound to a particular thread's
// overload dispatch and passes it to every Map/Set operation.
type Hooks struct {
	Hash func(value.Value) (int64, error)
	Eq   func(a, b value.Value) (bool, error)
}

// DefaultHooks uses only the built-in value.Hash/value.Equal rules
// (no user overload), suitable for tests and for keys known to be
// built-in kinds.
func DefaultHooks() Hooks {
	return Hooks{
		Hash: func(v value.Value) (int64, error) { return value.Hash(v, nil) },
		Eq:   func(a, b value.Value) (bool, error) { return value.Equal(a, b, nil) },
	}
}
