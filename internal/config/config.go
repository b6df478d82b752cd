// Package config defines a helper type for JSON objects used as VM
// boot configuration (heap cap, thread cap, module search path),
// adapted from the teacher's jsonconfig helper: the same deferred-error
// accessor pattern, but aimed at `internal/cmdmain`'s flag parsing and
// an optional `-jsonconfig` file instead of a server config tree.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Obj is a JSON configuration map.
type Obj map[string]interface{}

// ReadFile reads and decodes a JSON config file into an Obj.
func ReadFile(path string) (Obj, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return Obj(m), nil
}

func (jc Obj) RequiredObject(key string) Obj { return jc.obj(key, false) }
func (jc Obj) OptionalObject(key string) Obj  { return jc.obj(key, true) }

func (jc Obj) obj(key string, optional bool) Obj {
	jc.noteKnownKey(key)
	ei, ok := jc[key]
	if !ok {
		if optional {
			return make(Obj)
		}
		jc.appendError(fmt.Errorf("missing required config key %q (object)", key))
		return make(Obj)
	}
	m, ok := ei.(map[string]interface{})
	if !ok {
		jc.appendError(fmt.Errorf("expected config key %q to be an object, not %T", key, ei))
		return make(Obj)
	}
	return Obj(m)
}

func (jc Obj) RequiredString(key string) string      { return jc.string(key, nil) }
func (jc Obj) OptionalString(key, def string) string { return jc.string(key, &def) }

func (jc Obj) string(key string, def *string) string {
	jc.noteKnownKey(key)
	ei, ok := jc[key]
	if !ok {
		if def != nil {
			return *def
		}
		jc.appendError(fmt.Errorf("missing required config key %q (string)", key))
		return ""
	}
	s, ok := ei.(string)
	if !ok {
		jc.appendError(fmt.Errorf("expected config key %q to be a string", key))
		return ""
	}
	return s
}

func (jc Obj) RequiredBool(key string) bool      { return jc.bool(key, nil) }
func (jc Obj) OptionalBool(key string, def bool) bool { return jc.bool(key, &def) }

func (jc Obj) bool(key string, def *bool) bool {
	jc.noteKnownKey(key)
	ei, ok := jc[key]
	if !ok {
		if def != nil {
			return *def
		}
		jc.appendError(fmt.Errorf("missing required config key %q (boolean)", key))
		return false
	}
	b, ok := ei.(bool)
	if !ok {
		jc.appendError(fmt.Errorf("expected config key %q to be a boolean", key))
		return false
	}
	return b
}

func (jc Obj) RequiredInt(key string) int      { return jc.int(key, nil) }
func (jc Obj) OptionalInt(key string, def int) int { return jc.int(key, &def) }

func (jc Obj) int(key string, def *int) int {
	jc.noteKnownKey(key)
	ei, ok := jc[key]
	if !ok {
		if def != nil {
			return *def
		}
		jc.appendError(fmt.Errorf("missing required config key %q (integer)", key))
		return 0
	}
	switch v := ei.(type) {
	case float64:
		return int(v)
	case string:
		n, err := ParseByteSize(v)
		if err != nil {
			jc.appendError(fmt.Errorf("config key %q: %v", key, err))
			return 0
		}
		return int(n)
	}
	jc.appendError(fmt.Errorf("expected config key %q to be a number or size string, not %T", key, ei))
	return 0
}

func (jc Obj) RequiredList(key string) []string { return jc.list(key, true) }
func (jc Obj) OptionalList(key string) []string { return jc.list(key, false) }

func (jc Obj) list(key string, required bool) []string {
	jc.noteKnownKey(key)
	ei, ok := jc[key]
	if !ok {
		if required {
			jc.appendError(fmt.Errorf("missing required config key %q (list of strings)", key))
		}
		return nil
	}
	eil, ok := ei.([]interface{})
	if !ok {
		jc.appendError(fmt.Errorf("expected config key %q to be a list, not %T", key, ei))
		return nil
	}
	sl := make([]string, len(eil))
	for i, e := range eil {
		s, ok := e.(string)
		if !ok {
			jc.appendError(fmt.Errorf("expected config key %q index %d to be a string, not %T", key, i, e))
			return nil
		}
		sl[i] = s
	}
	return sl
}

func (jc Obj) noteKnownKey(key string) {
	if _, ok := jc["_knownkeys"]; !ok {
		jc["_knownkeys"] = make(map[string]bool)
	}
	jc["_knownkeys"].(map[string]bool)[key] = true
}

func (jc Obj) appendError(err error) {
	if ei, ok := jc["_errors"]; ok {
		jc["_errors"] = append(ei.([]error), err)
	} else {
		jc["_errors"] = []error{err}
	}
}

func (jc Obj) lookForUnknownKeys() {
	var known map[string]bool
	if ei, ok := jc["_knownkeys"]; ok {
		known = ei.(map[string]bool)
	}
	for k := range jc {
		if known[k] {
			continue
		}
		if strings.HasPrefix(k, "_") {
			continue
		}
		jc.appendError(fmt.Errorf("unknown config key %q", k))
	}
}

// Validate reports every deferred error accumulated by accessor calls,
// plus any key never consumed by one.
func (jc Obj) Validate() error {
	jc.lookForUnknownKeys()
	ei, ok := jc["_errors"]
	if !ok {
		return nil
	}
	errList := ei.([]error)
	if len(errList) == 1 {
		return errList[0]
	}
	strs := make([]string, 0, len(errList))
	for _, e := range errList {
		strs = append(strs, e.Error())
	}
	return fmt.Errorf("multiple config errors: %s", strings.Join(strs, "; "))
}
