package argspec

import (
	"maps"
	"slices"
	"time"
)

// Source tells where a resolved value came from.
type Source uint8

const (
	// SourceUnset means the entry has no value: it was absent and has no default.
	SourceUnset Source = iota
	// SourceInput means the value was written on the command line.
	SourceInput
	// SourceDefault means the declared default (or false for a flag) was used.
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourceDefault:
		return "default"
	default:
		return "unset"
	}
}

type resolvedValue struct {
	value  any
	source Source
}

// ParsedResult is the outcome of a successful resolution. Flags resolve to a
// bool, FlagArgs and Positionals to the value their parse function produced.
// It is built once by the resolver and read-only afterwards.
type ParsedResult struct {
	reg    *Registry
	values map[string]resolvedValue
	groups map[string]Choice
	args   []string // loose values in input order
}

func newParsedResult(reg *Registry, size int) *ParsedResult {
	return &ParsedResult{
		reg:    reg,
		values: make(map[string]resolvedValue, size),
	}
}

func (r *ParsedResult) set(e *Entry, v any, src Source) {
	r.values[e.long] = resolvedValue{value: v, source: src}
}

// Has reports whether name resolved to a value, from input or a default.
func (r *ParsedResult) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Value returns the resolved value of the entry with the given long name.
func (r *ParsedResult) Value(name string) (any, bool) {
	rv, ok := r.values[name]
	return rv.value, ok
}

// Source reports whether name came from the command line or a default.
func (r *ParsedResult) Source(name string) Source {
	return r.values[name].source
}

// Flag returns true if the flag was present.
func (r *ParsedResult) Flag(name string) bool {
	v, _ := Get[bool](r, name)
	return v
}

// String returns a string value, or "" if unset or not a string.
func (r *ParsedResult) String(name string) string {
	v, _ := Get[string](r, name)
	return v
}

// Int returns an int value, or 0 if unset or not an int.
func (r *ParsedResult) Int(name string) int {
	v, _ := Get[int](r, name)
	return v
}

// Duration returns a time.Duration value, or 0 if unset.
func (r *ParsedResult) Duration(name string) time.Duration {
	v, _ := Get[time.Duration](r, name)
	return v
}

// Group returns the chosen alternative of a group. ok is false for an
// optional group nobody chose (and for unknown group names).
func (r *ParsedResult) Group(name string) (Choice, bool) {
	c, ok := r.groups[name]
	return c, ok
}

// Positionals returns the positional values in declaration order. Unset
// positionals are nil.
func (r *ParsedResult) Positionals() []any {
	if r.reg == nil {
		return nil
	}
	out := make([]any, len(r.reg.positionals))
	for i, e := range r.reg.positionals {
		out[i] = r.values[e.long].value
	}
	return out
}

// Args returns the raw loose values in the order they were written.
func (r *ParsedResult) Args() []string {
	return slices.Clone(r.args)
}

// Names returns the names of every resolved entry, sorted.
func (r *ParsedResult) Names() []string {
	return slices.Sorted(maps.Keys(r.values))
}

// Map returns a copy of the resolved values keyed by long name.
func (r *ParsedResult) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for name, rv := range r.values {
		out[name] = rv.value
	}
	return out
}

// Get returns the resolved value of name as T. ok is false when the entry has
// no value or holds a different type.
func Get[T any](r *ParsedResult, name string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	rv, ok := r.values[name]
	if !ok {
		return zero, false
	}
	v, ok := rv.value.(T)
	return v, ok
}
