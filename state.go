package pathway

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Key names an entry in a State.
type Key = string

// Conventional keys.
const (
	// DefaultResultKey is the result key used when a definition sets none.
	DefaultResultKey Key = "result"
	// InputKey holds the caller's input in a fresh State.
	InputKey Key = "input"
)

// State is the key/value container threaded through one pipeline call.
// It is seeded from the definition context merged with the caller's input
// and only ever grows: there is no deletion.
//
// A State belongs to exactly one call and is never accessed concurrently.
// Insertion order is kept for debugging output only.
type State struct {
	values    map[Key]any
	resultKey Key
	keys      []Key
}

// NewState builds a State holding the context entries followed by input
// under InputKey. Context keys are inserted in sorted order so identical
// inputs always produce identical States.
func NewState(resultKey Key, context map[Key]any, input any) *State {
	if resultKey == "" {
		resultKey = DefaultResultKey
	}
	s := &State{
		resultKey: resultKey,
		values:    make(map[Key]any, len(context)+1),
		keys:      make([]Key, 0, len(context)+1),
	}
	s.Update(context)
	s.Set(InputKey, input)
	return s
}

// Get returns the value stored at key, or nil when absent.
func (s *State) Get(key Key) any {
	return s.values[key]
}

// Lookup returns the value stored at key and whether it exists.
func (s *State) Lookup(key Key) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Contains reports whether key has an entry.
func (s *State) Contains(key Key) bool {
	_, ok := s.values[key]
	return ok
}

// Set stores value at key and returns the State for chaining.
func (s *State) Set(key Key, value any) *State {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return s
}

// Update merges entries into the State in sorted key order and returns it.
func (s *State) Update(entries map[Key]any) *State {
	for _, k := range slices.Sorted(maps.Keys(entries)) {
		s.Set(k, entries[k])
	}
	return s
}

// ResultKey returns the key projected as the pipeline's result.
func (s *State) ResultKey() Key {
	return s.resultKey
}

// Result returns the value stored at the result key.
func (s *State) Result() any {
	return s.values[s.resultKey]
}

// Snapshot returns a copy of all entries.
func (s *State) Snapshot() map[Key]any {
	return maps.Clone(s.values)
}

// Keys returns the keys in insertion order.
func (s *State) Keys() []Key {
	return slices.Clone(s.keys)
}

// Len returns the number of entries.
func (s *State) Len() int {
	return len(s.keys)
}

// Clone returns a shallow copy. Values themselves are shared.
func (s *State) Clone() *State {
	return &State{
		resultKey: s.resultKey,
		values:    maps.Clone(s.values),
		keys:      slices.Clone(s.keys),
	}
}

// Swap returns a new State holding only entries, with the same result key.
// Replacement steps use it to substitute the whole State at once.
func (s *State) Swap(entries map[Key]any) *State {
	fresh := &State{
		resultKey: s.resultKey,
		values:    make(map[Key]any, len(entries)),
		keys:      make([]Key, 0, len(entries)),
	}
	return fresh.Update(entries)
}

// String renders entries in insertion order.
func (s *State) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, s.values[k])
	}
	b.WriteByte('}')
	return b.String()
}

// As returns the entry at key converted to V.
// It reports false when the key is absent or holds another type.
func As[V any](s *State, key Key) (V, bool) {
	v, ok := s.values[key].(V)
	return v, ok
}
