package hoshi

import (
	"sort"
	"sync"
)

// Presence is the bit flag collected while decoding a record.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was kept.
	PresenceCoerced                             // Value went through a coercion rule.
)

// PresenceMap maps JSON Pointers (for example /user/name) to Presence flags.
type PresenceMap map[string]Presence

// Has reports whether every bit of want is set for path.
func (pm PresenceMap) Has(path string, want Presence) bool {
	return pm[path]&want == want
}

// Paths returns the recorded pointers in ascending order.
func (pm PresenceMap) Paths() []string {
	out := make([]string, 0, len(pm))
	for p := range pm {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Decoded carries the decoded value along with presence metadata and the
// issues met on the way. Issues never abort a decode.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
	Issues   Issues
}

// simple string interner for PresenceMap keys
var (
	_internMu   sync.RWMutex
	_internPool = map[string]string{}
)

func internString(s string) string {
	_internMu.RLock()
	if v, ok := _internPool[s]; ok {
		_internMu.RUnlock()
		return v
	}
	_internMu.RUnlock()

	_internMu.Lock()
	if v, ok := _internPool[s]; ok { // double-check
		_internMu.Unlock()
		return v
	}
	_internPool[s] = s
	_internMu.Unlock()
	return s
}
