// Completion: 100% - Feature set complete
package feature

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// set.go - Feature sets
//
// A Set is the parsed form of a feature-modifier string: an ordered list of
// (name, enabled) entries. The resolver applies the entries front to back, so a
// later "-crc" undoes an earlier "+crc". Repeating an entry is harmless because
// every field setter is idempotent.

// Entry is one feature toggle
type Entry struct {
	Name    string
	Enabled bool
}

// String returns the modifier form, e.g. "+neon" or "-crc"
func (e Entry) String() string {
	if e.Enabled {
		return "+" + e.Name
	}
	return "-" + e.Name
}

// Set is an ordered collection of feature toggles
type Set struct {
	entries []Entry
	names   mapset.Set[string]
}

// NewSet creates a set from the given entries, in order
func NewSet(entries ...Entry) Set {
	var s Set
	for _, e := range entries {
		s.Add(e.Name, e.Enabled)
	}
	return s
}

// Enable is shorthand for a set that turns on every named feature
func Enable(names ...string) Set {
	var s Set
	for _, name := range names {
		s.Add(name, true)
	}
	return s
}

// Add appends a toggle. Only construction code calls this; a Set handed to
// the resolver is not modified again.
func (s *Set) Add(name string, enabled bool) {
	if s.names == nil {
		s.names = mapset.NewThreadUnsafeSet[string]()
	}
	s.entries = append(s.entries, Entry{Name: name, Enabled: enabled})
	s.names.Add(name)
}

// Clone returns a set that shares no storage with s
func (s Set) Clone() Set {
	return NewSet(s.entries...)
}

// Concat returns a new set with the entries of s followed by those of other
func (s Set) Concat(other Set) Set {
	out := NewSet(s.entries...)
	for _, e := range other.entries {
		out.Add(e.Name, e.Enabled)
	}
	return out
}

// Len returns the number of entries, duplicates included
func (s Set) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entries in application order
func (s Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Mentions returns true if any entry names the feature
func (s Set) Mentions(name string) bool {
	return s.names != nil && s.names.Contains(name)
}

// Enabled returns the final state of a feature after all entries, and
// whether the set mentions it at all
func (s Set) Enabled(name string) (enabled, mentioned bool) {
	for _, e := range s.entries {
		if e.Name == name {
			enabled, mentioned = e.Enabled, true
		}
	}
	return enabled, mentioned
}

// Names returns the distinct feature names in first-mention order
func (s Set) Names() []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	for _, e := range s.entries {
		if seen.Add(e.Name) {
			out = append(out, e.Name)
		}
	}
	return out
}

// Apply calls fn for every entry in order
func (s Set) Apply(fn func(name string, enabled bool)) {
	for _, e := range s.entries {
		fn(e.Name, e.Enabled)
	}
}

// String returns the comma separated modifier form
func (s Set) String() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}
