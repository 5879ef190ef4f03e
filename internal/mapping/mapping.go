// =============================================================================
// Dyad Splitter - Field Mapping
// =============================================================================
//
// A Mapping declares, for each output column, which input column feeds the
// "first" output row and which feeds the "second" output row. The header of
// the output file is the list of first-column names.
//
// EXAMPLE:
//   entries: (id, p_id), (age, age_p)
//   header:  id, age
//   input:   id=1 p_id=2 age=30 age_p=31
//   output:  1,30
//            2,31
//
// A Mapping is built once at startup and never mutated, so it can be shared
// by reference between goroutines.
//
// =============================================================================

package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMapping is returned by New when no entries are given.
var ErrEmptyMapping = errors.New("mapping has no columns")

// Entry pairs the input column for the first projection with the input column
// for the second projection of one output column.
type Entry struct {
	First  string
	Second string
}

// String renders the entry as "first/second".
func (e Entry) String() string {
	return e.First + "/" + e.Second
}

// Mapping is the immutable field mapping of a run.
type Mapping struct {
	entries   []Entry
	exempt    map[int]struct{}
	unmatched []string
}

// New builds a Mapping from its entries and the names of the exempt columns.
//
// Exempt names are matched against Entry.First. Names that match nothing are
// kept aside (see UnmatchedExempt) rather than rejected.
func New(entries []Entry, exempt []string) (*Mapping, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyMapping
	}

	m := &Mapping{
		entries: make([]Entry, len(entries)),
		exempt:  make(map[int]struct{}),
	}

	for i, e := range entries {
		if strings.TrimSpace(e.First) == "" || strings.TrimSpace(e.Second) == "" {
			return nil, fmt.Errorf("entry %d (%s): column names must not be blank", i+1, e)
		}
		m.entries[i] = e
	}

	seen := make(map[string]bool, len(exempt))
	for _, name := range exempt {
		if seen[name] {
			continue
		}
		seen[name] = true

		matched := false
		for i, e := range m.entries {
			if e.First == name {
				m.exempt[i] = struct{}{}
				matched = true
			}
		}
		if !matched {
			m.unmatched = append(m.unmatched, name)
		}
	}

	return m, nil
}

// Len returns the number of output columns.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the mapping entries.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// HeaderNames returns the output header.
func (m *Mapping) HeaderNames() []string {
	return m.FirstColumns()
}

// FirstColumns returns the input columns of the first projection, in order.
func (m *Mapping) FirstColumns() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.First
	}
	return out
}

// SecondColumns returns the input columns of the second projection, in order.
func (m *Mapping) SecondColumns() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Second
	}
	return out
}

// ExemptIndexes returns the positions whose blankness never suppresses a pair.
func (m *Mapping) ExemptIndexes() map[int]struct{} {
	out := make(map[int]struct{}, len(m.exempt))
	for i := range m.exempt {
		out[i] = struct{}{}
	}
	return out
}

// IsExempt reports whether position i is exempt.
func (m *Mapping) IsExempt(i int) bool {
	_, ok := m.exempt[i]
	return ok
}

// UnmatchedExempt returns the exempt names that matched no entry.
func (m *Mapping) UnmatchedExempt() []string {
	out := make([]string, len(m.unmatched))
	copy(out, m.unmatched)
	return out
}
