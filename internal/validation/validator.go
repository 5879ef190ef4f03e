// =============================================================================
// Dyad Splitter - Validation Engine
// =============================================================================
//
// This module compares a field mapping with the header of an input file
// before any data is processed. A mapped column that the input does not have
// is not an error at run time: it simply reads as blank for every record, and
// unless it is exempt every pair gets dropped by the completeness filter.
// That is almost always a typo in the mapping, so it is reported here.
//
// Issues are collected, not returned as errors. Callers decide whether to
// log them (split) or fail on them (validate --strict).
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"

	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Kinds of issues reported by Check.
const (
	KindUnknownColumn   = "unknown_column"
	KindUnmatchedExempt = "unmatched_exempt"
	KindDuplicateHeader = "duplicate_header"
)

// Issue is a single finding.
type Issue struct {
	// Kind is one of the Kind* constants.
	Kind string

	// Column is the column name the issue is about.
	Column string

	// Positions are the 0-based mapping entries involved, if any.
	Positions []int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("[%s] %s", i.Kind, i.Message)
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Check validates m against the header of the input. A nil header skips the
// input checks.
//
// Issues are ordered by kind, then by first position, so output is stable.
func Check(m *mapping.Mapping, inputHeader []string) []*Issue {
	var issues []*Issue

	if inputHeader != nil {
		issues = append(issues, checkUnknownColumns(m, inputHeader)...)
	}
	issues = append(issues, checkUnmatchedExempt(m)...)
	issues = append(issues, checkDuplicateHeaders(m)...)

	return issues
}

// checkUnknownColumns reports mapped names missing from the input header.
func checkUnknownColumns(m *mapping.Mapping, inputHeader []string) []*Issue {
	present := make(map[string]bool, len(inputHeader))
	for _, h := range inputHeader {
		present[h] = true
	}

	positions := make(map[string][]int)
	var order []string
	note := func(name string, pos int) {
		if present[name] {
			return
		}
		if _, seen := positions[name]; !seen {
			order = append(order, name)
		}
		if p := positions[name]; len(p) == 0 || p[len(p)-1] != pos {
			positions[name] = append(p, pos)
		}
	}

	for i, e := range m.Entries() {
		note(e.First, i)
		note(e.Second, i)
	}

	issues := make([]*Issue, 0, len(order))
	for _, name := range order {
		pos := positions[name]
		msg := fmt.Sprintf("column %q is not in the input; it will always be blank", name)
		if !allExempt(m, pos) {
			msg += " and every pair will be dropped unless blanks are kept"
		}
		issues = append(issues, &Issue{
			Kind:      KindUnknownColumn,
			Column:    name,
			Positions: pos,
			Message:   msg,
		})
	}
	return issues
}

func allExempt(m *mapping.Mapping, positions []int) bool {
	for _, p := range positions {
		if !m.IsExempt(p) {
			return false
		}
	}
	return true
}

// checkUnmatchedExempt reports exempt names that match no output column.
func checkUnmatchedExempt(m *mapping.Mapping) []*Issue {
	var issues []*Issue
	for _, name := range m.UnmatchedExempt() {
		issues = append(issues, &Issue{
			Kind:    KindUnmatchedExempt,
			Column:  name,
			Message: fmt.Sprintf("exempt column %q matches no output column and is ignored", name),
		})
	}
	return issues
}

// checkDuplicateHeaders reports output header names used more than once.
func checkDuplicateHeaders(m *mapping.Mapping) []*Issue {
	positions := make(map[string][]int)
	for i, name := range m.HeaderNames() {
		positions[name] = append(positions[name], i)
	}

	var issues []*Issue
	for name, pos := range positions {
		if len(pos) < 2 {
			continue
		}
		issues = append(issues, &Issue{
			Kind:      KindDuplicateHeader,
			Column:    name,
			Positions: pos,
			Message:   fmt.Sprintf("output header %q appears %d times", name, len(pos)),
		})
	}
	sort.Slice(issues, func(a, b int) bool {
		return issues[a].Positions[0] < issues[b].Positions[0]
	})
	return issues
}
