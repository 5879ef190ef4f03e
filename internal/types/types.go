// =============================================================================
// Dyad Splitter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - splitter
//   - csvparser / xlsxparser
//   - csvwriter
//   - converter
//
// =============================================================================

package types

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record is one parsed input row.
//
// Lookup reports whether the column was present in the row at all, so a
// column that is missing from a short row can be told apart from one that is
// present but blank.
type Record interface {
	Lookup(column string) (value string, ok bool)
}

// MapRecord is a Record backed by a plain map. Keys that are not in the map
// are absent.
type MapRecord map[string]string

// Lookup implements Record.
func (r MapRecord) Lookup(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Line is one output row, aligned with the output header.
type Line []string
