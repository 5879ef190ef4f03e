// =============================================================================
// Dyad Splitter - Record Splitter
// =============================================================================
//
// The splitter turns one dyad record into two output lines:
//
//   1. Project the first line by looking up every first column.
//   2. Project the second line by looking up every second column.
//   3. If filtering is on and any non-exempt position is blank in either
//      line, drop both lines.
//
// Columns that are absent from a record project to "" and count as blank.
// Values are emitted exactly as read; whitespace is only trimmed for the
// blank test.
//
// Split holds no state and may be called from several goroutines at once.
//
// =============================================================================

package splitter

import (
	"strings"

	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
	"github.com/ginjaninja78/dyad-splitter/internal/types"
)

// Pair holds the two projections of one input record.
type Pair struct {
	First  types.Line
	Second types.Line
}

// Split projects record through m.
//
// The boolean result is false when the pair was suppressed by the
// completeness filter; the returned Pair is then empty. Both lines are always
// emitted or dropped together.
func Split(record types.Record, filterIncomplete bool, m *mapping.Mapping) (Pair, bool) {
	pair := Pair{
		First:  project(record, m.FirstColumns()),
		Second: project(record, m.SecondColumns()),
	}

	if filterIncomplete && MissingValues(pair.First, pair.Second, m) {
		return Pair{}, false
	}

	return pair, true
}

// MissingValues reports whether a non-exempt position is blank in either
// line. The exempt positions of m apply to both lines independently.
func MissingValues(first, second types.Line, m *mapping.Mapping) bool {
	return hasBlank(first, m) || hasBlank(second, m)
}

func hasBlank(line types.Line, m *mapping.Mapping) bool {
	for i, v := range line {
		if m.IsExempt(i) {
			continue
		}
		if IsBlank(v) {
			return true
		}
	}
	return false
}

// IsBlank reports whether v is empty after trimming surrounding whitespace.
func IsBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// project looks up each column in record. Absent columns become "".
func project(record types.Record, columns []string) types.Line {
	line := make(types.Line, len(columns))
	for i, column := range columns {
		if v, ok := record.Lookup(column); ok {
			line[i] = v
		}
	}
	return line
}
