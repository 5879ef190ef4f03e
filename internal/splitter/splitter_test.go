package splitter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
	"github.com/ginjaninja78/dyad-splitter/internal/types"
)

func newMapping(t *testing.T, exempt ...string) *mapping.Mapping {
	t.Helper()
	m, err := mapping.New([]mapping.Entry{
		{First: "id", Second: "p_id"},
		{First: "age", Second: "age_p"},
	}, exempt)
	require.NoError(t, err)
	return m
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		record types.MapRecord
		filter bool
		exempt []string
		want   Pair
		ok     bool
	}{
		{
			name:   "complete record unfiltered",
			record: types.MapRecord{"id": "1", "p_id": "2", "age": "30", "age_p": "31"},
			filter: false,
			want:   Pair{First: types.Line{"1", "30"}, Second: types.Line{"2", "31"}},
			ok:     true,
		},
		{
			name:   "complete record filtered",
			record: types.MapRecord{"id": "1", "p_id": "2", "age": "30", "age_p": "31"},
			filter: true,
			want:   Pair{First: types.Line{"1", "30"}, Second: types.Line{"2", "31"}},
			ok:     true,
		},
		{
			name:   "blank second value suppresses the pair",
			record: types.MapRecord{"id": "1", "p_id": "2", "age": "30", "age_p": ""},
			filter: true,
			ok:     false,
		},
		{
			name:   "blank value kept when exempt",
			record: types.MapRecord{"id": "1", "p_id": "2", "age": "30", "age_p": ""},
			filter: true,
			exempt: []string{"age"},
			want:   Pair{First: types.Line{"1", "30"}, Second: types.Line{"2", ""}},
			ok:     true,
		},
		{
			name:   "whitespace counts as blank",
			record: types.MapRecord{"id": " \t", "p_id": "2", "age": "30", "age_p": "31"},
			filter: true,
			ok:     false,
		},
		{
			name:   "whitespace is emitted untouched",
			record: types.MapRecord{"id": " 1 ", "p_id": "2", "age": " ", "age_p": "31"},
			filter: false,
			want:   Pair{First: types.Line{" 1 ", " "}, Second: types.Line{"2", "31"}},
			ok:     true,
		},
		{
			name:   "absent column is blank",
			record: types.MapRecord{"id": "1", "p_id": "2", "age": "30"},
			filter: true,
			ok:     false,
		},
		{
			name:   "absent column unfiltered projects empty",
			record: types.MapRecord{"id": "1", "p_id": "2", "age": "30"},
			filter: false,
			want:   Pair{First: types.Line{"1", "30"}, Second: types.Line{"2", ""}},
			ok:     true,
		},
		{
			name:   "absent exempt column passes the filter",
			record: types.MapRecord{"id": "1", "p_id": "2"},
			filter: true,
			exempt: []string{"age"},
			want:   Pair{First: types.Line{"1", ""}, Second: types.Line{"2", ""}},
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Split(tt.record, tt.filter, newMapping(t, tt.exempt...))
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Empty(t, got.First)
				assert.Empty(t, got.Second)
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitProjectionMatchesLookups(t *testing.T) {
	m := newMapping(t)
	records := []types.MapRecord{
		{"id": "a", "p_id": "b", "age": "c", "age_p": "d"},
		{"id": "", "p_id": "x"},
		{},
	}

	for _, r := range records {
		pair, ok := Split(r, false, m)
		require.True(t, ok)
		for i, col := range m.FirstColumns() {
			assert.Equal(t, r[col], pair.First[i])
		}
		for i, col := range m.SecondColumns() {
			assert.Equal(t, r[col], pair.Second[i])
		}
	}
}

func TestExemptionNeverChangesValues(t *testing.T) {
	record := types.MapRecord{"id": "1", "p_id": "2", "age": "", "age_p": "31"}

	plain, ok := Split(record, false, newMapping(t))
	require.True(t, ok)
	exempted, ok := Split(record, false, newMapping(t, "age", "id"))
	require.True(t, ok)

	assert.Equal(t, plain, exempted)
}

func TestMissingValues(t *testing.T) {
	m := newMapping(t, "id")

	assert.False(t, MissingValues(types.Line{"", "1"}, types.Line{"", "2"}, m))
	assert.True(t, MissingValues(types.Line{"1", "1"}, types.Line{"2", "  "}, m))
	assert.True(t, MissingValues(types.Line{"1", ""}, types.Line{"2", "3"}, m))
}

func TestUnknownColumnSuppressesEverything(t *testing.T) {
	m, err := mapping.New([]mapping.Entry{
		{First: "id", Second: "p_id"},
		{First: "typo", Second: "p_typo"},
	}, nil)
	require.NoError(t, err)

	_, ok := Split(types.MapRecord{"id": "1", "p_id": "2"}, true, m)
	assert.False(t, ok)
}
