package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dyad() []Entry {
	return []Entry{
		{First: "id", Second: "p_id"},
		{First: "age", Second: "age_p"},
		{First: "gender", Second: "p_gender"},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		entries   []Entry
		exempt    []string
		wantErr   error
		anyErr    bool
		exemptIdx map[int]struct{}
		unmatched []string
	}{
		{
			name:      "no exemptions",
			entries:   dyad(),
			exemptIdx: map[int]struct{}{},
			unmatched: []string{},
		},
		{
			name:      "exempt by first column",
			entries:   dyad(),
			exempt:    []string{"age"},
			exemptIdx: map[int]struct{}{1: {}},
			unmatched: []string{},
		},
		{
			name:      "second column names are not matched",
			entries:   dyad(),
			exempt:    []string{"age_p"},
			exemptIdx: map[int]struct{}{},
			unmatched: []string{"age_p"},
		},
		{
			name:      "duplicate exempt names collapse",
			entries:   dyad(),
			exempt:    []string{"id", "id", "nope"},
			exemptIdx: map[int]struct{}{0: {}},
			unmatched: []string{"nope"},
		},
		{
			name:    "empty mapping",
			entries: nil,
			wantErr: ErrEmptyMapping,
		},
		{
			name:    "blank column name",
			entries: []Entry{{First: "id", Second: " "}},
			anyErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.entries, tt.exempt)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			if tt.anyErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.exemptIdx, m.ExemptIndexes())
			assert.Equal(t, tt.unmatched, m.UnmatchedExempt())
		})
	}
}

func TestColumns(t *testing.T) {
	m, err := New(dyad(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"id", "age", "gender"}, m.HeaderNames())
	assert.Equal(t, []string{"id", "age", "gender"}, m.FirstColumns())
	assert.Equal(t, []string{"p_id", "age_p", "p_gender"}, m.SecondColumns())
}

func TestDuplicateFirstColumnsAreAllExempt(t *testing.T) {
	m, err := New([]Entry{
		{First: "doc", Second: "doc"},
		{First: "score", Second: "p_score"},
		{First: "doc", Second: "p_doc"},
	}, []string{"doc"})
	require.NoError(t, err)

	assert.True(t, m.IsExempt(0))
	assert.False(t, m.IsExempt(1))
	assert.True(t, m.IsExempt(2))
}

func TestAccessorsReturnCopies(t *testing.T) {
	entries := dyad()
	m, err := New(entries, []string{"id"})
	require.NoError(t, err)

	entries[0].First = "changed"
	m.FirstColumns()[1] = "changed"
	m.Entries()[2].Second = "changed"
	delete(m.ExemptIndexes(), 0)

	assert.Equal(t, []string{"id", "age", "gender"}, m.HeaderNames())
	assert.Equal(t, "p_gender", m.Entries()[2].Second)
	assert.True(t, m.IsExempt(0))
}
