package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
)

func TestCheckClean(t *testing.T) {
	m, err := mapping.New([]mapping.Entry{
		{First: "id", Second: "p_id"},
		{First: "age", Second: "age_p"},
	}, []string{"age"})
	require.NoError(t, err)

	assert.Empty(t, Check(m, []string{"age_p", "age", "p_id", "id", "extra"}))
}

func TestCheckFindings(t *testing.T) {
	m, err := mapping.New([]mapping.Entry{
		{First: "doc", Second: "doc"},
		{First: "id", Second: "p_idd"},
		{First: "note", Second: "p_note"},
		{First: "doc", Second: "p_doc"},
	}, []string{"note", "ghost"})
	require.NoError(t, err)

	issues := Check(m, []string{"doc", "id", "p_doc"})
	require.Len(t, issues, 5)

	assert.Equal(t, KindUnknownColumn, issues[0].Kind)
	assert.Equal(t, "p_idd", issues[0].Column)
	assert.Equal(t, []int{1}, issues[0].Positions)
	assert.Contains(t, issues[0].Message, "every pair will be dropped")

	assert.Equal(t, "note", issues[1].Column)
	assert.Equal(t, []int{2}, issues[1].Positions)
	assert.NotContains(t, issues[1].Message, "dropped", "exempt position only warns")

	assert.Equal(t, "p_note", issues[2].Column)
	assert.NotContains(t, issues[2].Message, "dropped")

	assert.Equal(t, KindUnmatchedExempt, issues[3].Kind)
	assert.Equal(t, "ghost", issues[3].Column)

	assert.Equal(t, KindDuplicateHeader, issues[4].Kind)
	assert.Equal(t, "doc", issues[4].Column)
	assert.Equal(t, []int{0, 3}, issues[4].Positions)
	assert.Equal(t, `[duplicate_header] output header "doc" appears 2 times`, issues[4].Error())
}

func TestCheckWithoutHeader(t *testing.T) {
	m, err := mapping.New([]mapping.Entry{{First: "id", Second: "p_id"}}, nil)
	require.NoError(t, err)

	assert.Empty(t, Check(m, nil))
}
