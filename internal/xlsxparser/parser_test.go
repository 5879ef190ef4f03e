package xlsxparser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/dyad-splitter/internal/config"
	"github.com/ginjaninja78/dyad-splitter/internal/csvparser"
	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
)

// writeWorkbook saves rows to the first sheet of a new workbook.
func writeWorkbook(t *testing.T, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseMapping(t *testing.T) {
	path := writeWorkbook(t, "couples.xlsx", [][]interface{}{
		{"First Column", "Second Column", "Exempt"},
		{"doc_id"},
		{"id", "p_id", "no"},
		{},
		{" age ", "age_p", "Yes"},
	})

	cfg, err := ParseMapping(path)
	require.NoError(t, err)

	assert.Equal(t, "couples", cfg.Name)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, []config.ColumnPair{
		{First: "doc_id", Second: "doc_id"},
		{First: "id", Second: "p_id"},
		{First: "age", Second: "age_p"},
	}, cfg.Columns)
	assert.Equal(t, []string{"age"}, cfg.Exempt)
	assert.Equal(t, ",", cfg.CSVSettings.Delimiter)

	m, err := cfg.Mapping()
	require.NoError(t, err)
	assert.True(t, m.IsExempt(2))
}

func TestParseMappingErrors(t *testing.T) {
	empty := writeWorkbook(t, "empty.xlsx", [][]interface{}{{"First", "Second"}})
	_, err := ParseMapping(empty)
	assert.True(t, errors.Is(err, mapping.ErrEmptyMapping))

	noFirst := writeWorkbook(t, "nofirst.xlsx", [][]interface{}{{"First", "Second"}, {"", "p_id"}})
	_, err = ParseMapping(noFirst)
	assert.Error(t, err)

	_, err = ParseMapping(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestOpenSheet(t *testing.T) {
	path := writeWorkbook(t, "input.xlsx", [][]interface{}{
		{"id", "p_id", "age", "age_p"},
		{"1", "2", "30", "31"},
		{"3", "4"},
	})

	r, err := OpenSheet(path, "")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"id", "p_id", "age", "age_p"}, r.Headers())

	var rows []csvparser.Row
	for r.Next() {
		rows = append(rows, r.Record().(csvparser.Row))
	}
	require.NoError(t, r.Err())
	require.Len(t, rows, 2)

	v, ok := rows[0].Lookup("age_p")
	assert.True(t, ok)
	assert.Equal(t, "31", v)

	_, ok = rows[1].Lookup("age")
	assert.False(t, ok)
}

func TestOpenSheetErrors(t *testing.T) {
	path := writeWorkbook(t, "input.xlsx", [][]interface{}{{"id"}})

	_, err := OpenSheet(path, "Nope")
	assert.Error(t, err)

	_, err = OpenSheet(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}

func TestIsExempt(t *testing.T) {
	for _, v := range []string{"yes", "Y", "TRUE", "1", "x", "exempt"} {
		assert.True(t, isExempt(v), v)
	}
	for _, v := range []string{"", "no", "n", "0", "required"} {
		assert.False(t, isExempt(v), v)
	}
}
