package csvparser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dyad-splitter/internal/config"
)

func collect(t *testing.T, p *StreamingParser) []Row {
	t.Helper()
	var rows []Row
	for p.Next() {
		rows = append(rows, p.Record().(Row))
	}
	require.NoError(t, p.Err())
	return rows
}

func TestStreamingParser(t *testing.T) {
	input := "\ufeffid , p_id,age\n1,2, 30 \n3,4\n\n5,6,7,extra\n"

	p, err := NewStreamingParser(strings.NewReader(input), config.CSVSettings{})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"id", "p_id", "age"}, p.Headers())

	rows := collect(t, p)
	require.Len(t, rows, 3)

	v, ok := rows[0].Lookup("age")
	assert.True(t, ok)
	assert.Equal(t, " 30 ", v, "values are not trimmed")

	_, ok = rows[1].Lookup("age")
	assert.False(t, ok, "short row leaves column absent")

	v, ok = rows[2].Lookup("age")
	assert.True(t, ok)
	assert.Equal(t, "7", v)

	_, ok = rows[0].Lookup("nope")
	assert.False(t, ok)

	assert.Equal(t, 4, p.RowNumber())
}

func TestStreamingParserPresentButBlank(t *testing.T) {
	p, err := NewStreamingParser(strings.NewReader("a,b\n,\n"), config.CSVSettings{})
	require.NoError(t, err)

	rows := collect(t, p)
	require.Len(t, rows, 1)

	v, ok := rows[0].Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestStreamingParserDelimiters(t *testing.T) {
	tests := []struct {
		delimiter string
		input     string
	}{
		{delimiter: "tab", input: "a\tb\n1\t2\n"},
		{delimiter: "pipe", input: "a|b\n1|2\n"},
		{delimiter: ";", input: "a;b\n1;2\n"},
		{delimiter: ",", input: "a,\"b\"\n1,\"2\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.delimiter, func(t *testing.T) {
			p, err := NewStreamingParser(strings.NewReader(tt.input), config.CSVSettings{Delimiter: tt.delimiter})
			require.NoError(t, err)

			rows := collect(t, p)
			require.Len(t, rows, 1)
			assert.Equal(t, []string{"1", "2"}, rows[0].Values())
		})
	}
}

func TestStreamingParserDuplicateHeaderFirstWins(t *testing.T) {
	p, err := NewStreamingParser(strings.NewReader("x,x\n1,2\n"), config.CSVSettings{})
	require.NoError(t, err)

	rows := collect(t, p)
	v, _ := rows[0].Lookup("x")
	assert.Equal(t, "1", v)
}

func TestStreamingParserErrors(t *testing.T) {
	_, err := NewStreamingParser(strings.NewReader(""), config.CSVSettings{})
	assert.True(t, errors.Is(err, ErrNoHeader))

	_, err = NewStreamingParser(strings.NewReader("a\n"), config.CSVSettings{Delimiter: "ab"})
	assert.Error(t, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing.csv"), config.CSVSettings{})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,p_id\n1,2\n"), 0644))

	p, err := Open(path, config.CSVSettings{})
	require.NoError(t, err)

	rows := collect(t, p)
	assert.Len(t, rows, 1)
	assert.NoError(t, p.Close())
}
