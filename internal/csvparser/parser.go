// =============================================================================
// Dyad Splitter - CSV Parser Module
// =============================================================================
//
// This module reads delimited dyad exports one row at a time. The first
// physical row is the header; every following row becomes a types.Record
// keyed by header name.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon, any single rune)
//   - Ragged rows: short rows leave trailing columns absent, long rows are cut
//   - Values are passed through untouched (no trimming)
//   - UTF-8 byte order mark on the header is dropped
//   - Memory use is bounded by one row
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/dyad-splitter/internal/config"
	"github.com/ginjaninja78/dyad-splitter/internal/types"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("input has no header row")

const bom = "\ufeff"

// =============================================================================
// ROW RECORD
// =============================================================================

// Row is one data row. It implements types.Record.
type Row struct {
	index  map[string]int
	values []string
}

// NewRow builds a Row over a header index and the raw cell values.
func NewRow(index map[string]int, values []string) Row {
	return Row{index: index, values: values}
}

// Lookup returns the value of column. ok is false when the header has no
// such column or the row is too short to reach it.
func (r Row) Lookup(column string) (string, bool) {
	i, ok := r.index[column]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Values returns the raw cells of the row.
func (r Row) Values() []string {
	return r.values
}

// HeaderIndex maps each header name to its column. When a name repeats, the
// first column wins.
func HeaderIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return index
}

// CleanHeaders trims whitespace and a leading byte order mark from header
// names.
func CleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned
}

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads records lazily.
//
// USAGE:
//   parser, err := csvparser.Open(path, settings)
//   if err != nil {
//       return err
//   }
//   defer parser.Close()
//
//   for parser.Next() {
//       record := parser.Record()
//       // Process the record...
//   }
//
//   if err := parser.Err(); err != nil {
//       return err
//   }
type StreamingParser struct {
	closer    io.Closer
	reader    *csv.Reader
	headers   []string
	index     map[string]int
	current   Row
	rowNumber int
	err       error
}

// Open opens a delimited file for streaming.
func Open(path string, settings config.CSVSettings) (*StreamingParser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	parser, err := NewStreamingParser(file, settings)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	parser.closer = file

	return parser, nil
}

// NewStreamingParser reads the header from r and returns a parser positioned
// before the first data row. The caller keeps ownership of r.
func NewStreamingParser(r io.Reader, settings config.CSVSettings) (*StreamingParser, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	if err := configureReader(reader, settings); err != nil {
		return nil, err
	}

	parser := &StreamingParser{reader: reader}
	if err := parser.readHeaders(); err != nil {
		return nil, err
	}

	return parser, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := settings.InputComma()
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Rows may be shorter or longer than the header.
	reader.FieldsPerRecord = -1

	// Exports from spreadsheet tools often contain stray quotes.
	reader.LazyQuotes = true

	return nil
}

// readHeaders reads the first row.
func (p *StreamingParser) readHeaders() error {
	row, err := p.reader.Read()
	if err == io.EOF {
		return ErrNoHeader
	}
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}
	p.rowNumber++

	p.headers = CleanHeaders(row)
	p.index = HeaderIndex(p.headers)
	return nil
}

// Next advances to the next row. Returns false when there are no more rows
// or an error occurred.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	row, err := p.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
		return false
	}

	p.rowNumber++
	p.current = NewRow(p.index, row)
	return true
}

// Record returns the current row.
func (p *StreamingParser) Record() types.Record {
	return p.current
}

// Headers returns the parsed headers.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// RowNumber returns the number of rows read so far, header included. Blank
// lines are skipped by the reader and not counted.
func (p *StreamingParser) RowNumber() int {
	return p.rowNumber
}

// Err returns any error that occurred during parsing.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close closes the underlying file, if the parser opened it.
func (p *StreamingParser) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
