package xlsxparser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/dyad-splitter/internal/csvparser"
	"github.com/ginjaninja78/dyad-splitter/internal/types"
)

// SheetReader streams the rows of one worksheet as records. The first row is
// the header, exactly as for CSV input.
type SheetReader struct {
	file      *excelize.File
	rows      *excelize.Rows
	headers   []string
	index     map[string]int
	current   csvparser.Row
	rowNumber int
	err       error
}

// OpenSheet opens an .xlsx input. An empty sheet name selects the first
// sheet.
func OpenSheet(path, sheet string) (*SheetReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input workbook: %w", err)
	}

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("%s: sheet %q not found", path, sheet)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", path, sheet, err)
	}

	r := &SheetReader{file: f, rows: rows}
	if err := r.readHeaders(); err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return r, nil
}

func (r *SheetReader) readHeaders() error {
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			return fmt.Errorf("error reading header row: %w", err)
		}
		return csvparser.ErrNoHeader
	}

	cells, err := r.rows.Columns()
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}
	r.rowNumber++

	r.headers = csvparser.CleanHeaders(cells)
	r.index = csvparser.HeaderIndex(r.headers)
	return nil
}

// Next advances to the next row.
func (r *SheetReader) Next() bool {
	if r.err != nil {
		return false
	}

	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			r.err = fmt.Errorf("error reading row %d: %w", r.rowNumber+1, err)
		}
		return false
	}

	cells, err := r.rows.Columns()
	if err != nil {
		r.err = fmt.Errorf("error reading row %d: %w", r.rowNumber+1, err)
		return false
	}

	r.rowNumber++
	r.current = csvparser.NewRow(r.index, cells)
	return true
}

// Record returns the current row.
func (r *SheetReader) Record() types.Record {
	return r.current
}

// Headers returns the header row.
func (r *SheetReader) Headers() []string {
	return r.headers
}

// Err returns any error that occurred while reading.
func (r *SheetReader) Err() error {
	return r.err
}

// Close releases the workbook.
func (r *SheetReader) Close() error {
	if r.rows != nil {
		_ = r.rows.Close()
	}
	return r.file.Close()
}
