// =============================================================================
// Dyad Splitter - XLSX Parser
// =============================================================================
//
// This module handles the two places where spreadsheets show up:
//
//   1. Mapping workbooks: the column pairs of a dyad layout maintained in a
//      spreadsheet instead of YAML.
//   2. Input workbooks: dyad exports saved as .xlsx instead of CSV.
//
// MAPPING WORKBOOK STRUCTURE (first sheet):
//
//   | Column A     | Column B     | Column C |
//   |--------------|--------------|----------|
//   | First Column | Second Column| Exempt   |
//   | id           | p_id         |          |
//   | age          | age_p        | yes      |
//   | doc_id       |              |          |   <- blank B: same column
//
// Column positions are configurable via MappingColumns.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/dyad-splitter/internal/config"
)

// =============================================================================
// MAPPING WORKBOOK COLUMN CONFIGURATION
// =============================================================================

// MappingColumns defines which columns of a mapping workbook hold which data.
// Column indices are 0-based (A=0, B=1, C=2, etc.)
type MappingColumns struct {
	// FirstColumn holds the input column of the first row.
	// Default: 0 (Column A)
	FirstColumn int

	// SecondColumn holds the input column of the second row. A blank cell
	// means the same column feeds both rows.
	// Default: 1 (Column B)
	SecondColumn int

	// ExemptColumn holds a yes/no flag.
	// Default: 2 (Column C)
	ExemptColumn int

	// DataStartRow is the row index where data begins (0-based).
	// Default: 1 (Row 2)
	DataStartRow int
}

// DefaultMappingColumns returns the default column configuration.
func DefaultMappingColumns() MappingColumns {
	return MappingColumns{
		FirstColumn:  0, // Column A
		SecondColumn: 1, // Column B
		ExemptColumn: 2, // Column C
		DataStartRow: 1, // Row 2
	}
}

// =============================================================================
// MAPPING WORKBOOKS
// =============================================================================

// ParseMapping reads a mapping workbook using the default layout.
func ParseMapping(path string) (*config.MappingConfig, error) {
	return ParseMappingWithColumns(path, DefaultMappingColumns())
}

// ParseMappingWithColumns reads a mapping workbook with a custom layout.
//
// The result goes through the same defaults and validation as a YAML
// definition.
func ParseMappingWithColumns(path string, columns MappingColumns) (*config.MappingConfig, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("mapping workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	cfg := &config.MappingConfig{
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Source: path,
	}

	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		getCell := func(index int) string {
			if index < len(row) {
				return strings.TrimSpace(row[index])
			}
			return ""
		}

		first := getCell(columns.FirstColumn)
		if first == "" {
			return nil, fmt.Errorf("row %d: first column name is empty", i+1)
		}
		second := getCell(columns.SecondColumn)
		if second == "" {
			second = first
		}

		cfg.Columns = append(cfg.Columns, config.ColumnPair{First: first, Second: second})
		if isExempt(getCell(columns.ExemptColumn)) {
			cfg.Exempt = append(cfg.Exempt, first)
		}
	}

	// Round-trip through the YAML validation so both sources obey the same
	// rules.
	return finish(cfg)
}

func finish(cfg *config.MappingConfig) (*config.MappingConfig, error) {
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ","
	}
	if cfg.CSVSettings.OutputDelimiter == "" {
		cfg.CSVSettings.OutputDelimiter = ","
	}
	if _, err := cfg.Mapping(); err != nil {
		return nil, fmt.Errorf("invalid mapping workbook %s: %w", cfg.Source, err)
	}
	return cfg, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isExempt normalizes the exempt flag.
func isExempt(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "x", "exempt", "optional", "opt":
		return true
	default:
		return false
	}
}
