// =============================================================================
// Dyad Splitter - Configuration Module
// =============================================================================
//
// This module is responsible for loading mapping definitions. A mapping
// definition is a small YAML file that lists the column pairs of a dyad
// export, the columns that may be left blank, and the CSV settings used to
// read and write the data.
//
// MAPPING FILE FORMAT:
//   name: partners
//   description: Couples survey layout
//   columns:
//     - google_doc_id             # same column feeds both rows
//     - [id, p_id]                # first row <- id, second row <- p_id
//     - {first: age, second: age_p}
//   exempt:
//     - age                       # matched against first-column names
//   csv_settings:
//     delimiter: ","
//     output_delimiter: ","
//
// Definitions are loaded from files, from the presets embedded in the binary
// (see presets.go), or from XLSX workbooks (see internal/xlsxparser).
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
)

// =============================================================================
// MAPPING CONFIGURATION STRUCTURE
// =============================================================================

// MappingConfig is a parsed mapping definition.
type MappingConfig struct {
	// Name identifies the definition in logs and in the presets listing.
	Name string `yaml:"name"`

	// Description is a one-line summary shown by the presets command.
	Description string `yaml:"description,omitempty"`

	// Columns lists the output columns in order.
	Columns []ColumnPair `yaml:"columns"`

	// Exempt lists first-column names that may be blank without the pair
	// being dropped.
	Exempt []string `yaml:"exempt,omitempty"`

	// CSVSettings controls how input is read and output is written.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// Source is the file the definition was loaded from ("preset:<name>" for
	// embedded definitions). It is not read from YAML.
	Source string `yaml:"-"`
}

// ColumnPair is one entry of the columns list.
type ColumnPair struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
}

// UnmarshalYAML accepts three spellings of a column pair:
//
//	- name            # same column for both rows
//	- [first, second]
//	- {first: a, second: b}
func (p *ColumnPair) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		p.First, p.Second = name, name

	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		if len(names) != 2 {
			return fmt.Errorf("line %d: column pair needs exactly 2 names, got %d", value.Line, len(names))
		}
		p.First, p.Second = names[0], names[1]

	case yaml.MappingNode:
		var raw struct {
			First  string `yaml:"first"`
			Second string `yaml:"second"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		p.First, p.Second = raw.First, raw.Second

	default:
		return fmt.Errorf("line %d: unsupported column pair", value.Line)
	}

	return nil
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for reading and writing delimited files.
type CSVSettings struct {
	// Delimiter separates fields in the input.
	// Common values: "," (comma), "|" or "pipe", "tab", "semicolon"
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// OutputDelimiter separates fields in the output.
	// Default: ","
	OutputDelimiter string `yaml:"output_delimiter"`
}

// InputComma returns the input delimiter as a rune.
func (s CSVSettings) InputComma() (rune, error) {
	return ParseDelimiter(s.Delimiter)
}

// OutputComma returns the output delimiter as a rune.
func (s CSVSettings) OutputComma() (rune, error) {
	return ParseDelimiter(s.OutputDelimiter)
}

// ParseDelimiter converts a delimiter setting into the rune used by
// encoding/csv. Named delimiters are accepted for characters that are
// awkward to write in YAML or on a command line.
func ParseDelimiter(value string) (rune, error) {
	switch value {
	case "":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	case ",", "comma":
		return ',', nil
	}

	r, size := utf8.DecodeRuneInString(value)
	if size != len(value) {
		return 0, fmt.Errorf("delimiter %q must be a single character", value)
	}
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter %q is not allowed", value)
	}
	return r, nil
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMappingFile loads a mapping definition from a YAML file.
func LoadMappingFile(path string) (*MappingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	cfg, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path

	return cfg, nil
}

// ParseMapping parses, defaults and validates a mapping definition.
func ParseMapping(data []byte) (*MappingConfig, error) {
	var cfg MappingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}

	applyMappingDefaults(&cfg)

	if err := validateMapping(&cfg); err != nil {
		return nil, fmt.Errorf("invalid mapping: %w", err)
	}

	return &cfg, nil
}

// applyMappingDefaults sets default values for any unset options.
func applyMappingDefaults(cfg *MappingConfig) {
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ","
	}
	if cfg.CSVSettings.OutputDelimiter == "" {
		cfg.CSVSettings.OutputDelimiter = ","
	}
	for i := range cfg.Columns {
		cfg.Columns[i].First = strings.TrimSpace(cfg.Columns[i].First)
		cfg.Columns[i].Second = strings.TrimSpace(cfg.Columns[i].Second)
	}
	for i := range cfg.Exempt {
		cfg.Exempt[i] = strings.TrimSpace(cfg.Exempt[i])
	}
}

// validateMapping checks the parts of a definition that would otherwise only
// fail once data is flowing.
func validateMapping(cfg *MappingConfig) error {
	if len(cfg.Columns) == 0 {
		return mapping.ErrEmptyMapping
	}

	for i, c := range cfg.Columns {
		if c.First == "" || c.Second == "" {
			return fmt.Errorf("column %d: both column names are required", i+1)
		}
	}

	if _, err := cfg.CSVSettings.InputComma(); err != nil {
		return fmt.Errorf("csv_settings.delimiter: %w", err)
	}
	if _, err := cfg.CSVSettings.OutputComma(); err != nil {
		return fmt.Errorf("csv_settings.output_delimiter: %w", err)
	}

	return nil
}

// Mapping builds the immutable field mapping. extraExempt is appended to the
// definition's own exempt list.
func (c *MappingConfig) Mapping(extraExempt ...string) (*mapping.Mapping, error) {
	entries := make([]mapping.Entry, len(c.Columns))
	for i, col := range c.Columns {
		entries[i] = mapping.Entry{First: col.First, Second: col.Second}
	}

	exempt := make([]string, 0, len(c.Exempt)+len(extraExempt))
	exempt = append(exempt, c.Exempt...)
	for _, name := range extraExempt {
		if name = strings.TrimSpace(name); name != "" {
			exempt = append(exempt, name)
		}
	}

	return mapping.New(entries, exempt)
}
