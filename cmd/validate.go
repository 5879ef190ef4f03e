// =============================================================================
// Dyad Splitter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which loads a mapping, prints it,
// and checks it against the header of an input file without splitting
// anything.
//
// COMMAND USAGE:
//   splitter validate [--mapping FILE | --preset NAME] [--input FILE] [--strict]
//
// VALIDATION CHECKS:
//   1. The mapping parses and has at least one column
//   2. Every exempt column names a first-row column
//   3. No output header appears twice
//   4. Every mapped column exists in the input header (with --input)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dyad-splitter/internal/config"
	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
	"github.com/ginjaninja78/dyad-splitter/internal/validation"
)

// errValidationFailed is returned by 'validate --strict' when issues exist.
var errValidationFailed = errors.New("validation failed")

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var validateOpts struct {
	mappingFile string
	preset      string
	input       string
	sheet       string
	delimiter   string
	exempt      []string
	strict      bool
}

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a mapping against an input header",
	Long: `Load a mapping (file or preset), print its columns, and report problems
that would make a split silently drop data: mapped columns missing from the
input, exempt names that match no column, duplicate output headers.

Issues are warnings unless --strict is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	flags := validateCmd.Flags()
	flags.StringVar(&validateOpts.mappingFile, "mapping", "", "Mapping definition (.yaml or .xlsx)")
	flags.StringVar(&validateOpts.preset, "preset", config.DefaultPreset, "Built-in mapping to check (env SPLITTER_PRESET)")
	flags.StringVarP(&validateOpts.input, "input", "i", "", "Input file whose header is checked")
	flags.StringVar(&validateOpts.sheet, "sheet", "", "Worksheet of an .xlsx input")
	flags.StringVar(&validateOpts.delimiter, "delimiter", "", "Input field delimiter")
	flags.StringSliceVar(&validateOpts.exempt, "exempt", nil, "Extra exempt columns")
	flags.BoolVar(&validateOpts.strict, "strict", false, "Exit with an error when any issue is found")
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

func runValidate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, err := loadMappingConfig(validateOpts.mappingFile, validateOpts.preset)
	if err != nil {
		return err
	}

	m, err := cfg.Mapping(validateOpts.exempt...)
	if err != nil {
		return fmt.Errorf("mapping %s: %w", cfg.Source, err)
	}

	printMapping(out, cfg, m)

	var header []string
	if validateOpts.input != "" {
		settings := cfg.CSVSettings
		if validateOpts.delimiter != "" {
			settings.Delimiter = validateOpts.delimiter
		}
		src, err := openSource(validateOpts.input, settings, validateOpts.sheet)
		if err != nil {
			return err
		}
		header = src.Headers()
		_ = src.Close()
	}

	issues := validation.Check(m, header)
	if len(issues) == 0 {
		fmt.Fprintln(out, "\nOK: no issues found")
		return nil
	}

	fmt.Fprintf(out, "\n%d issue(s):\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(out, "  ✗ %s\n", issue.Error())
	}

	if validateOpts.strict {
		return fmt.Errorf("%w: %d issue(s)", errValidationFailed, len(issues))
	}
	return nil
}

// printMapping writes the resolved columns, one per line.
func printMapping(out io.Writer, cfg *config.MappingConfig, m *mapping.Mapping) {
	fmt.Fprintf(out, "Mapping: %s (%s)\n", cfg.Name, cfg.Source)
	if cfg.Description != "" {
		fmt.Fprintf(out, "  %s\n", cfg.Description)
	}
	fmt.Fprintf(out, "Columns: %d\n", m.Len())

	for i, e := range m.Entries() {
		mark := ""
		if m.IsExempt(i) {
			mark = "  (exempt)"
		}
		fmt.Fprintf(out, "  %2d. %s <- %s%s\n", i+1, e.First, e.Second, mark)
	}

	if names := exemptNames(m); len(names) > 0 {
		fmt.Fprintf(out, "Exempt: %s\n", strings.Join(names, ", "))
	}
}
