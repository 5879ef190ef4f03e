// =============================================================================
// Dyad Splitter - Split Pipeline
// =============================================================================
//
// This file holds the flags and the pipeline of the root command.
//
// COMMAND USAGE:
//   splitter --input FILE (--output FILE | --stdout) [flags]
//
// FLAGS:
//   -i, --input            Dyad file to read (.csv, or .xlsx)
//   -o, --output           File to write
//       --stdout           Write to the console instead of a file
//       --echo             Also copy the file output to the console
//   -b, --blanks           Keep pairs with blank values
//       --no-blanks        Drop pairs with blank values (default)
//       --mapping          YAML or XLSX mapping definition
//       --preset           Built-in mapping (default "partners")
//       --exempt           Extra exempt columns
//
// PROCESSING PIPELINE:
//   1. Validate the options (nothing is opened before this)
//   2. Resolve the mapping and apply --exempt
//   3. Open the input and check its header against the mapping
//   4. Open the output sink
//   5. Split every record and write the pairs
//   6. Print the completion line (file mode only)
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/dyad-splitter/internal/config"
	"github.com/ginjaninja78/dyad-splitter/internal/converter"
	"github.com/ginjaninja78/dyad-splitter/internal/csvparser"
	"github.com/ginjaninja78/dyad-splitter/internal/csvwriter"
	"github.com/ginjaninja78/dyad-splitter/internal/mapping"
	"github.com/ginjaninja78/dyad-splitter/internal/validation"
	"github.com/ginjaninja78/dyad-splitter/internal/xlsxparser"
	"github.com/ginjaninja78/dyad-splitter/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// opts collects the flags of the root command.
var opts config.RunOptions

func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&opts.Input, "input", "i", "", "Dyad file to read (.csv or .xlsx)")
	flags.StringVarP(&opts.Output, "output", "o", "", "File to write the split records to")
	flags.BoolVar(&opts.Stdout, "stdout", false, "Write the split records to the console instead of a file")
	flags.BoolVar(&opts.Echo, "echo", false, "Also copy every written line to the console")

	flags.BoolVarP(&opts.IncludeBlanks, "blanks", "b", false, "Keep pairs that have blank values")
	negatedBoolVar(flags, &opts.IncludeBlanks, "no-blanks", "Drop pairs that have blank values in non-exempt columns")

	flags.StringVar(&opts.MappingFile, "mapping", "", "Mapping definition (.yaml or .xlsx); overrides --preset")
	flags.StringVar(&opts.Preset, "preset", config.DefaultPreset, "Built-in mapping to use (env SPLITTER_PRESET)")
	flags.StringSliceVar(&opts.Exempt, "exempt", nil, "Extra first-row columns allowed to be blank (repeatable)")

	flags.StringVar(&opts.Delimiter, "delimiter", "", "Input field delimiter (default from mapping, else comma)")
	flags.StringVar(&opts.OutputDelimiter, "output-delimiter", "", "Output field delimiter (default from mapping, else comma)")
	flags.StringVar(&opts.Sheet, "sheet", "", "Worksheet of an .xlsx input (default first sheet)")

	flags.IntVar(&opts.Workers, "workers", 1, "Goroutines splitting records (env SPLITTER_WORKERS)")
	flags.IntVar(&opts.BatchSize, "batch-size", converter.DefaultBatchSize, "Records per batch when workers > 1 (env SPLITTER_BATCH_SIZE)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runSplit validates the options and performs one split.
func runSplit(cmd *cobra.Command) error {
	if err := opts.Validate(); err != nil {
		return usageError(cmd, err)
	}

	if !opts.Stdout {
		if err := utils.CheckDistinct(opts.Input, opts.Output); err != nil {
			return err
		}
	}

	cfg, err := loadMappingConfig(opts.MappingFile, opts.Preset)
	if err != nil {
		return err
	}

	settings := cfg.CSVSettings
	if opts.Delimiter != "" {
		settings.Delimiter = opts.Delimiter
	}
	if opts.OutputDelimiter != "" {
		settings.OutputDelimiter = opts.OutputDelimiter
	}
	outComma, err := settings.OutputComma()
	if err != nil {
		return fmt.Errorf("%w: --output-delimiter: %v", config.ErrInvalidOptions, err)
	}
	if _, err := settings.InputComma(); err != nil {
		return fmt.Errorf("%w: --delimiter: %v", config.ErrInvalidOptions, err)
	}

	m, err := cfg.Mapping(opts.Exempt...)
	if err != nil {
		return fmt.Errorf("mapping %s: %w", cfg.Source, err)
	}

	logger.Debug("Mapping resolved",
		zap.String("source", cfg.Source),
		zap.Int("columns", m.Len()),
		zap.Strings("exempt", exemptNames(m)))

	src, err := openSource(opts.Input, settings, opts.Sheet)
	if err != nil {
		return err
	}
	defer src.Close()

	reportIssues(m, src.Headers())

	sink, err := openSink(cmd, outComma)
	if err != nil {
		return err
	}

	conv := converter.New(m, converter.Options{
		FilterIncomplete: !opts.IncludeBlanks,
		Workers:          opts.Workers,
		BatchSize:        opts.BatchSize,
	}, logger)

	result, err := conv.Run(cmd.Context(), src, sink)
	if err != nil {
		return fmt.Errorf("failed to split %s: %w", filepath.Base(opts.Input), err)
	}

	stats := result.Stats
	logger.Info("Split complete",
		zap.String("input", opts.Input),
		zap.Int("records", stats.RecordsRead),
		zap.Int("pairs_written", stats.PairsWritten),
		zap.Int("pairs_dropped", stats.PairsSuppressed),
		zap.Duration("elapsed", stats.ProcessingTime))

	if !opts.Stdout {
		fmt.Fprintf(cmd.OutOrStdout(), "Done: %d pairs written to %s (%d dropped)\n",
			stats.PairsWritten, opts.Output, stats.PairsSuppressed)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// inputSource is what both input readers provide.
type inputSource interface {
	converter.RecordSource
	Headers() []string
	Close() error
}

// loadMappingConfig reads a mapping file, or falls back to a preset.
func loadMappingConfig(path, preset string) (*config.MappingConfig, error) {
	if path == "" {
		return config.Preset(preset)
	}
	if isWorkbook(path) {
		return xlsxparser.ParseMapping(path)
	}
	return config.LoadMappingFile(path)
}

// openSource opens the input by extension.
func openSource(path string, settings config.CSVSettings, sheet string) (inputSource, error) {
	if isWorkbook(path) {
		return xlsxparser.OpenSheet(path, sheet)
	}
	return csvparser.Open(path, settings)
}

// openSink picks the output for the current options.
func openSink(cmd *cobra.Command, comma rune) (csvwriter.Sink, error) {
	if opts.Stdout {
		return csvwriter.NewConsoleSink(cmd.OutOrStdout(), comma), nil
	}

	if utils.FileExists(opts.Output) {
		logger.Info("Replacing existing output file", zap.String("output", opts.Output))
	}

	file, err := csvwriter.CreateFileSink(opts.Output, comma)
	if err != nil {
		return nil, err
	}
	if opts.Echo {
		return csvwriter.NewTeeSink(file, csvwriter.NewConsoleSink(cmd.OutOrStdout(), comma)), nil
	}
	return file, nil
}

// reportIssues logs header problems. They never stop a split.
func reportIssues(m *mapping.Mapping, header []string) {
	for _, issue := range validation.Check(m, header) {
		logger.Warn("Mapping issue",
			zap.String("kind", issue.Kind),
			zap.String("column", issue.Column),
			zap.Ints("positions", issue.Positions),
			zap.String("message", issue.Message))
	}
}

// exemptNames lists the exempt output columns in mapping order.
func exemptNames(m *mapping.Mapping) []string {
	var names []string
	for i, e := range m.Entries() {
		if m.IsExempt(i) {
			names = append(names, e.First)
		}
	}
	return names
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
