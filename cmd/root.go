// =============================================================================
// Dyad Splitter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the root
// command splits one dyad file; the subcommands are helpers around it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (splitter)          split --input into --output / --stdout
//   ├── validateCmd             check a mapping against an input header
//   ├── presetsCmd              list the built-in mappings
//   └── versionCmd              print version information
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Reading SPLITTER_* environment defaults
//   2. Setting up logging (zap, JSON on stderr)
//   3. Tagging the run with an id
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/dyad-splitter/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// verbose forces debug logging.
var verbose bool

// logLevel is the minimum level written to the log.
var logLevel string

// logger is built in PersistentPreRunE and synced in PersistentPostRun.
var logger = zap.NewNop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command. Without subcommand it performs a split.
var rootCmd = &cobra.Command{
	Use:   "splitter",
	Short: "Split dyad records into one row per partner",
	Long: `splitter turns a CSV (or XLSX) export where each row holds the answers of
two partners side by side into a file with one row per partner.

A mapping lists, for every output column, the input column that feeds the
first partner's row and the one that feeds the second partner's row. The
output header is the list of first-partner column names.

By default a pair is dropped when any mapped value is blank in either row,
except for columns marked exempt. Use --blanks to keep every pair.

Example Usage:
  splitter -i couples.csv -o partners.csv
  splitter -i couples.csv --stdout --blanks
  splitter -i couples.xlsx -o out.csv --mapping layout.yaml --exempt total_SCS_IP
  splitter validate -i couples.csv --preset partners`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.LoadEnvironment()
		if err != nil {
			return err
		}
		applyEnvironment(cmd, env)

		logger, err = newLogger(logLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logger.With(zap.String("run_id", uuid.New().String()))
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return runSplit(cmd)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main(). Interrupts cancel the
// run, which discards any partial output file.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"warn",
		"Log level: debug, info, warn, error (env SPLITTER_LOG_LEVEL)",
	)

	// Print usage for malformed flags too, not just for missing ones.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = cmd.Usage()
		return err
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// applyEnvironment fills flags the user did not set from the environment.
func applyEnvironment(cmd *cobra.Command, env *config.Environment) {
	setDefault(cmd, "workers", strconv.Itoa(env.Workers))
	setDefault(cmd, "batch-size", strconv.Itoa(env.BatchSize))
	setDefault(cmd, "preset", env.Preset)
	setDefault(cmd, "log-level", env.LogLevel)
}

func setDefault(cmd *cobra.Command, name, value string) {
	f := cmd.Flags().Lookup(name)
	if f == nil || f.Changed || value == "" {
		return
	}
	if err := f.Value.Set(value); err != nil {
		logger.Warn("Ignoring invalid environment default",
			zap.String("flag", name),
			zap.String("value", value),
			zap.Error(err))
	}
}

// newLogger builds the production zap logger at the requested level.
func newLogger(level string, debug bool) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	if debug {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// usageError prints the usage of cmd when err is an option error.
func usageError(cmd *cobra.Command, err error) error {
	if errors.Is(err, config.ErrInvalidOptions) {
		_ = cmd.Usage()
	}
	return err
}
