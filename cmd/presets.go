package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dyad-splitter/internal/config"
)

// presetsCmd represents the 'presets' command.
var presetsCmd = &cobra.Command{
	Use:   "presets [name]",
	Short: "List the built-in mappings",
	Long: `Without arguments, list the mappings compiled into the binary.
With a name, print that mapping column by column.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return showPreset(cmd, args[0])
		}
		return listPresets(cmd)
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func listPresets(cmd *cobra.Command) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOLUMNS\tEXEMPT\tDESCRIPTION")

	for _, name := range config.PresetNames() {
		cfg, err := config.Preset(name)
		if err != nil {
			return err
		}
		exempt := "-"
		if len(cfg.Exempt) > 0 {
			exempt = strings.Join(cfg.Exempt, ",")
		}
		marker := ""
		if name == config.DefaultPreset {
			marker = " (default)"
		}
		fmt.Fprintf(tw, "%s%s\t%d\t%s\t%s\n", name, marker, len(cfg.Columns), exempt, cfg.Description)
	}

	return tw.Flush()
}

func showPreset(cmd *cobra.Command, name string) error {
	cfg, err := config.Preset(name)
	if err != nil {
		return err
	}
	m, err := cfg.Mapping()
	if err != nil {
		return err
	}
	printMapping(cmd.OutOrStdout(), cfg, m)
	return nil
}
