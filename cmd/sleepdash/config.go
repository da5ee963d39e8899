// ABOUTME: CLI commands for viewing and editing the config file.
// ABOUTME: Keys mirror the JSON field names.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/sleepdash/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show or change sleepdash configuration.

KEYS:

  sleeps_file   default path to sleeps.csv
  cycles_file   default path to physiological_cycles.csv
  export_dir    where xlsx and sqlite exports go without --output
  log_level     debug, info, warn (default) or error
  log_format    console (default) or json

EXAMPLES:

  sleepdash config show
  sleepdash config set sleeps_file ~/whoop/sleeps.csv
  sleepdash config path`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		rows := [][2]string{
			{"sleeps_file", cfg.GetSleepsFile()},
			{"cycles_file", cfg.GetCyclesFile()},
			{"export_dir", cfg.GetExportDir()},
			{"log_level", cfg.GetLogLevel()},
			{"log_format", cfg.GetLogFormat()},
		}
		for _, r := range rows {
			v := r[1]
			if v == "" {
				v = faint.Sprint("(not set)")
			}
			_, _ = fmt.Fprintf(out, "%s %s\n", padRight(r[0], 12), v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Set %s\n", args[0])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
