// ABOUTME: Root Cobra command for sleepdash CLI.
// ABOUTME: Loads config and the logger via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/sleepdash/internal/analytics"
	"github.com/harperreed/sleepdash/internal/config"
	"github.com/harperreed/sleepdash/internal/logging"
	"github.com/harperreed/sleepdash/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()

	sleepsFlag   string
	cyclesFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "sleepdash",
	Short: "Sleep and recovery analytics for wearable exports",
	Long: `sleepdash turns the sleeps.csv and physiological_cycles.csv exports of a
wearable into sleep and recovery reports.

WHAT IT REPORTS:

  Annual     mean RHR, HRV, asleep duration and sleep consistency per year
  Monthly    the same per year-month, plus skin temperature
  Weekday    the same per weekday (Monday first), plus recovery score
  Daily      per-night duration, night score and biometrics
  Shares     share of Good (>=7h), Okay (6-7h) and Bad (<6h) nights

QUICK START:

  $ sleepdash --sleeps sleeps.csv --cycles physiological_cycles.csv report annual
  $ sleepdash config set sleeps_file ~/whoop/sleeps.csv
  $ sleepdash config set cycles_file ~/whoop/physiological_cycles.csv
  $ sleepdash report monthly --from 2023-01 --to 2023-12
  $ sleepdash report weekday --start 2023-01-01 --end 2023-06-30
  $ sleepdash export xlsx -o sleep.xlsx

MCP INTEGRATION:

  Run 'sleepdash mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "sleepdash": { "command": "sleepdash", "args": ["mcp"] }
    }
  }

DATA:

  Exports are read fresh on every run and held in memory only. Nothing is
  stored between runs except the config at ~/.config/sleepdash/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if logLevelFlag != "" {
			level = logLevelFlag
		}
		logger, err = logging.New(level, cfg.GetLogFormat())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		_ = logger.Sync()
		return nil
	},
}

// exportPaths resolves the export file paths, flags first, then config.
func exportPaths() (string, string) {
	sleeps, cycles := sleepsFlag, cyclesFlag
	if cfg != nil {
		if sleeps == "" {
			sleeps = cfg.GetSleepsFile()
		}
		if cycles == "" {
			cycles = cfg.GetCyclesFile()
		}
	}
	return config.ExpandPath(sleeps), config.ExpandPath(cycles)
}

// openSession builds a session from the configured exports. With no exports
// configured the session stays idle.
func openSession() (*session.Session, error) {
	sess := session.New(logger)
	sleeps, cycles := exportPaths()
	if sleeps == "" || cycles == "" {
		logger.Debug("exports not configured", zap.String("sleeps", sleeps), zap.String("cycles", cycles))
		return sess, nil
	}
	if err := sess.LoadFiles(sleeps, cycles); err != nil {
		return nil, fmt.Errorf("failed to load exports: %w", err)
	}
	return sess, nil
}

// loadDataset opens a session and returns its dataset. When the session is
// idle it prints the no-data notice and returns nil without error.
func loadDataset(out io.Writer) (*analytics.Dataset, error) {
	sess, err := openSession()
	if err != nil {
		return nil, err
	}
	ds, err := sess.Dataset()
	if errors.Is(err, session.ErrIdle) {
		printIdle(out)
		return nil, nil
	}
	return ds, err
}

func printIdle(out io.Writer) {
	faint := color.New(color.Faint)
	_, _ = fmt.Fprintln(out, "No data yet.")
	_, _ = faint.Fprintln(out, "Pass --sleeps and --cycles, or set sleeps_file and cycles_file with 'sleepdash config set'.")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sleepsFlag, "sleeps", "", "path to sleeps.csv (overrides config)")
	rootCmd.PersistentFlags().StringVar(&cyclesFlag, "cycles", "", "path to physiological_cycles.csv (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}
