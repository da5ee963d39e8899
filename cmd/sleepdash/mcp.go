// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/sleepdash/internal/mcp"
	"github.com/harperreed/sleepdash/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to query your sleep exports through
a standardized protocol. The server communicates via stdin/stdout; logs go
to stderr.

If sleeps_file and cycles_file are configured (or passed as flags) they are
loaded at startup. Otherwise use the load_export tool.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "sleepdash": {
        "command": "sleepdash",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  load_export       Load sleeps.csv and/or physiological_cycles.csv
  annual_overview   Mean metrics per year
  monthly_overview  Mean metrics per year-month
  weekday_overview  Mean metrics per weekday over a date range
  daily_metrics     Per-night metrics over a date range
  score_shares      Good/Okay/Bad night shares per year or year-month
  clear_session     Discard loaded exports

AVAILABLE RESOURCES:

  sleepdash://annual    Annual overview
  sleepdash://monthly   Monthly overview
  sleepdash://shares    Night score shares`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			// A bad configured export should not keep the server from starting.
			logger.Warn("preload failed; starting idle", zap.Error(err))
			sess = session.New(logger)
		}

		server, err := mcp.NewServer(sess, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
