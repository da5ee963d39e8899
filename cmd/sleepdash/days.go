// ABOUTME: CLI command for listing the nights and months in the exports.
// ABOUTME: Shows the date span used by the daily and monthly range flags.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	daysMonths bool
	daysAll    bool
)

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "Show the nights and months available",
	Long: `Show how many nights the exports hold and the date span they cover.

Naps and nights without an asleep duration are not counted.

EXAMPLES:

  sleepdash days            # Night count and first/last date
  sleepdash days --months   # Also list every year-month bucket
  sleepdash days --all      # Also list every date`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ds, err := loadDataset(out)
		if err != nil || ds == nil {
			return err
		}

		days := ds.Days()
		months := ds.Months()
		if len(days) == 0 {
			_, _ = fmt.Fprintln(out, "No nights found.")
			return nil
		}

		faint := color.New(color.Faint)
		_, _ = fmt.Fprintf(out, "%d nights across %d months\n", ds.Len(), len(months))
		_, _ = fmt.Fprintf(out, "%s %s\n", padRight("First night", 12), days[0])
		_, _ = fmt.Fprintf(out, "%s %s\n", padRight("Last night", 12), days[len(days)-1])

		if daysMonths {
			_, _ = fmt.Fprintln(out)
			_, _ = faint.Fprintln(out, "Months:")
			_, _ = fmt.Fprintln(out, strings.Join(months, " "))
		}
		if daysAll {
			_, _ = fmt.Fprintln(out)
			_, _ = faint.Fprintln(out, "Dates:")
			for _, d := range days {
				_, _ = fmt.Fprintln(out, d)
			}
		}
		return nil
	},
}

func init() {
	daysCmd.Flags().BoolVar(&daysMonths, "months", false, "list year-month buckets")
	daysCmd.Flags().BoolVar(&daysAll, "all", false, "list every date")
	rootCmd.AddCommand(daysCmd)
}
