package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	Long: `Show the dashboard statistics: total tests, success rate, average
response time and tests created this week.

When the stats endpoint is unavailable the numbers are computed
client-side from the test list instead.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	stats, err := a.client.DashboardStatsOrLocal(ctx)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return renderJSON(stats)
	}

	w := newTable()
	fmt.Fprintf(w, "Total tests:\t%d\n", stats.TotalTests)
	fmt.Fprintf(w, "Success rate:\t%.1f%%\n", stats.SuccessRate)
	fmt.Fprintf(w, "Avg response time:\t%s\n", formatMillis(stats.AvgResponseTime))
	fmt.Fprintf(w, "Tests this week:\t%d\n", stats.TestsThisWeek)
	return w.Flush()
}
