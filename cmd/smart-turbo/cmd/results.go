package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/api"
)

var resultsCmd = &cobra.Command{
	Use:   "results [testID]",
	Short: "Show test results",
	Long: `Show test results.

With a test ID, shows the detailed result for that test including the
response time percentiles. Without arguments, lists all results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		result, err := a.client.TestResultFor(ctx, id)
		if err != nil {
			return err
		}
		if a.jsonOutput() {
			return renderJSON(result)
		}
		return printResultDetail(result)
	}

	results, err := a.client.ListResults(ctx)
	if err != nil {
		return err
	}
	if a.jsonOutput() {
		return renderJSON(results)
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tTEST\tSTATUS\tREQUESTS\tERRORS\tAVG\tP95\tRPS\tSTARTED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.1f%%\t%s\t%s\t%.1f\t%s\n",
			r.ID, r.TestName, r.Status, r.TotalRequests, r.ErrorRate,
			formatMillis(r.AvgResponseTime), formatMillis(r.P95ResponseTime),
			r.RequestsPerSecond, formatTime(r.StartedAt))
	}
	return w.Flush()
}

func printResultDetail(r *api.TestResult) error {
	w := newTable()
	fmt.Fprintf(w, "Result:\t%d\n", r.ID)
	fmt.Fprintf(w, "Test:\t%d %s\n", r.TestID, r.TestName)
	fmt.Fprintf(w, "Status:\t%s\n", r.Status)
	fmt.Fprintf(w, "Started:\t%s\n", formatTime(r.StartedAt))
	fmt.Fprintf(w, "Completed:\t%s\n", formatTimePtr(r.CompletedAt))
	fmt.Fprintf(w, "Requests:\t%d (%d failed)\n", r.TotalRequests, r.FailedRequests)
	fmt.Fprintf(w, "Error rate:\t%.2f%%\n", r.ErrorRate)
	fmt.Fprintf(w, "Throughput:\t%.1f req/s\n", r.RequestsPerSecond)
	fmt.Fprintln(w, "Response times:")
	fmt.Fprintf(w, "  avg:\t%s\n", formatMillis(r.AvgResponseTime))
	fmt.Fprintf(w, "  min:\t%s\n", formatMillis(r.MinResponseTime))
	fmt.Fprintf(w, "  max:\t%s\n", formatMillis(r.MaxResponseTime))
	fmt.Fprintf(w, "  p95:\t%s\n", formatMillis(r.P95ResponseTime))
	fmt.Fprintf(w, "  p99:\t%s\n", formatMillis(r.P99ResponseTime))
	if r.Analysis != nil {
		fmt.Fprintf(w, "Assessment:\t%s\n", r.Analysis.Summary)
	}
	return w.Flush()
}
