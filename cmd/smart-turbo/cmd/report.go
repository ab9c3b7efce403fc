package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/api"
)

var (
	reportFormatFlag string
	reportOutputFlag string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Check, generate and download test reports",
}

var reportCheckCmd = &cobra.Command{
	Use:   "check <testID>",
	Short: "Check which report documents exist for a test",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportCheck,
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate <testID>",
	Short: "Generate the markdown report for a test",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportGenerate,
}

var reportShowCmd = &cobra.Command{
	Use:   "show <testID>",
	Short: "Print the markdown report to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

var reportDownloadCmd = &cobra.Command{
	Use:   "download <testID>",
	Short: "Download a report document to a file",
	Long: `Download a report document.

By default the markdown report is written to test-report-<id>.md in the
current directory. Use --format html for the HTML report and --file to
choose the destination.`,
	Args: cobra.ExactArgs(1),
	RunE: runReportDownload,
}

func init() {
	reportDownloadCmd.Flags().StringVar(&reportFormatFlag, "format", "markdown", "report format: markdown or html")
	reportDownloadCmd.Flags().StringVar(&reportOutputFlag, "file", "", "destination file (default: test-report-<id>.<ext>)")
	reportCmd.AddCommand(reportCheckCmd, reportGenerateCmd, reportShowCmd, reportDownloadCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	avail := a.client.CheckAvailableReports(ctx, id)

	if a.jsonOutput() {
		return renderJSON(avail)
	}

	w := newTable()
	fmt.Fprintf(w, "Markdown:\t%t\n", avail.Markdown)
	fmt.Fprintf(w, "HTML:\t%t\n", avail.HTML)
	return w.Flush()
}

func runReportGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	content, err := a.client.GenerateMarkdownReport(ctx, id)
	if err != nil {
		return err
	}

	name := api.ReportFileName(id, api.ReportMarkdown)
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", name)
	return nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	content, err := a.client.ReportContent(ctx, id)
	if err != nil {
		return err
	}
	fmt.Print(content)
	return nil
}

func runReportDownload(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer a.close(ctx)

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	format := api.ReportFormat(reportFormatFlag)
	if !format.IsValid() {
		return fmt.Errorf("invalid report format %q: must be markdown or html", reportFormatFlag)
	}

	name := reportOutputFlag
	if name == "" {
		name = api.ReportFileName(id, format)
	}

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	if err := a.client.DownloadReport(ctx, id, format, f); err != nil {
		os.Remove(name)
		return err
	}
	fmt.Printf("Report written to %s\n", name)
	return nil
}
