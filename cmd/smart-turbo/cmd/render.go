package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// renderJSON pretty-prints v to stdout.
func renderJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a tab-aligned writer for stdout. Callers must Flush.
func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// jsonOutput reports whether the effective output format is JSON.
func (a *app) jsonOutput() bool {
	return a.cfg.Output.Format == "json"
}

// formatTime renders a timestamp for table output.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// formatTimePtr renders an optional timestamp for table output.
func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

// formatMillis renders a response time in milliseconds.
func formatMillis(ms float64) string {
	return fmt.Sprintf("%.1fms", ms)
}
