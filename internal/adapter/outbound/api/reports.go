package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ReportFormat selects the report document format.
type ReportFormat string

const (
	// ReportMarkdown is the markdown report document.
	ReportMarkdown ReportFormat = "markdown"
	// ReportHTML is the rendered HTML report document.
	ReportHTML ReportFormat = "html"
)

// IsValid returns true if the format is a known report format.
func (f ReportFormat) IsValid() bool {
	return f == ReportMarkdown || f == ReportHTML
}

// Extension returns the file extension for the format.
func (f ReportFormat) Extension() string {
	if f == ReportMarkdown {
		return "md"
	}
	return "html"
}

// AvailableReports says which report documents exist for a test.
type AvailableReports struct {
	Markdown bool `json:"markdown"`
	HTML     bool `json:"html"`
}

// CheckAvailableReports probes which report documents exist for a test.
// The probe is a deliberate degrade-gracefully path: on any failure it
// reports nothing available rather than failing.
func (c *Client) CheckAvailableReports(ctx context.Context, testID int64) AvailableReports {
	var avail AvailableReports
	path := fmt.Sprintf("/api/tests/%d/reports/available", testID)
	if err := c.Get(ctx, path, nil, &avail); err != nil {
		c.logger.Debug("report availability probe failed", "test_id", testID, "error", err)
		return AvailableReports{}
	}
	return avail
}

// GenerateMarkdownReport asks the server to generate the markdown report
// for a test and returns the generated document.
func (c *Client) GenerateMarkdownReport(ctx context.Context, testID int64) (string, error) {
	var content string
	path := fmt.Sprintf("/api/tests/%d/reports/markdown", testID)
	if err := c.Post(ctx, path, nil, &content); err != nil {
		return "", err
	}
	return content, nil
}

// ReportContent returns the markdown report document for a test.
func (c *Client) ReportContent(ctx context.Context, testID int64) (string, error) {
	var content string
	path := fmt.Sprintf("/api/tests/%d/reports/markdown/content", testID)
	if err := c.Get(ctx, path, nil, &content); err != nil {
		return "", err
	}
	return content, nil
}

// DownloadReport streams the report document in the given format to w.
func (c *Client) DownloadReport(ctx context.Context, testID int64, format ReportFormat, w io.Writer) error {
	if !format.IsValid() {
		return fmt.Errorf("unknown report format %q", format)
	}
	var doc []byte
	path := fmt.Sprintf("/api/tests/%d/reports/%s/download", testID, format)
	if err := c.Do(ctx, http.MethodGet, path, nil, nil, &doc); err != nil {
		return err
	}
	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReportFileName is the conventional local file name for a downloaded report.
func ReportFileName(testID int64, format ReportFormat) string {
	return fmt.Sprintf("test-report-%d.%s", testID, format.Extension())
}
