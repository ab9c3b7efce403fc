package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TestResult is one execution record with its aggregate metrics.
type TestResult struct {
	ID                int64           `json:"id"`
	TestID            int64           `json:"testId"`
	TestName          string          `json:"testName,omitempty"`
	Status            string          `json:"status"`
	StartedAt         time.Time       `json:"startedAt"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
	TotalRequests     int64           `json:"totalRequests"`
	FailedRequests    int64           `json:"failedRequests"`
	AvgResponseTime   float64         `json:"avgResponseTime"`
	MinResponseTime   float64         `json:"minResponseTime"`
	MaxResponseTime   float64         `json:"maxResponseTime"`
	P95ResponseTime   float64         `json:"p95ResponseTime"`
	P99ResponseTime   float64         `json:"p99ResponseTime"`
	RequestsPerSecond float64         `json:"requestsPerSecond"`
	ErrorRate         float64         `json:"errorRate"`
	// Metrics is the raw engine metrics blob; its shape varies by engine
	// version, so it is kept undecoded.
	Metrics json.RawMessage `json:"metrics,omitempty"`
	// Analysis is the server-side analysis of the run, when available.
	Analysis *ResultAnalysis `json:"analysis,omitempty"`
	RawOutput string        `json:"rawOutput,omitempty"`
}

// ResultAnalysis carries the server's automated assessment of a run.
type ResultAnalysis struct {
	Summary     string   `json:"summary,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// TestResultFor returns the result of the most recent execution of a test.
func (c *Client) TestResultFor(ctx context.Context, testID int64) (*TestResult, error) {
	var result TestResult
	if err := c.Get(ctx, fmt.Sprintf("/api/tests/%d/result", testID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResults returns all execution results across all tests.
func (c *Client) ListResults(ctx context.Context) ([]TestResult, error) {
	var results []TestResult
	if err := c.Get(ctx, "/api/results", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}
