package api

import (
	"context"
	"fmt"
	"time"
)

// TestType categorizes a load test by traffic shape.
type TestType string

const (
	// TestTypeLoad ramps to a sustained target load.
	TestTypeLoad TestType = "LOAD"
	// TestTypeStress pushes past expected capacity.
	TestTypeStress TestType = "STRESS"
	// TestTypeSpike applies a sudden burst of traffic.
	TestTypeSpike TestType = "SPIKE"
	// TestTypeSoak holds moderate load for a long duration.
	TestTypeSoak TestType = "SOAK"
)

// IsValid returns true if the test type is a known valid type.
func (t TestType) IsValid() bool {
	switch t {
	case TestTypeLoad, TestTypeStress, TestTypeSpike, TestTypeSoak:
		return true
	default:
		return false
	}
}

// TestStatus is the execution state of a test definition.
type TestStatus string

const (
	// TestStatusCreated means the test is defined but never run.
	TestStatusCreated TestStatus = "CREATED"
	// TestStatusRunning means an execution is in progress.
	TestStatusRunning TestStatus = "RUNNING"
	// TestStatusCompleted means the last execution finished successfully.
	TestStatusCompleted TestStatus = "COMPLETED"
	// TestStatusFailed means the last execution failed.
	TestStatusFailed TestStatus = "FAILED"
)

// Test is a load test definition as returned by the backend.
type Test struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	TargetURL    string     `json:"targetUrl"`
	VirtualUsers int        `json:"virtualUsers"`
	Duration     string     `json:"duration"`
	TestType     TestType   `json:"testType"`
	Status       TestStatus `json:"status"`
	Script       string     `json:"script,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateTestRequest is the payload for defining a new test.
// Either TemplateID or the explicit shape fields must be provided.
type CreateTestRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	TargetURL    string   `json:"targetUrl,omitempty"`
	VirtualUsers int      `json:"virtualUsers,omitempty"`
	Duration     string   `json:"duration"`
	TestType     TestType `json:"testType"`
	TemplateID   int64    `json:"templateId,omitempty"`
	Script       string   `json:"script,omitempty"`
}

// ListTests returns all test definitions.
func (c *Client) ListTests(ctx context.Context) ([]Test, error) {
	var tests []Test
	if err := c.Get(ctx, "/api/tests", nil, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// GetTest returns a single test definition by ID.
func (c *Client) GetTest(ctx context.Context, id int64) (*Test, error) {
	var test Test
	if err := c.Get(ctx, fmt.Sprintf("/api/tests/%d", id), nil, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

// CreateTest defines a new test.
func (c *Client) CreateTest(ctx context.Context, req CreateTestRequest) (*Test, error) {
	var test Test
	if err := c.Post(ctx, "/api/tests", req, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

// RunTest starts an execution of the test and returns its result record.
func (c *Client) RunTest(ctx context.Context, id int64) (*TestResult, error) {
	var result TestResult
	if err := c.Post(ctx, fmt.Sprintf("/api/tests/%d/run", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteTest removes a test definition.
func (c *Client) DeleteTest(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/api/tests/%d", id))
}
