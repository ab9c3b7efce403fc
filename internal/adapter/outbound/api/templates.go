package api

import (
	"context"
	"fmt"
	"time"
)

// Template is a reusable test definition from the template catalog.
type Template struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	TestType     TestType  `json:"testType"`
	VirtualUsers int       `json:"virtualUsers"`
	Duration     string    `json:"duration"`
	RampUpTime   string    `json:"rampUpTime,omitempty"`
	Script       string    `json:"script,omitempty"`
	IsSystem     bool      `json:"isSystem"`
	Icon         string    `json:"icon,omitempty"`
	TargetURL    string    `json:"url,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Templates returns the full template catalog.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	var templates []Template
	if err := c.Get(ctx, "/api/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// SystemTemplates returns only the built-in templates.
func (c *Client) SystemTemplates(ctx context.Context) ([]Template, error) {
	var templates []Template
	if err := c.Get(ctx, "/api/templates/system", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// TemplatesByType returns the templates matching a test type.
func (c *Client) TemplatesByType(ctx context.Context, t TestType) ([]Template, error) {
	var templates []Template
	if err := c.Get(ctx, fmt.Sprintf("/api/templates/type/%s", t), nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
