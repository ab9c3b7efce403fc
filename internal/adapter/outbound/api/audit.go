package api

import (
	"context"
	"fmt"
	"time"
)

// AuditLog is one entry in the audit trail.
type AuditLog struct {
	ID           int64     `json:"id"`
	UserID       *int64    `json:"userId,omitempty"`
	Username     string    `json:"username"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType,omitempty"`
	ResourceID   string    `json:"resourceId,omitempty"`
	Details      string    `json:"details,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuditLogs returns one page of the platform-wide audit trail, newest first.
func (c *Client) AuditLogs(ctx context.Context, page, size int) (*Page[AuditLog], error) {
	var result Page[AuditLog]
	if err := c.Get(ctx, "/api/audit-logs", pageQuery(page, size), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UserAuditLogs returns one page of a single user's audit trail, newest first.
func (c *Client) UserAuditLogs(ctx context.Context, userID int64, page, size int) (*Page[AuditLog], error) {
	var result Page[AuditLog]
	path := fmt.Sprintf("/api/users/%d/audit-logs", userID)
	if err := c.Get(ctx, path, pageQuery(page, size), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
