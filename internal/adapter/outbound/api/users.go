package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rambozzang/smart-turbo-cli/internal/domain/auth"
)

// Page is the backend's pagination envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// pageQuery builds the standard pagination query, newest first.
func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sort", "createdAt,desc")
	return q
}

// CreateUserRequest is the payload for creating a user account.
type CreateUserRequest struct {
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	FullName string    `json:"fullName,omitempty"`
	Role     auth.Role `json:"role"`
}

// UpdateUserRequest is the payload for modifying a user account.
// Zero-valued fields are left unchanged.
type UpdateUserRequest struct {
	Email    string      `json:"email,omitempty"`
	FullName string      `json:"fullName,omitempty"`
	Role     auth.Role   `json:"role,omitempty"`
	Status   auth.Status `json:"status,omitempty"`
}

// ChangePasswordRequest is the payload for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserStats are the aggregate numbers for the user management view.
type UserStats struct {
	TotalUsers  int            `json:"totalUsers"`
	ActiveUsers int            `json:"activeUsers"`
	UsersByRole map[string]int `json:"usersByRole"`
}

// CreateUser creates a new user account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*auth.User, error) {
	var user auth.User
	if err := c.Post(ctx, "/api/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns one page of user accounts, newest first.
func (c *Client) ListUsers(ctx context.Context, page, size int) (*Page[auth.User], error) {
	var result Page[auth.User]
	if err := c.Get(ctx, "/api/users", pageQuery(page, size), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser returns a single user account by ID.
func (c *Client) GetUser(ctx context.Context, id int64) (*auth.User, error) {
	var user auth.User
	if err := c.Get(ctx, fmt.Sprintf("/api/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*auth.User, error) {
	var user auth.User
	if err := c.Get(ctx, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser modifies a user account.
func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*auth.User, error) {
	var user auth.User
	if err := c.Put(ctx, fmt.Sprintf("/api/users/%d", id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/api/users/%d", id))
}

// ChangePassword changes a user's password.
func (c *Client) ChangePassword(ctx context.Context, id int64, req ChangePasswordRequest) error {
	return c.Post(ctx, fmt.Sprintf("/api/users/%d/password", id), req, nil)
}

// GetUserStats returns aggregate account numbers.
func (c *Client) GetUserStats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	if err := c.Get(ctx, "/api/users/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
