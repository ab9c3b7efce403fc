package api

import (
	"context"

	"github.com/rambozzang/smart-turbo-cli/internal/domain/auth"
	"github.com/rambozzang/smart-turbo-cli/internal/domain/session"
)

// loginRequest carries login credentials on the wire.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the backend's answer to a login attempt.
type loginResponse struct {
	Success   bool       `json:"success"`
	Token     string     `json:"token"`
	ExpiresIn int64      `json:"expiresIn"`
	User      *auth.User `json:"user"`
}

// verifyResponse is the backend's answer to a token verification.
type verifyResponse struct {
	Valid bool       `json:"valid"`
	User  *auth.User `json:"user"`
}

// Login exchanges credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, username, password string) (*session.LoginResult, error) {
	var resp loginResponse
	req := loginRequest{Username: username, Password: password}
	if err := c.Post(ctx, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &session.LoginResult{
		Success:   resp.Success,
		Token:     resp.Token,
		ExpiresIn: resp.ExpiresIn,
		User:      resp.User,
	}, nil
}

// Logout invalidates the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/api/auth/logout", nil, nil)
}

// Verify checks the current bearer token and returns the fresh profile.
func (c *Client) Verify(ctx context.Context) (*session.VerifyResult, error) {
	var resp verifyResponse
	if err := c.Get(ctx, "/api/auth/verify", nil, &resp); err != nil {
		return nil, err
	}
	return &session.VerifyResult{Valid: resp.Valid, User: resp.User}, nil
}

// Compile-time port verification.
var _ session.AuthAPI = (*Client)(nil)
