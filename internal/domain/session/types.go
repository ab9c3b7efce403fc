// Package session owns the client-side authentication lifecycle: the
// current token and user profile, the login/logout/verify transitions,
// and the derived authorization queries the rest of the application
// reads.
package session

import (
	"context"

	"github.com/rambozzang/smart-turbo-cli/internal/domain/auth"
)

// Snapshot is the immutable token+user pair. Updates replace the whole
// snapshot, never patch it, so a user is never observable without its
// matching token.
type Snapshot struct {
	// Token is the opaque bearer credential, or "" when logged out.
	Token string
	// User is the profile from the last login or verify, or nil.
	User *auth.User
}

// Authenticated reports whether both halves of the pair are present.
func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// LoginResult is the outcome of a credential exchange.
type LoginResult struct {
	// Success mirrors the backend's explicit success flag.
	Success bool
	// Token is the issued bearer credential.
	Token string
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64
	// User is the authenticated profile.
	User *auth.User
}

// VerifyResult is the outcome of a token verification.
type VerifyResult struct {
	// Valid reports whether the current token is still accepted.
	Valid bool
	// User is the fresh profile when the token is valid.
	User *auth.User
}

// AuthAPI is the outbound port to the backend's auth endpoints.
// Implementation: the API gateway.
type AuthAPI interface {
	// Login exchanges credentials for a bearer token and profile.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Logout invalidates the session server-side.
	Logout(ctx context.Context) error

	// Verify checks the current bearer token and returns the fresh profile.
	Verify(ctx context.Context) (*VerifyResult, error)

	// CurrentUser returns the profile of the authenticated user.
	CurrentUser(ctx context.Context) (*auth.User, error)
}

// TokenStore is the outbound port to durable client-side storage.
// Implementation: the file state store.
type TokenStore interface {
	// Token returns the persisted bearer token, or "".
	Token() string

	// SetToken persists a new bearer token.
	SetToken(token string) error

	// ClearToken removes the persisted bearer token.
	ClearToken() error
}
