package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rambozzang/smart-turbo-cli/internal/domain/auth"
)

// backendMessenger is satisfied by gateway errors carrying the server's
// structured message field. The store depends on the shape, not the
// gateway package.
type backendMessenger interface {
	BackendMessage() string
}

// Store holds the process-wide authentication state. It is constructed
// once at application start and lives for the process lifetime; state is
// reset through Logout rather than reconstruction.
//
// All snapshot writes replace the token+user pair wholesale under the
// mutex, so concurrent readers never observe a user without its token.
// Overlapping Login calls are not serialized against each other; callers
// must not race multiple logins.
type Store struct {
	api    AuthAPI
	tokens TokenStore
	logger *slog.Logger

	mu      sync.RWMutex
	snap    Snapshot
	lastErr string
}

// NewStore creates a session store. A token persisted by a previous
// process is restored into the snapshot; call Restore to validate it
// against the server before trusting it.
func NewStore(api AuthAPI, tokens TokenStore, logger *slog.Logger) *Store {
	return &Store{
		api:    api,
		tokens: tokens,
		logger: logger,
		snap:   Snapshot{Token: tokens.Token()},
	}
}

// Restore verifies a token persisted by a previous session, so a
// process start with a stale or revoked token self-heals to logged-out.
// It is a no-op returning false when no token was persisted.
func (s *Store) Restore(ctx context.Context) bool {
	return s.VerifyToken(ctx)
}

// Login exchanges credentials for a session. On success the token is
// persisted and the snapshot replaced; every subsequent gateway request
// carries the new bearer header. On failure the state is unchanged and
// the returned error carries the server-provided message when available;
// the same message is kept for display via LastError.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.setLastError("")

	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		// Keep the server's own message verbatim for display; anything
		// without one gets the generic text.
		msg := "login failed"
		var bm backendMessenger
		if errors.As(err, &bm) && bm.BackendMessage() != "" {
			msg = bm.BackendMessage()
		}
		s.setLastError(msg)
		return fmt.Errorf("login: %w", err)
	}
	if !result.Success || result.Token == "" || result.User == nil {
		s.setLastError("login failed")
		return fmt.Errorf("login failed")
	}

	if err := s.tokens.SetToken(result.Token); err != nil {
		s.setLastError("login failed")
		return fmt.Errorf("persist token: %w", err)
	}

	s.replace(Snapshot{Token: result.Token, User: result.User})
	s.logger.Info("logged in", "username", result.User.Username, "role", result.User.Role)
	return nil
}

// Logout ends the session. The server is notified best-effort; a failed
// notification is logged and never blocks local cleanup. The token and
// user are always cleared together.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("server logout failed", "error", err)
	}
	s.clearLocal()
}

// SessionInvalid reacts to the gateway's 401 signal: the persisted
// token and the in-memory snapshot are dropped without a server call.
// The server already considers the session dead.
func (s *Store) SessionInvalid() {
	s.clearLocal()
}

// VerifyToken checks the current token against the server. With no
// token it returns false immediately without a network call. A valid
// response replaces the stored profile; an invalid or erroring response
// performs the same full cleanup as Logout and returns false.
func (s *Store) VerifyToken(ctx context.Context) bool {
	if s.Token() == "" {
		return false
	}

	result, err := s.api.Verify(ctx)
	if err != nil {
		s.logger.Debug("token verification failed", "error", err)
		s.Logout(ctx)
		return false
	}
	if !result.Valid || result.User == nil {
		s.Logout(ctx)
		return false
	}

	s.replace(Snapshot{Token: s.Token(), User: result.User})
	return true
}

// FetchCurrentUser refreshes the stored profile from the server. On
// failure the state is left unchanged; the failure is logged only.
func (s *Store) FetchCurrentUser(ctx context.Context) *auth.User {
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch current user", "error", err)
		return nil
	}

	s.mu.Lock()
	s.snap = Snapshot{Token: s.snap.Token, User: user}
	s.mu.Unlock()
	return user
}

// clearLocal drops the snapshot and the persisted token together.
func (s *Store) clearLocal() {
	if err := s.tokens.ClearToken(); err != nil {
		s.logger.Warn("failed to clear persisted token", "error", err)
	}
	s.replace(Snapshot{})
}

// replace swaps in a new snapshot wholesale.
func (s *Store) replace(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Store) setLastError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

// Current returns the current snapshot.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Token returns the current bearer token, or "".
func (s *Store) Token() string {
	return s.Current().Token
}

// User returns the current profile, or nil.
func (s *Store) User() *auth.User {
	return s.Current().User
}

// UserLoaded reports whether a profile has been loaded this session.
func (s *Store) UserLoaded() bool {
	return s.Current().User != nil
}

// HasToken reports whether a bearer token is held, verified or not.
func (s *Store) HasToken() bool {
	return s.Current().Token != ""
}

// LastError returns the display message of the last failed login, or "".
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// IsAuthenticated reports whether token and user are both present.
func (s *Store) IsAuthenticated() bool {
	return s.Current().Authenticated()
}

// IsAdmin reports whether the current user holds the ADMIN role.
func (s *Store) IsAdmin() bool {
	return s.User().HasRole(auth.RoleAdmin)
}

// IsManager reports whether the current user holds the MANAGER role.
func (s *Store) IsManager() bool {
	return s.User().HasRole(auth.RoleManager)
}

// CanManageUsers reports whether the current user may administer accounts.
func (s *Store) CanManageUsers() bool {
	return s.User().CanManageUsers()
}

// CanCreateTests reports whether the current user may define tests.
func (s *Store) CanCreateTests() bool {
	return s.User().HasPermission(auth.PermissionCreateTests)
}

// CanRunTests reports whether the current user may start test executions.
func (s *Store) CanRunTests() bool {
	return s.User().HasPermission(auth.PermissionRunTests)
}

// HasPermission reports whether the current user holds the permission.
// Denies when no user is loaded.
func (s *Store) HasPermission(p auth.Permission) bool {
	return s.User().HasPermission(p)
}

// HasAnyPermission reports whether the current user holds at least one
// of the permissions.
func (s *Store) HasAnyPermission(perms ...auth.Permission) bool {
	return s.User().HasAnyPermission(perms...)
}

// HasAllPermissions reports whether the current user holds every one of
// the permissions.
func (s *Store) HasAllPermissions(perms ...auth.Permission) bool {
	return s.User().HasAllPermissions(perms...)
}

// HasRole reports whether the current user holds the role.
func (s *Store) HasRole(role auth.Role) bool {
	return s.User().HasRole(role)
}

// HasAnyRole reports whether the current user holds any of the roles.
func (s *Store) HasAnyRole(roles ...auth.Role) bool {
	return s.User().HasAnyRole(roles...)
}
