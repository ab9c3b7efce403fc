// Package guard decides whether the current session may enter a view.
// The policy mirrors the dashboard's navigation rules: protected views
// require a session, the login view rejects authenticated users, and
// elevated views require user-management authority.
package guard

import (
	"context"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// RedirectLogin sends the user to the login entry point.
	RedirectLogin
	// RedirectHome sends the user to the default view.
	RedirectHome
)

// String returns the decision name for logs and tests.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Route describes the access requirements of a view.
type Route struct {
	// Name identifies the view.
	Name string
	// RequiresAuth marks views needing an authenticated session.
	RequiresAuth bool
	// RequiresGuest marks views only for unauthenticated users (login).
	RequiresGuest bool
	// RequiresAdmin marks views needing user-management authority.
	RequiresAdmin bool
}

// Session is the narrow view of the session store the guard reads.
type Session interface {
	// HasToken reports whether a bearer token is held, verified or not.
	// A restored token that has not been verified yet still counts, so
	// that elevated routes get the chance to verify it below.
	HasToken() bool
	// UserLoaded reports whether a profile has been loaded this session.
	UserLoaded() bool
	// CanManageUsers reports whether the user may administer accounts.
	CanManageUsers() bool
	// VerifyToken loads the profile for a persisted token; false means
	// the session is not valid.
	VerifyToken(ctx context.Context) bool
}

// Resolve applies the navigation policy to one route. For elevated
// routes the profile is loaded first (verifying the token when no
// profile is present yet) and access denied unless the session may
// manage users. Denials fail toward the safer redirect.
func Resolve(ctx context.Context, route Route, sess Session) Decision {
	switch {
	case route.RequiresAuth && !sess.HasToken():
		return RedirectLogin
	case route.RequiresGuest && sess.HasToken():
		return RedirectHome
	case route.RequiresAdmin:
		if !sess.UserLoaded() {
			if !sess.VerifyToken(ctx) {
				return RedirectLogin
			}
		}
		if !sess.CanManageUsers() {
			return RedirectHome
		}
		return Allow
	default:
		return Allow
	}
}
