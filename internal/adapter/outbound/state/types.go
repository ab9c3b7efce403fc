// Package state provides file-based persistence for Smart Turbo CLI
// client state.
//
// The state.json file stores the bearer token from the last successful
// login and the user's display preferences. This package provides atomic
// writes, file locking, and backup functionality so that concurrent CLI
// invocations never observe a torn state file.
package state

import "time"

// ClientState is the top-level structure persisted in state.json.
// It holds the client-side state that survives between invocations.
type ClientState struct {
	// Version is the schema version for forward compatibility. Currently "1".
	Version string `json:"version"`

	// AuthToken is the opaque bearer credential from the last successful
	// login. Empty string means no session.
	AuthToken string `json:"auth_token"`

	// Preferences are the user's display preferences.
	Preferences Preferences `json:"preferences"`

	// CreatedAt is when this state file was first created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when this state file was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Preferences holds display preferences restored at startup.
type Preferences struct {
	// DarkMode selects the dark terminal color theme.
	DarkMode bool `json:"dark_mode"`

	// Locale is the BCP 47 language tag for messages (e.g. "en", "ko").
	Locale string `json:"locale"`
}
