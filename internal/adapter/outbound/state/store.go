package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rambozzang/smart-turbo-cli/internal/domain/session"
)

// DefaultLocale is used when no locale preference has been saved.
const DefaultLocale = "en"

// FileStore manages reading and writing the state.json file.
// It provides atomic writes (write-tmp-then-rename), automatic backups,
// and file locking (flock for cross-process, mutex for in-process).
//
// The bearer token is re-read from disk on every Token call rather than
// cached, so a token cleared or replaced by a concurrent invocation is
// honored on the very next request.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore creates a new FileStore for the given file path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// DefaultPath returns the standard state file location,
// ~/.smart-turbo/state.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "state.json"
	}
	return filepath.Join(home, ".smart-turbo", "state.json")
}

// Load reads and parses the state.json file.
// If the file does not exist, it returns DefaultState().
// If the file contains invalid JSON, it returns an error.
// Warns if the existing file has permissions more open than 0600,
// since it holds a live credential.
func (s *FileStore) Load() (*ClientState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.DefaultState(), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	// Skip the permission check on Windows where Unix file permission
	// bits are not supported.
	if runtime.GOOS != "windows" {
		if info, statErr := os.Stat(s.path); statErr == nil {
			mode := info.Mode().Perm()
			if mode&0077 != 0 { // group or other has access
				s.logger.Warn("state.json has too-open permissions, should be 0600",
					"path", s.path, "current_mode", fmt.Sprintf("%04o", mode))
			}
		}
	}

	var state ClientState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	return &state, nil
}

// Save writes the ClientState to disk atomically.
//
// The write sequence is:
//  1. Acquire in-process mutex
//  2. Acquire flock on path+".lock"
//  3. Copy current file to path+".bak" (ignored if no current file)
//  4. Marshal state as indented JSON
//  5. Write to path+".tmp" with 0600 permissions
//  6. Fsync the temp file
//  7. Rename path+".tmp" -> path
//  8. Release flock
//  9. Release mutex
func (s *FileStore) Save(state *ClientState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state.UpdatedAt = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	// Acquire cross-process file lock.
	lockPath := s.path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lockFile.Close() }()

	if err := flockLock(lockFile.Fd()); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer flockUnlock(lockFile.Fd()) //nolint:errcheck

	// Create backup of current file (ignore error if file doesn't exist).
	if currentData, readErr := os.ReadFile(s.path); readErr == nil {
		bakPath := s.path + ".bak"
		if writeErr := os.WriteFile(bakPath, currentData, 0600); writeErr != nil {
			s.logger.Warn("failed to create backup", "error", writeErr)
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	data = append(data, '\n')

	if err := s.writeAtomic(data); err != nil {
		return err
	}

	// Explicitly ensure 0600 permissions after rename as a safety net.
	if err := os.Chmod(s.path, 0600); err != nil {
		s.logger.Warn("failed to set permissions on state file", "error", err)
	}

	s.logger.Debug("state saved", "path", s.path)
	return nil
}

// writeAtomic writes data to a temp file, fsyncs it, and renames it
// over the target path. On any error the temp file is cleaned up.
func (s *FileStore) writeAtomic(data []byte) error {
	tmpPath := s.path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	// cleanup closes and removes the temp file on error.
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp to state: %w", err)
	}
	return nil
}

// DefaultState returns a new ClientState with no session and default
// preferences.
func (s *FileStore) DefaultState() *ClientState {
	now := time.Now().UTC()
	return &ClientState{
		Version:   "1",
		AuthToken: "",
		Preferences: Preferences{
			DarkMode: false,
			Locale:   DefaultLocale,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Exists returns true if the state file exists on disk.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the configured file path.
func (s *FileStore) Path() string {
	return s.path
}

// Token returns the persisted bearer token, or the empty string when no
// session is stored or the file is unreadable. It re-reads the file on
// every call; the gateway depends on that to pick up token changes made
// by other processes mid-session.
func (s *FileStore) Token() string {
	st, err := s.Load()
	if err != nil {
		s.logger.Warn("failed to load state for token read", "error", err)
		return ""
	}
	return st.AuthToken
}

// SetToken persists a new bearer token, replacing any previous one.
func (s *FileStore) SetToken(token string) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	st.AuthToken = token
	return s.Save(st)
}

// ClearToken removes the persisted bearer token. Preferences are kept.
func (s *FileStore) ClearToken() error {
	return s.SetToken("")
}

// LoadPreferences returns the persisted display preferences, falling
// back to defaults when the file is missing or unreadable.
func (s *FileStore) LoadPreferences() Preferences {
	st, err := s.Load()
	if err != nil {
		s.logger.Warn("failed to load state for preferences", "error", err)
		return Preferences{Locale: DefaultLocale}
	}
	if st.Preferences.Locale == "" {
		st.Preferences.Locale = DefaultLocale
	}
	return st.Preferences
}

// SavePreferences persists new display preferences. The token is kept.
func (s *FileStore) SavePreferences(p Preferences) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	st.Preferences = p
	return s.Save(st)
}

// Compile-time port verification.
var _ session.TokenStore = (*FileStore)(nil)
