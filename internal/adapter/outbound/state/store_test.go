package state

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "state.json"), testLogger())
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Version != "1" {
		t.Errorf("expected version 1, got %q", st.Version)
	}
	if st.AuthToken != "" {
		t.Errorf("expected no token in default state, got %q", st.AuthToken)
	}
	if st.Preferences.Locale != DefaultLocale {
		t.Errorf("expected default locale %q, got %q", DefaultLocale, st.Preferences.Locale)
	}
	if store.Exists() {
		t.Error("Exists should be false before first save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	st := store.DefaultState()
	st.AuthToken = "abc123"
	st.Preferences = Preferences{DarkMode: true, Locale: "ko"}

	if err := store.Save(st); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.AuthToken != "abc123" {
		t.Errorf("expected token abc123, got %q", loaded.AuthToken)
	}
	if !loaded.Preferences.DarkMode {
		t.Error("expected dark mode preference to persist")
	}
	if loaded.Preferences.Locale != "ko" {
		t.Errorf("expected locale ko, got %q", loaded.Preferences.Locale)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set on save")
	}
}

func TestSaveSetsRestrictivePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not supported on windows")
	}

	store := newTestStore(t)
	if err := store.Save(store.DefaultState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %04o", perm)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	store := newTestStore(t)

	first := store.DefaultState()
	first.AuthToken = "first"
	if err := store.Save(first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	second := store.DefaultState()
	second.AuthToken = "second"
	if err := store.Save(second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	bak, err := os.ReadFile(store.Path() + ".bak")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	if !strings.Contains(string(bak), "first") {
		t.Error("backup should contain the previous state")
	}
}

func TestTokenSetAndClear(t *testing.T) {
	store := newTestStore(t)

	if got := store.Token(); got != "" {
		t.Errorf("expected empty token before login, got %q", got)
	}

	if err := store.SetToken("tok-1"); err != nil {
		t.Fatalf("set token failed: %v", err)
	}
	if got := store.Token(); got != "tok-1" {
		t.Errorf("expected tok-1, got %q", got)
	}

	if err := store.ClearToken(); err != nil {
		t.Fatalf("clear token failed: %v", err)
	}
	if got := store.Token(); got != "" {
		t.Errorf("expected empty token after clear, got %q", got)
	}
}

func TestClearTokenKeepsPreferences(t *testing.T) {
	store := newTestStore(t)

	if err := store.SavePreferences(Preferences{DarkMode: true, Locale: "ko"}); err != nil {
		t.Fatalf("save preferences failed: %v", err)
	}
	if err := store.SetToken("tok"); err != nil {
		t.Fatalf("set token failed: %v", err)
	}
	if err := store.ClearToken(); err != nil {
		t.Fatalf("clear token failed: %v", err)
	}

	prefs := store.LoadPreferences()
	if !prefs.DarkMode || prefs.Locale != "ko" {
		t.Errorf("preferences must survive a token clear, got %+v", prefs)
	}
}

func TestTokenRereadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	a := NewFileStore(path, testLogger())
	b := NewFileStore(path, testLogger())

	if err := a.SetToken("shared"); err != nil {
		t.Fatalf("set token failed: %v", err)
	}

	// A second store over the same path observes the write immediately.
	if got := b.Token(); got != "shared" {
		t.Errorf("expected token written by another store, got %q", got)
	}

	if err := b.ClearToken(); err != nil {
		t.Fatalf("clear token failed: %v", err)
	}
	if got := a.Token(); got != "" {
		t.Errorf("expected clear by another store to be visible, got %q", got)
	}
}
