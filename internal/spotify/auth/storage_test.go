package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTokenStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	storage := NewTokenStorageAt(path)

	token := &Token{
		AccessToken:  "access-123",
		TokenType:    "Bearer",
		RefreshToken: "refresh-123",
		Scope:        "streaming",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}

	if err := storage.Save(token); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.AccessToken != token.AccessToken {
		t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, token.AccessToken)
	}
	if loaded.RefreshToken != token.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, token.RefreshToken)
	}
	if !loaded.ExpiresAt.Equal(token.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", loaded.ExpiresAt, token.ExpiresAt)
	}
}

func TestTokenStoragePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	storage := NewTokenStorageAt(path)

	if err := storage.Save(&Token{AccessToken: "a"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestTokenStorageLoadMissing(t *testing.T) {
	storage := NewTokenStorageAt(filepath.Join(t.TempDir(), "missing.json"))

	_, err := storage.Load()
	if !os.IsNotExist(err) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestTokenStorageClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	storage := NewTokenStorageAt(path)

	if err := storage.Save(&Token{AccessToken: "a"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file should be removed after Clear()")
	}

	// Clearing again is not an error.
	if err := storage.Clear(); err != nil {
		t.Errorf("Clear() on missing file error = %v", err)
	}
}
