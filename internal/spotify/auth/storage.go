package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TokenStorage persists tokens on disk.
type TokenStorage struct {
	path string
}

// NewTokenStorage creates a storage at the default path,
// ~/.config/introspin/spotify_token.json.
func NewTokenStorage() (*TokenStorage, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "introspin")
	return &TokenStorage{path: filepath.Join(dir, "spotify_token.json")}, nil
}

// NewTokenStorageAt creates a storage at an explicit path. Used by tests.
func NewTokenStorageAt(path string) *TokenStorage {
	return &TokenStorage{path: path}
}

// Path returns the storage file path.
func (s *TokenStorage) Path() string {
	return s.path
}

// Save writes the token to disk with owner-only permissions.
func (s *TokenStorage) Save(token *Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads the token from disk. Returns os.ErrNotExist if no token
// has been saved.
func (s *TokenStorage) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// Clear removes the stored token. Missing files are not an error.
func (s *TokenStorage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
