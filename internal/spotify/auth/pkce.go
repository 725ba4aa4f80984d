package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// PKCE holds a code verifier and its derived challenge.
type PKCE struct {
	Verifier  string
	Challenge string
}

// GeneratePKCE creates a new verifier/challenge pair. The verifier is
// 64 random bytes, base64url-encoded without padding, which lands
// within the 43-128 character range the RFC requires.
func GeneratePKCE() (*PKCE, error) {
	raw := make([]byte, 64)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate verifier: %w", err)
	}

	verifier := base64.RawURLEncoding.EncodeToString(raw)
	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])

	return &PKCE{Verifier: verifier, Challenge: challenge}, nil
}

// GenerateState creates a random CSRF state string.
func GenerateState() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
