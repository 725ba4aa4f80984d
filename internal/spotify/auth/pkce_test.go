package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestGeneratePKCE(t *testing.T) {
	p, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE() error = %v", err)
	}

	if len(p.Verifier) < 43 || len(p.Verifier) > 128 {
		t.Errorf("verifier length = %d, want 43..128", len(p.Verifier))
	}

	sum := sha256.Sum256([]byte(p.Verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	if p.Challenge != want {
		t.Errorf("challenge = %q, want S256 of verifier %q", p.Challenge, want)
	}
}

func TestGeneratePKCEUnique(t *testing.T) {
	a, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE() error = %v", err)
	}
	b, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE() error = %v", err)
	}
	if a.Verifier == b.Verifier {
		t.Error("two generated verifiers should not match")
	}
}

func TestGenerateState(t *testing.T) {
	s, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if s == "" {
		t.Error("state should not be empty")
	}

	s2, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if s == s2 {
		t.Error("two generated states should not match")
	}
}
