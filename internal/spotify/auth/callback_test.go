package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

func startCallbackServer(t *testing.T) (*CallbackServer, string) {
	t.Helper()
	cs, err := NewCallbackServer("http://127.0.0.1:0/callback")
	if err != nil {
		t.Fatalf("NewCallbackServer() error = %v", err)
	}
	addr := cs.listener.Addr().String()
	return cs, fmt.Sprintf("http://%s/callback", addr)
}

func TestCallbackServerReceivesCode(t *testing.T) {
	cs, base := startCallbackServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type waited struct {
		res CallbackResult
		err error
	}
	done := make(chan waited, 1)
	go func() {
		res, err := cs.Wait(ctx)
		done <- waited{res, err}
	}()

	// Give Wait a moment to start serving.
	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get(base + "?code=auth-code-123&state=csrf-state")
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("callback status = %d, want 200", resp.StatusCode)
	}
	if len(body) == 0 {
		t.Error("callback response body should not be empty")
	}

	w := <-done
	if w.err != nil {
		t.Fatalf("Wait() error = %v", w.err)
	}
	if w.res.Code != "auth-code-123" {
		t.Errorf("Code = %q, want auth-code-123", w.res.Code)
	}
	if w.res.State != "csrf-state" {
		t.Errorf("State = %q, want csrf-state", w.res.State)
	}
}

func TestCallbackServerAuthorizationDenied(t *testing.T) {
	cs, base := startCallbackServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := cs.Wait(ctx)
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)

	resp, err := http.Get(base + "?error=access_denied")
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	resp.Body.Close()

	if err := <-errCh; err == nil {
		t.Error("Wait() should return an error when authorization is denied")
	}
}

func TestCallbackServerContextCancelled(t *testing.T) {
	cs, _ := startCallbackServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cs.Wait(ctx); err == nil {
		t.Error("Wait() should return the context error when cancelled")
	}
}
