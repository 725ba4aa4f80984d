package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// CallbackResult carries the outcome of the OAuth redirect.
type CallbackResult struct {
	Code  string
	State string
	Err   error
}

// CallbackServer is a one-shot HTTP server that receives the OAuth
// redirect on the loopback interface.
type CallbackServer struct {
	server   *http.Server
	listener net.Listener
	results  chan CallbackResult
}

// NewCallbackServer starts listening on the host and port of the
// redirect URI. The server itself is started by Wait.
func NewCallbackServer(redirectURI string) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}

	listener, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", u.Host, err)
	}

	cs := &CallbackServer{
		listener: listener,
		results:  make(chan CallbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(u.Path, cs.handleCallback)
	cs.server = &http.Server{Handler: mux}

	return cs, nil
}

func (cs *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		cs.deliver(CallbackResult{Err: fmt.Errorf("authorization denied: %s", errParam)})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><h2>Authorization failed</h2><p>You can close this window.</p></body></html>")
		return
	}

	code := q.Get("code")
	if code == "" {
		cs.deliver(CallbackResult{Err: fmt.Errorf("callback missing authorization code")})
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	cs.deliver(CallbackResult{Code: code, State: q.Get("state")})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><body><h2>Authorized</h2><p>You can close this window and return to the terminal.</p></body></html>")
}

func (cs *CallbackServer) deliver(r CallbackResult) {
	select {
	case cs.results <- r:
	default:
	}
}

// Wait serves until a callback arrives or the context is done.
func (cs *CallbackServer) Wait(ctx context.Context) (CallbackResult, error) {
	go func() {
		_ = cs.server.Serve(cs.listener)
	}()
	defer cs.Close()

	select {
	case <-ctx.Done():
		return CallbackResult{}, ctx.Err()
	case res := <-cs.results:
		if res.Err != nil {
			return CallbackResult{}, res.Err
		}
		return res, nil
	}
}

// Close shuts down the server.
func (cs *CallbackServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = cs.server.Shutdown(ctx)
}
