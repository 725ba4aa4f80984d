package localplayer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is a message pushed by the daemon.
type Event struct {
	Event    string `json:"event"`
	DeviceID string `json:"device_id,omitempty"`
	OK       bool   `json:"ok,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Daemon event names.
const (
	EventReady            = "ready"
	EventActivationResult = "activation_result"
)

// Command is a message sent to the daemon.
type Command struct {
	Command string `json:"command"`
}

// CommandActivate asks the daemon to unmute its audio output. The
// daemon forwards this to the player runtime, which may refuse if no
// user gesture backs the request.
const CommandActivate = "activate"

// Transport carries events and commands between us and the daemon.
type Transport interface {
	Connect(ctx context.Context) error
	Events() <-chan Event
	Send(ctx context.Context, cmd Command) error
	Close() error
}

// WSTransport is the WebSocket implementation of Transport.
type WSTransport struct {
	url  string
	conn *websocket.Conn

	writeMu sync.Mutex
	events  chan Event

	closeOnce sync.Once
	closed    chan struct{}
}

// NewWSTransport creates a transport for the daemon at the given
// ws:// URL. Connect must be called before use.
func NewWSTransport(url string) *WSTransport {
	return &WSTransport{
		url:    url,
		events: make(chan Event, 16),
		closed: make(chan struct{}),
	}
}

// Connect dials the daemon and starts the read loop.
func (t *WSTransport) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to local player at %s: %w", t.url, err)
	}
	t.conn = conn

	go t.readLoop()
	return nil
}

func (t *WSTransport) readLoop() {
	defer close(t.events)
	for {
		var ev Event
		if err := t.conn.ReadJSON(&ev); err != nil {
			select {
			case <-t.closed:
			default:
				t.events <- Event{Event: "disconnected", Reason: err.Error()}
			}
			return
		}
		t.events <- ev
	}
}

// Events returns the daemon event stream. The channel is closed when
// the connection drops or Close is called.
func (t *WSTransport) Events() <-chan Event {
	return t.events
}

// Send writes a command to the daemon.
func (t *WSTransport) Send(ctx context.Context, cmd Command) error {
	if t.conn == nil {
		return fmt.Errorf("not connected to local player")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := t.conn.WriteJSON(cmd); err != nil {
		return fmt.Errorf("failed to send %s command: %w", cmd.Command, err)
	}
	return nil
}

// Close shuts down the connection.
func (t *WSTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)
		if t.conn != nil {
			err = t.conn.Close()
		}
	})
	return err
}
