package localplayer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWSTransportRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// Announce ready, then answer the first command.
		if err := conn.WriteJSON(Event{Event: EventReady, DeviceID: "dev-ws"}); err != nil {
			return
		}

		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		ok := cmd.Command == CommandActivate
		_ = conn.WriteJSON(Event{Event: EventActivationResult, OK: ok})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	tr := NewWSTransport(url)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := tr.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer tr.Close()

	select {
	case ev := <-tr.Events():
		if ev.Event != EventReady || ev.DeviceID != "dev-ws" {
			t.Errorf("first event = %+v, want ready dev-ws", ev)
		}
	case <-ctx.Done():
		t.Fatal("no ready event received")
	}

	if err := tr.Send(ctx, Command{Command: CommandActivate}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case ev := <-tr.Events():
		if ev.Event != EventActivationResult || !ev.OK {
			t.Errorf("second event = %+v, want successful activation result", ev)
		}
	case <-ctx.Done():
		t.Fatal("no activation result received")
	}
}

func TestWSTransportConnectRefused(t *testing.T) {
	tr := NewWSTransport("ws://127.0.0.1:1/events")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := tr.Connect(ctx); err == nil {
		t.Error("Connect() should fail against a closed port")
	}
}

func TestWSTransportSendBeforeConnect(t *testing.T) {
	tr := NewWSTransport("ws://127.0.0.1:1/events")
	if err := tr.Send(context.Background(), Command{Command: CommandActivate}); err == nil {
		t.Error("Send() before Connect() should fail")
	}
}
