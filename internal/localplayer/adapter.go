package localplayer

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	apperrors "github.com/introspin/introspin/internal/errors"
)

// Adapter wraps a Transport with the daemon's event protocol. It
// records the ready announcement into a Session and turns the
// activate command into a synchronous call.
type Adapter struct {
	transport Transport
	session   *Session
	log       zerolog.Logger

	mu         sync.Mutex
	activation chan error

	started bool
	done    chan struct{}
}

// NewAdapter creates an adapter over the given transport.
func NewAdapter(transport Transport, logger zerolog.Logger) *Adapter {
	return &Adapter{
		transport: transport,
		session:   NewSession(),
		log:       logger,
		done:      make(chan struct{}),
	}
}

// Session returns the adapter's session.
func (a *Adapter) Session() *Session {
	return a.session
}

// DeviceID returns the local device ID, or "" before ready.
func (a *Adapter) DeviceID() string {
	return a.session.DeviceID()
}

// ActivationAttempted reports whether activation was ever attempted.
func (a *Adapter) ActivationAttempted() bool {
	return a.session.ActivationAttempted()
}

// MarkActivationAttempted latches the session's activation flag.
func (a *Adapter) MarkActivationAttempted() {
	a.session.MarkActivationAttempted()
}

// Connect dials the daemon and starts consuming its events.
func (a *Adapter) Connect(ctx context.Context) error {
	if err := a.transport.Connect(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.started = true
	a.mu.Unlock()
	go a.eventLoop()
	return nil
}

func (a *Adapter) eventLoop() {
	defer close(a.done)
	for ev := range a.transport.Events() {
		switch ev.Event {
		case EventReady:
			if a.session.SetDeviceID(ev.DeviceID) {
				a.log.Info().Str("device_id", ev.DeviceID).Msg("local player ready")
			} else {
				a.log.Debug().Str("device_id", ev.DeviceID).Msg("ignoring repeat ready event")
			}

		case EventActivationResult:
			var err error
			if !ev.OK {
				err = apperrors.ErrActivationBlocked
				if ev.Reason != "" {
					a.log.Warn().Str("reason", ev.Reason).Msg("activation rejected")
				}
			}
			a.deliverActivation(err)

		default:
			a.log.Debug().Str("event", ev.Event).Msg("unhandled local player event")
		}
	}
	// Connection is gone. Fail any caller still waiting.
	a.deliverActivation(apperrors.ErrPlayerNotReady)
}

func (a *Adapter) deliverActivation(err error) {
	a.mu.Lock()
	ch := a.activation
	a.activation = nil
	a.mu.Unlock()

	if ch != nil {
		ch <- err
	}
}

// Activate asks the daemon to unmute audio output and waits for the
// result. Returns ErrActivationBlocked when the player runtime
// refuses. The caller decides what to record about the attempt.
func (a *Adapter) Activate(ctx context.Context) error {
	a.mu.Lock()
	if a.activation != nil {
		a.mu.Unlock()
		return fmt.Errorf("activation already in progress")
	}
	ch := make(chan error, 1)
	a.activation = ch
	a.mu.Unlock()

	if err := a.transport.Send(ctx, Command{Command: CommandActivate}); err != nil {
		a.mu.Lock()
		a.activation = nil
		a.mu.Unlock()
		return err
	}

	select {
	case <-ctx.Done():
		a.mu.Lock()
		a.activation = nil
		a.mu.Unlock()
		return ctx.Err()
	case err := <-ch:
		return err
	}
}

// Close shuts down the transport and waits for the event loop.
func (a *Adapter) Close() error {
	err := a.transport.Close()
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if started {
		<-a.done
	}
	return err
}
