// Package orchestrator decides, for each play press, where audio
// should come out and what it takes to get there.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/introspin/introspin/internal/core"
	apperrors "github.com/introspin/introspin/internal/errors"
	"github.com/introspin/introspin/internal/spotify/client"
)

// Status messages shown to the user.
const (
	StatusPlaying           = "Playing..."
	StatusPaused            = "Paused"
	StatusActivationBlocked = "Audio is blocked. Press play again to allow sound on this device."
	StatusNoDevice          = "No playback device available. Open Spotify on a device or wait for the local player."
	StatusDeviceQueryFailed = "Could not reach Spotify to list devices. Press play to try again."
	StatusPlayFailed        = "Could not start playback. Press play to try again."
	StatusPauseFailed       = "Could not pause playback."
)

// SpotifyAPI is the slice of the Spotify client the orchestrator uses.
type SpotifyAPI interface {
	GetDevices(ctx context.Context) ([]client.Device, error)
	GetPlaybackState(ctx context.Context) (*client.PlaybackState, error)
	Play(ctx context.Context, opts client.PlayOptions) error
	Pause(ctx context.Context) error
}

// LocalPlayer is the slice of the local player adapter the
// orchestrator uses. DeviceID returns "" until the daemon is ready.
type LocalPlayer interface {
	DeviceID() string
	ActivationAttempted() bool
	MarkActivationAttempted()
	Activate(ctx context.Context) error
}

// StatusSink receives UI updates. Implementations render them however
// they like; the orchestrator only decides what they say.
type StatusSink interface {
	SetStatus(msg string)
	SetPauseEnabled(enabled bool)
}

// CountdownTimer is the guessing-phase countdown. Start must cancel
// any countdown already running.
type CountdownTimer interface {
	Start(seconds int)
	Stop()
}

// Orchestrator drives one playback-acquisition decision per play
// press. It holds no cross-press state of its own beyond what the
// local player session carries.
type Orchestrator struct {
	spotify SpotifyAPI
	player  LocalPlayer
	ui      StatusSink
	timer   CountdownTimer

	countdownSeconds int
	log              zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCountdownSeconds sets the countdown duration started on a
// successful play.
func WithCountdownSeconds(n int) Option {
	return func(o *Orchestrator) { o.countdownSeconds = n }
}

// New creates an orchestrator.
func New(spotify SpotifyAPI, player LocalPlayer, ui StatusSink, timer CountdownTimer, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		spotify:          spotify,
		player:           player,
		ui:               ui,
		timer:            timer,
		countdownSeconds: 30,
		log:              logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SnapshotDevices converts an API device listing into directory
// snapshots for one decision.
func SnapshotDevices(devices []client.Device) []core.Device {
	snap := make([]core.Device, len(devices))
	for i, d := range devices {
		snap[i] = core.Device{
			ID:       d.ID,
			Name:     d.Name,
			Type:     core.DeviceTypeFromAPI(d.Type),
			IsActive: d.IsActive,
		}
	}
	return snap
}

// ResolveTarget picks the playback target from a fresh device
// snapshot. An active device other than the local player wins;
// otherwise the local player, if it has reported ready; otherwise no
// target.
func ResolveTarget(devices []core.Device, localDeviceID string) core.PlaybackTarget {
	for _, d := range devices {
		if d.IsActive && d.ID != localDeviceID {
			return core.PlaybackTarget{Kind: core.TargetRemote, DeviceID: d.ID}
		}
	}
	if localDeviceID != "" {
		return core.PlaybackTarget{Kind: core.TargetLocal, DeviceID: localDeviceID}
	}
	return core.PlaybackTarget{Kind: core.TargetNone}
}

// HandlePlayRequest runs the full decision for one play press: fetch
// the device directory, pick a target, activate local audio if this
// is the first local play, then transfer and start playback.
//
// Every press re-runs the whole decision. Nothing here retries; a
// failed press ends with a status message and waits for the next
// press.
func (o *Orchestrator) HandlePlayRequest(ctx context.Context, uris []string) error {
	devices, err := o.spotify.GetDevices(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("device query failed")
		o.ui.SetStatus(StatusDeviceQueryFailed)
		return fmt.Errorf("%w: %v", apperrors.ErrNetworkError, err)
	}

	target := ResolveTarget(SnapshotDevices(devices), o.player.DeviceID())
	o.log.Debug().
		Str("kind", string(target.Kind)).
		Str("device_id", target.DeviceID).
		Int("devices", len(devices)).
		Msg("resolved playback target")

	if target.Kind == core.TargetNone {
		o.ui.SetStatus(StatusNoDevice)
		o.ui.SetPauseEnabled(false)
		return apperrors.ErrNoPlaybackDevice
	}

	if target.IsLocal() && !o.player.ActivationAttempted() {
		activationErr := o.player.Activate(ctx)

		// One attempt per session, success or not. Repeating the
		// unlock gesture without a fresh user action never helps.
		o.player.MarkActivationAttempted()

		if activationErr != nil {
			o.log.Warn().Err(activationErr).Msg("audio activation rejected")
			o.ui.SetStatus(StatusActivationBlocked)
			o.ui.SetPauseEnabled(false)
			return apperrors.ErrActivationBlocked
		}

		// Probe current playback once before the first local
		// transfer, so the transfer lands on a known state.
		if state, probeErr := o.spotify.GetPlaybackState(ctx); probeErr != nil {
			o.log.Debug().Err(probeErr).Msg("playback state probe failed, transferring anyway")
		} else if state != nil {
			o.log.Debug().
				Str("active_device", state.Device.ID).
				Bool("is_playing", state.IsPlaying).
				Msg("playback state before local transfer")
		}
	}

	if err := o.spotify.Play(ctx, client.PlayOptions{DeviceID: target.DeviceID, URIs: uris}); err != nil {
		o.log.Error().Err(err).Str("device_id", target.DeviceID).Msg("transfer and play failed")
		o.ui.SetStatus(StatusPlayFailed)
		o.ui.SetPauseEnabled(false)
		return err
	}

	o.log.Info().Str("device_id", target.DeviceID).Str("kind", string(target.Kind)).Msg("playback started")
	o.ui.SetStatus(StatusPlaying)
	o.ui.SetPauseEnabled(true)
	o.timer.Start(o.countdownSeconds)
	return nil
}

// HandlePauseRequest pauses playback and stops the countdown.
func (o *Orchestrator) HandlePauseRequest(ctx context.Context) error {
	if err := o.spotify.Pause(ctx); err != nil {
		o.log.Error().Err(err).Msg("pause failed")
		o.ui.SetStatus(StatusPauseFailed)
		return err
	}

	o.timer.Stop()
	o.ui.SetStatus(StatusPaused)
	o.ui.SetPauseEnabled(false)
	return nil
}
