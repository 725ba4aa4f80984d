package client

import (
	"context"
	"fmt"
)

// PlayOptions controls what and where to play.
type PlayOptions struct {
	// DeviceID, when set, directs playback to that device, transferring
	// the session if it is not already active there.
	DeviceID string

	// URIs are track URIs to play. Empty resumes the current context.
	URIs []string

	// PositionMs starts playback at the given offset into the track.
	PositionMs int
}

// Play starts or transfers playback. Spotify treats the device_id
// query parameter on PUT /me/player/play as a combined transfer and
// play, which is one round trip instead of two.
func (c *Client) Play(ctx context.Context, opts PlayOptions) error {
	path := "/me/player/play"
	if opts.DeviceID != "" {
		path = BuildURL(path, map[string]string{"device_id": opts.DeviceID})
	}

	var body interface{}
	if len(opts.URIs) > 0 {
		payload := map[string]interface{}{"uris": opts.URIs}
		if opts.PositionMs > 0 {
			payload["position_ms"] = opts.PositionMs
		}
		body = payload
	}

	if err := c.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	return nil
}

// Pause pauses playback on the current device.
func (c *Client) Pause(ctx context.Context) error {
	if err := c.Put(ctx, "/me/player/pause", nil, nil); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}
	return nil
}
