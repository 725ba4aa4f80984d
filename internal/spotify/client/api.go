package client

import (
	"context"
	"fmt"
	"strings"
)

// GetDevices fetches the user's available Spotify Connect devices.
// The directory is volatile, so callers should fetch it fresh rather
// than cache the result.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	var resp DevicesResponse
	if err := c.Get(ctx, "/me/player/devices", &resp); err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}
	return resp.Devices, nil
}

// GetTracks fetches full track objects for up to 50 track IDs.
func (c *Client) GetTracks(ctx context.Context, ids []string) ([]Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > 50 {
		return nil, fmt.Errorf("at most 50 track IDs per request, got %d", len(ids))
	}

	var resp struct {
		Tracks []Track `json:"tracks"`
	}
	path := BuildURL("/tracks", map[string]string{"ids": strings.Join(ids, ",")})
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to get tracks: %w", err)
	}
	return resp.Tracks, nil
}

// GetCurrentUser fetches the authenticated user's profile.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return &user, nil
}

// GetPlaybackState fetches the current playback state. Returns nil
// (no error) when Spotify reports no active playback session.
func (c *Client) GetPlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	if err := c.Get(ctx, "/me/player", &state); err != nil {
		return nil, fmt.Errorf("failed to get playback state: %w", err)
	}

	// A 204 leaves the struct zero-valued.
	if state.Device.ID == "" && state.Item == nil {
		return nil, nil
	}
	return &state, nil
}
