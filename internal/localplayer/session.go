// Package localplayer talks to the local headless player daemon, the
// process that registers this machine as a Spotify Connect device and
// owns the audio output.
package localplayer

import (
	"sync"
	"sync/atomic"
)

// Session tracks what is known about the local player across a run.
//
// The device ID arrives once, from the daemon's ready event, and never
// changes for the life of the process. The activation flag is one-way:
// once an activation has been attempted the flag stays set, whether or
// not the attempt succeeded, so the user is never prompted twice.
type Session struct {
	mu       sync.RWMutex
	deviceID string

	activationAttempted atomic.Bool
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// SetDeviceID records the daemon's device ID. Only the first call
// takes effect; later calls report false and are ignored.
func (s *Session) SetDeviceID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deviceID != "" {
		return false
	}
	s.deviceID = id
	return true
}

// DeviceID returns the recorded device ID, or "" if the daemon has
// not reported ready yet.
func (s *Session) DeviceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deviceID
}

// Ready reports whether the daemon has announced its device ID.
func (s *Session) Ready() bool {
	return s.DeviceID() != ""
}

// ActivationAttempted reports whether an audio activation has ever
// been attempted this run.
func (s *Session) ActivationAttempted() bool {
	return s.activationAttempted.Load()
}

// MarkActivationAttempted latches the activation flag. There is no
// way to clear it.
func (s *Session) MarkActivationAttempted() {
	s.activationAttempted.Store(true)
}
