package core

// TargetKind distinguishes where playback should be acquired.
type TargetKind string

const (
	// TargetRemote is a directory device that is already active and is not
	// the local player.
	TargetRemote TargetKind = "remote"

	// TargetLocal is the in-process local player.
	TargetLocal TargetKind = "local"

	// TargetNone means no playback device is available.
	TargetNone TargetKind = "none"
)

// PlaybackTarget is the outcome of one play-request decision. It is computed
// fresh per play action from the current device snapshot and the local
// player session, and never stored.
type PlaybackTarget struct {
	Kind     TargetKind
	DeviceID string
}

// IsLocal reports whether the target is the local player.
func (t PlaybackTarget) IsLocal() bool {
	return t.Kind == TargetLocal
}
