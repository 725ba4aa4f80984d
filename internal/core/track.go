package core

import "time"

// Track is the answer behind a quiz round: the currently playing song,
// revealed only when the host asks for it.
type Track struct {
	ID       string        `json:"id"`
	URI      string        `json:"uri"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Artists  []string      `json:"artists"`
	Album    string        `json:"album"`
	Duration time.Duration `json:"duration"`
}

// Answer formats the track for the reveal panel.
func (t *Track) Answer() string {
	if t == nil {
		return ""
	}
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " by " + t.Artist
}
