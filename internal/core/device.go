package core

import "strings"

// DeviceType indicates the kind of playback device.
type DeviceType string

const (
	DeviceTypeSpeaker  DeviceType = "speaker"
	DeviceTypeComputer DeviceType = "computer"
	DeviceTypePhone    DeviceType = "phone"
	DeviceTypeTV       DeviceType = "tv"
	DeviceTypeLocal    DeviceType = "local"
)

// DeviceTypeFromAPI maps a Spotify Connect device type string onto a
// DeviceType. Anything unrecognized counts as a speaker.
func DeviceTypeFromAPI(apiType string) DeviceType {
	switch strings.ToLower(apiType) {
	case "computer":
		return DeviceTypeComputer
	case "smartphone", "tablet":
		return DeviceTypePhone
	case "tv", "cast_video":
		return DeviceTypeTV
	default:
		return DeviceTypeSpeaker
	}
}

// Device is a point-in-time snapshot of a playback device from the device
// directory. Snapshots are re-fetched on every play request, never cached.
type Device struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     DeviceType `json:"type"`
	IsActive bool       `json:"is_active"`
}
