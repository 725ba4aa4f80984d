package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/introspin/introspin/internal/core"
)

// Colors
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Accent    = lipgloss.Color("#F59E0B") // Amber

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")

	Border    = lipgloss.Color("#4B5563")
	Text      = lipgloss.Color("#F9FAFB")
	TextMuted = lipgloss.Color("#9CA3AF")
	TextDim   = lipgloss.Color("#6B7280")

	SpotifyGreen = lipgloss.Color("#1DB954")
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(SpotifyGreen)

	Blocked = lipgloss.NewStyle().
		Foreground(Warning)

	Failed = lipgloss.NewStyle().
		Foreground(Error)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)
)

// CountdownDigits styles the big remaining-seconds readout. The last
// few seconds turn amber.
func CountdownDigits(remaining int) lipgloss.Style {
	if remaining <= 5 {
		return lipgloss.NewStyle().Bold(true).Foreground(Warning)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(Primary)
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Blocked.Render("⏸")
}

// DeviceIcon returns an icon for a device type.
func DeviceIcon(t core.DeviceType) string {
	switch t {
	case core.DeviceTypeComputer, core.DeviceTypeLocal:
		return "💻"
	case core.DeviceTypePhone:
		return "📱"
	case core.DeviceTypeTV:
		return "📺"
	case core.DeviceTypeSpeaker:
		return "🔊"
	default:
		return "🎧"
	}
}
