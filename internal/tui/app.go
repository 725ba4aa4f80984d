// Package tui is the quiz-night screen: one track at a time, a big
// countdown, and a reveal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/introspin/introspin/internal/core"
	"github.com/introspin/introspin/internal/orchestrator"
	"github.com/introspin/introspin/internal/tui/styles"
)

// App wires the orchestrator into the TUI.
type App struct {
	orch   *orchestrator.Orchestrator
	bridge *Bridge
	tracks []core.Track
}

// NewApp creates the TUI application. The bridge must be the same one
// registered as the orchestrator's status sink.
func NewApp(orch *orchestrator.Orchestrator, bridge *Bridge, tracks []core.Track) *App {
	return &App{orch: orch, bridge: bridge, tracks: tracks}
}

// Bridge forwards orchestrator UI updates and countdown ticks into
// the bubbletea message loop. It satisfies orchestrator.StatusSink.
type Bridge struct {
	ch chan tea.Msg
}

// NewBridge creates a bridge.
func NewBridge() *Bridge {
	return &Bridge{ch: make(chan tea.Msg, 32)}
}

// SetStatus forwards a status message.
func (b *Bridge) SetStatus(msg string) {
	b.ch <- statusMsg(msg)
}

// SetPauseEnabled forwards a pause-enablement change.
func (b *Bridge) SetPauseEnabled(enabled bool) {
	b.ch <- pauseEnabledMsg(enabled)
}

// Tick forwards a countdown tick. Wire this as the countdown timer's
// onTick callback.
func (b *Bridge) Tick(remaining int) {
	b.ch <- countdownMsg(remaining)
}

func (b *Bridge) wait() tea.Msg {
	return <-b.ch
}

// Messages
type statusMsg string
type pauseEnabledMsg bool
type countdownMsg int
type playDoneMsg struct{ err error }
type pauseDoneMsg struct{ err error }

// Model is the quiz screen state.
type Model struct {
	app    *App
	width  int
	height int

	trackIdx     int
	status       string
	pauseEnabled bool
	remaining    int
	revealed     bool
	requesting   bool

	spin     spinner.Model
	quitting bool
}

// NewModel creates the initial model.
func NewModel(app *App) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return Model{
		app:    app,
		status: "Press space to play",
		spin:   sp,
	}
}

func (m Model) listenBridge() tea.Cmd {
	return func() tea.Msg {
		return m.app.bridge.wait()
	}
}

func (m Model) pressPlay() tea.Cmd {
	track := m.currentTrack()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var uris []string
		if track != nil {
			uris = []string{track.URI}
		}
		return playDoneMsg{err: m.app.orch.HandlePlayRequest(ctx, uris)}
	}
}

func (m Model) pressPause() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return pauseDoneMsg{err: m.app.orch.HandlePauseRequest(ctx)}
	}
}

func (m Model) currentTrack() *core.Track {
	if m.trackIdx < 0 || m.trackIdx >= len(m.app.tracks) {
		return nil
	}
	return &m.app.tracks[m.trackIdx]
}

// Init starts the bridge listener and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listenBridge(), m.spin.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, m.listenBridge()

	case pauseEnabledMsg:
		m.pauseEnabled = bool(msg)
		return m, m.listenBridge()

	case countdownMsg:
		m.remaining = int(msg)
		return m, m.listenBridge()

	case playDoneMsg:
		m.requesting = false
		// Outcome already arrived through the bridge as status text.
		return m, nil

	case pauseDoneMsg:
		m.requesting = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case " ", "p":
		if m.requesting {
			return m, nil
		}
		m.requesting = true
		m.revealed = false
		return m, m.pressPlay()

	case "s":
		if !m.pauseEnabled || m.requesting {
			return m, nil
		}
		m.requesting = true
		return m, m.pressPause()

	case "r":
		m.revealed = true
		return m, nil

	case "n", "right":
		if m.trackIdx < len(m.app.tracks)-1 {
			m.trackIdx++
			m.revealed = false
			m.remaining = 0
		}
		return m, nil

	case "left":
		if m.trackIdx > 0 {
			m.trackIdx--
			m.revealed = false
			m.remaining = 0
		}
		return m, nil
	}

	return m, nil
}

// View renders the quiz screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("introspin"))
	if len(m.app.tracks) > 0 {
		b.WriteString(styles.Dim.Render(fmt.Sprintf("  track %d/%d", m.trackIdx+1, len(m.app.tracks))))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.CountdownDigits(m.remaining).Render(fmt.Sprintf("%2d", m.remaining)))
	b.WriteString(styles.Dim.Render("s"))
	b.WriteString("\n\n")

	if m.requesting {
		b.WriteString(m.spin.View())
		b.WriteString(" ")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	if m.revealed {
		if track := m.currentTrack(); track != nil {
			b.WriteString(styles.Label.Render("Answer  "))
			b.WriteString(styles.Highlight.Render(track.Answer()))
		} else {
			b.WriteString(styles.Muted.Render("No track loaded"))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderControls())

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	border := styles.BorderStyle
	if m.revealed {
		border = styles.FocusedBorder
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(border.Render(content))
}

func (m Model) renderStatus() string {
	switch m.status {
	case orchestrator.StatusPlaying:
		return styles.StatusIcon(true) + " " + styles.Playing.Render(m.status)
	case orchestrator.StatusPaused:
		return styles.StatusIcon(false) + " " + styles.Subtitle.Render(m.status)
	case orchestrator.StatusActivationBlocked:
		return styles.Blocked.Render(m.status)
	case orchestrator.StatusDeviceQueryFailed, orchestrator.StatusPlayFailed, orchestrator.StatusNoDevice:
		return styles.Failed.Render(m.status)
	default:
		return styles.Subtitle.Render(m.status)
	}
}

func (m Model) renderControls() string {
	controls := "space:play  r:reveal  n:next  q:quit"
	if m.pauseEnabled {
		controls = "space:play  s:pause  r:reveal  n:next  q:quit"
	}
	return styles.Dim.Render(controls)
}

// Run starts the TUI.
func Run(app *App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
