// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skydome/internal/logging"
	"github.com/litescript/ls-skydome/internal/state"
	"github.com/litescript/ls-skydome/internal/version"
)

const (
	// Rate limits for the timelapse clock
	minRate = 1.0 / 64
	maxRate = 86400.0

	// Rows taken by the logo and footer
	logoHeight   = 10
	footerHeight = 2
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic position refreshes.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new sample is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a fetch error.
	ErrorMsg struct {
		Error error
	}
)

// Options configures the root model.
type Options struct {
	SpinDegPerSec float64
	ShowStars     bool
	MaxStarMag    float64
	Logger        *logging.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	tracker *state.Tracker
	log     *logging.Logger

	// UI state
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	fetching  bool

	// Manual spin: -1, 0 or +1 at spinRate degrees per second
	spinDir  int
	spinRate float64
	lastSpin time.Time

	dome     DomeModel
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(tracker *state.Tracker, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return Model{
		tracker:  tracker,
		log:      log.With("component", "ui"),
		spinRate: opts.SpinDegPerSec,
		dome:     NewDomeModel(tracker.Query().Observer, opts.ShowStars, opts.MaxStarMag),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		tickCmd(m.tracker.Manager().RefreshInterval()),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.dome = m.dome.SetSize(msg.Width, m.contentHeight())

	case TickMsg:
		cmds = append(cmds, tickCmd(m.tracker.Manager().RefreshInterval()))
		if cmd := m.requestRefresh(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		if m.spinDir != 0 {
			now := time.Time(msg)
			if !m.lastSpin.IsZero() {
				dt := now.Sub(m.lastSpin).Seconds()
				m.tracker.Clock().AddSpin(float64(m.spinDir) * m.spinRate * dt)
			}
			m.lastSpin = now
			if cmd := m.requestRefresh(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

	case DataUpdateMsg:
		m.fetching = false
		m.snapshot = msg.Snapshot
		var cmd tea.Cmd
		m.dome, cmd = m.dome.UpdateData(m.snapshot)
		m.dome = m.dome.SetSpin(m.tracker.Clock().SpinOffset())
		cmds = append(cmds, cmd)

	case ErrorMsg:
		m.fetching = false
		m.statusMsg = "Fetch failed: " + msg.Error.Error()

	default:
		var cmd tea.Cmd
		m.dome, cmd = m.dome.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	clock := m.tracker.Clock()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ", "space":
		if clock.TogglePause() {
			m.statusMsg = "Paused"
		} else {
			m.statusMsg = "Resumed"
		}

	case "+", "=":
		rate := clock.Rate() * 2
		if rate > maxRate {
			rate = maxRate
		}
		clock.SetRate(rate)
		m.statusMsg = "Rate " + formatRate(rate)

	case "-", "_":
		rate := clock.Rate() / 2
		if rate < minRate {
			rate = minRate
		}
		clock.SetRate(rate)
		m.statusMsg = "Rate " + formatRate(rate)

	case "left", "h":
		m = m.toggleSpin(-1)

	case "right", "l":
		m = m.toggleSpin(1)

	case "0":
		m.spinDir = 0
		clock.ResetSpin()
		m.statusMsg = "Spin reset"

	case "n":
		clock.Jump(time.Now())
		m.statusMsg = "Jumped to now"

	default:
		var cmd tea.Cmd
		m.dome, cmd = m.dome.Update(msg)
		return m, cmd
	}

	m.log.Debug("key %q: rate=%s paused=%v spin=%.1f", msg.String(),
		formatRate(clock.Rate()), clock.Paused(), clock.SpinOffset())

	cmd := m.requestRefresh()
	return m, cmd
}

// toggleSpin starts spinning in dir, or stops if already spinning that way.
func (m Model) toggleSpin(dir int) Model {
	if m.spinDir == dir {
		m.spinDir = 0
		m.statusMsg = "Spin stopped"
		return m
	}
	m.spinDir = dir
	m.lastSpin = time.Time{}
	if dir < 0 {
		m.statusMsg = "Spinning west"
	} else {
		m.statusMsg = "Spinning east"
	}
	return m
}

// requestRefresh starts a refresh unless one is in flight.
func (m *Model) requestRefresh() tea.Cmd {
	if m.fetching {
		return nil
	}
	m.fetching = true
	return m.refreshCmd()
}

func (m Model) refreshCmd() tea.Cmd {
	tracker := m.tracker
	log := m.log
	return func() tea.Msg {
		if _, err := tracker.Refresh(context.Background()); err != nil {
			log.Warn("refresh failed: %v", err)
		}
		return DataUpdateMsg{Snapshot: tracker.Manager().Snapshot()}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = time.Second
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// Dome returns the dome view, which holds the applied orientation.
func (m Model) Dome() DomeModel {
	return m.dome
}

func (m Model) showLogo() bool {
	return m.height >= 30
}

func (m Model) contentHeight() int {
	h := m.height - footerHeight - 1
	if m.showLogo() {
		h -= logoHeight
	}
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	if m.showLogo() {
		b.WriteString(m.renderLogo())
	}
	b.WriteString(m.dome.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗      ███████╗██╗  ██╗██╗   ██╗██████╗  ██████╗ ███╗   ███╗███████╗`,
		`  ██║     ██╔════╝      ██╔════╝██║ ██╔╝╚██╗ ██╔╝██╔══██╗██╔═══██╗████╗ ████║██╔════╝`,
		`  ██║     ███████╗█████╗███████╗█████╔╝  ╚████╔╝ ██║  ██║██║   ██║██╔████╔██║█████╗  `,
		`  ██║     ╚════██║╚════╝╚════██║██╔═██╗   ╚██╔╝  ██║  ██║██║   ██║██║╚██╔╝██║██╔══╝  `,
		`  ███████╗███████║      ███████║██║  ██╗   ██║   ██████╔╝╚██████╔╝██║ ╚═╝ ██║███████╗`,
		`  ╚══════╝╚══════╝      ╚══════╝╚═╝  ╚═╝   ╚═╝   ╚═════╝  ╚═════╝ ╚═╝     ╚═╝╚══════╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Sky Orientation · Sun, Moon and fixed points"))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  (c) 2025 litescript.net | v%s | %s", version.Version, m.tracker.Provider().Name())))
	b.WriteString("\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep blue at the horizon edge to dawn orange, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Blue (#1E3A8A) -> Sky (#38BDF8) -> Amber (#F59E0B)
	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 30 + t*(56-30)
		g = 58 + t*(189-58)
		b = 138 + t*(248-138)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 56 + t*(245-56)
		g = 189 + t*(158-189)
		b = 248 + t*(11-248)
	}

	brightness := 1.0 - yRatio*0.5
	return fmt.Sprintf("#%02X%02X%02X", channel(r*brightness), channel(g*brightness), channel(b*brightness))
}

func channel(v float64) int {
	return max(0, min(255, int(v)))
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	clock := m.tracker.Clock()

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.snapshot.Sample == nil:
		status = accentStyle.Render(spinner) + dimStyle.Render(" Waiting for position...")
	case clock.Paused():
		status = accentStyle.Render("❚❚") + dimStyle.Render(" paused")
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" "+formatRate(clock.Rate()))
		if m.snapshot.FetchDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.FetchDuration.Round(time.Microsecond).String() + ")")
		}
	}

	if n := len(m.snapshot.Events); n > 0 {
		ev := m.snapshot.Events[n-1]
		status += dimStyle.Render(fmt.Sprintf("  last: %s %s %s", ev.Type, ev.Body, ev.Timestamp.UTC().Format("15:04")))
	}

	help := dimStyle.Render("space: pause | +/-: rate | ←/→: spin | 0: reset | n: now | t: stars | q: quit")

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// formatRate renders a timelapse rate, e.g. "1x", "60x", "1/4x".
func formatRate(rate float64) string {
	if rate >= 1 {
		return fmt.Sprintf("%gx", rate)
	}
	return fmt.Sprintf("1/%gx", 1/rate)
}
