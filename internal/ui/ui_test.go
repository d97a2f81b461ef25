package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/litescript/ls-skydome/internal/astro"
	"github.com/litescript/ls-skydome/internal/ephem"
	"github.com/litescript/ls-skydome/internal/orient"
	"github.com/litescript/ls-skydome/internal/state"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	q := ephem.Query{
		Time:     testNoon,
		Observer: astro.Observer{LatDeg: 51.4769, LonDeg: 0, Name: "Greenwich"},
		Body:     ephem.BodySun,
	}
	tracker := state.NewTracker(
		state.NewManager(state.DefaultConfig()),
		ephem.NewLocalProvider(),
		q,
		state.NewTimelapse(testNoon, 1),
	)
	return New(tracker, Options{SpinDegPerSec: 15, MaxStarMag: 2.5})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_Pause(t *testing.T) {
	m := newTestModel(t)
	clock := m.tracker.Clock()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !clock.Paused() {
		t.Fatal("space should pause")
	}
	if m.statusMsg != "Paused" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if clock.Paused() {
		t.Error("second space should resume")
	}
}

func TestModel_Rate(t *testing.T) {
	m := newTestModel(t)
	clock := m.tracker.Clock()

	m, _ = update(t, m, runes("+"))
	m, _ = update(t, m, runes("+"))
	if got := clock.Rate(); got != 4 {
		t.Errorf("rate after ++ = %v, want 4", got)
	}

	for i := 0; i < 12; i++ {
		m, _ = update(t, m, runes("-"))
	}
	if got := clock.Rate(); got != minRate {
		t.Errorf("rate = %v, want clamped to %v", got, minRate)
	}
	if m.statusMsg != "Rate 1/64x" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestModel_Spin(t *testing.T) {
	m := newTestModel(t)
	clock := m.tracker.Clock()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.spinDir != 1 {
		t.Fatalf("spinDir = %d, want 1", m.spinDir)
	}

	// The first frame only anchors; the second advances by rate*dt.
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	m, _ = update(t, m, AnimTickMsg(start))
	m, _ = update(t, m, AnimTickMsg(start.Add(2*time.Second)))
	if got := clock.SpinOffset(); !scalar.EqualWithinAbs(got, 30, 1e-9) {
		t.Errorf("SpinOffset = %v, want 30", got)
	}

	// Pressing the same direction stops
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.spinDir != 0 {
		t.Errorf("spinDir = %d, want 0", m.spinDir)
	}

	// West wraps through north
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, AnimTickMsg(start.Add(3*time.Second)))
	m, _ = update(t, m, AnimTickMsg(start.Add(7*time.Second)))
	if got := clock.SpinOffset(); !scalar.EqualWithinAbs(got, 330, 1e-9) {
		t.Errorf("SpinOffset = %v, want 330", got)
	}

	m, _ = update(t, m, runes("0"))
	if m.spinDir != 0 || clock.SpinOffset() != 0 {
		t.Errorf("reset: spinDir=%d offset=%v", m.spinDir, clock.SpinOffset())
	}
}

func TestModel_RefreshAimsDome(t *testing.T) {
	m := newTestModel(t)

	msg := m.refreshCmd()()
	data, ok := msg.(DataUpdateMsg)
	if !ok {
		t.Fatalf("refreshCmd produced %T, want DataUpdateMsg", msg)
	}
	if data.Snapshot.Sample == nil {
		t.Fatal("snapshot has no sample")
	}

	m, _ = update(t, m, data)

	want := orient.Transform(data.Snapshot.Sample.Position())
	if got := m.Dome().Orientation(); got != want {
		t.Errorf("dome orientation = %v, want %v", got, want)
	}
	if m.fetching {
		t.Error("fetching should clear on data")
	}
}

func TestModel_RequestRefreshSingleFlight(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil || !m.fetching {
		t.Fatal("tick should start a refresh")
	}
	if again := m.requestRefresh(); again != nil {
		t.Error("second refresh should wait for the first")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before size = %q", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
	m, _ = update(t, m, m.refreshCmd()())

	view := m.View()
	for _, want := range []string{"Sky Dome", "Pitch", "q: quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	// Tall terminals get the logo with the version line
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if !strings.Contains(m.View(), "litescript.net") {
		t.Error("tall View() should include the logo")
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1, "1x"},
		{60, "60x"},
		{0.25, "1/4x"},
		{1.0 / 64, "1/64x"},
	}

	for _, tt := range tests {
		if got := formatRate(tt.rate); got != tt.want {
			t.Errorf("formatRate(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
