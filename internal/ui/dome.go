package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skydome/internal/angle"
	"github.com/litescript/ls-skydome/internal/astro"
	"github.com/litescript/ls-skydome/internal/orient"
	"github.com/litescript/ls-skydome/internal/state"
	"github.com/litescript/ls-skydome/internal/track"
)

const (
	// Horizontal field of view in degrees. The vertical axis always spans
	// horizon to zenith.
	fovAz = 180.0

	// Camera pan animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Body glyphs
	glyphSun      = '☉'
	glyphMoon     = '☾'
	glyphSkyPoint = '✦'
	glyphBelow    = '▾' // body under the horizon, drawn on the horizon line
	glyphTrail    = '·'

	colorSun      = "220"
	colorMoon     = "189"
	colorSkyPoint = "#d0c8ff"
	colorTrail    = "60"

	// Star glyphs by magnitude
	glyphStarBright = '✶' // mag < 1.5
	glyphStarMedium = '✸' // mag 1.5-3.0
	glyphStarDim    = '·' // mag > 3.0

	colorStarBright = "255"
	colorStarMedium = "250"
	colorStarDim    = "244"
)

// DomeModel renders the observer's sky with the tracked body and the
// orientation applied to it.
type DomeModel struct {
	width  int
	height int

	// Camera azimuth (center of view)
	camAz float64

	// Animation state
	animating   bool
	animStartAz float64
	animTargAz  float64
	animStart   time.Time

	observer  astro.Observer
	stars     []astro.Star
	showStars bool

	sample      *track.Sample
	trail       []track.Sample
	orientation orient.Orientation
	spin        float64
}

// NewDomeModel creates a dome for obs showing stars up to maxMag.
func NewDomeModel(obs astro.Observer, showStars bool, maxMag float64) DomeModel {
	return DomeModel{
		camAz:     180,
		observer:  obs,
		stars:     astro.DefaultStarCatalog().Brighter(maxMag),
		showStars: showStars,
	}
}

// SetLocalRotation stores the orientation the dome is rendered with.
func (m *DomeModel) SetLocalRotation(o orient.Orientation) {
	m.orientation = o
}

// Orientation returns the last applied orientation.
func (m DomeModel) Orientation() orient.Orientation {
	return m.orientation
}

// SetSize updates the viewport size.
func (m DomeModel) SetSize(width, height int) DomeModel {
	m.width = width
	m.height = height
	return m
}

// SetSpin records the manual azimuth offset for the readout.
func (m DomeModel) SetSpin(deg float64) DomeModel {
	m.spin = deg
	return m
}

// UpdateData aims the dome at the snapshot's sample and pans the camera
// toward it.
func (m DomeModel) UpdateData(snapshot state.Snapshot) (DomeModel, tea.Cmd) {
	m.trail = snapshot.History
	if snapshot.Sample == nil {
		return m, nil
	}

	s := *snapshot.Sample
	first := m.sample == nil
	m.sample = &s
	orient.Aim(&m, s.Position())

	if first {
		m.camAz = s.Azimuth
		return m, nil
	}
	if math.Abs(normalizeAngle(s.Azimuth-m.camAz)) < fovAz/4 {
		return m, nil
	}
	return m.startAnimation(s.Azimuth)
}

// domeAnimMsg is sent during camera animation.
type domeAnimMsg time.Time

func domeAnimTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return domeAnimMsg(t)
	})
}

// Update handles messages.
func (m DomeModel) Update(msg tea.Msg) (DomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			m.showStars = !m.showStars
		case "c":
			if m.sample != nil {
				return m.startAnimation(m.sample.Azimuth)
			}
		}

	case domeAnimMsg:
		if m.animating {
			return m.updateAnimation(time.Time(msg))
		}
	}

	return m, nil
}

func (m DomeModel) startAnimation(targetAz float64) (DomeModel, tea.Cmd) {
	m.animating = true
	m.animStartAz = m.camAz
	m.animTargAz = targetAz
	m.animStart = time.Now()
	return m, domeAnimTick()
}

func (m DomeModel) updateAnimation(now time.Time) (DomeModel, tea.Cmd) {
	t := float64(now.Sub(m.animStart)) / float64(animDuration)

	if t >= 1.0 {
		m.animating = false
		m.camAz = angle.Normalize(m.animTargAz)
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)
	m.camAz = angle.Normalize(lerpAngle(m.animStartAz, m.animTargAz, t))

	return m, domeAnimTick()
}

// View renders the dome.
func (m DomeModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Dome view requires larger terminal"
	}

	// Header, two readout lines
	viewHeight := m.height - 3

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas(m.width, viewHeight))
	b.WriteString("\n")
	b.WriteString(m.renderReadout())
	return b.String()
}

func (m DomeModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSkyPoint))

	title := titleStyle.Render("Sky Dome")

	site := m.observer.Name
	if site == "" {
		site = "Observer"
	}
	where := accentStyle.Render(fmt.Sprintf("%s %.4f°, %.4f°", site, m.observer.LatDeg, m.observer.LonDeg))

	starStr := dimStyle.Render("Stars: off")
	if m.showStars {
		starStr = accentStyle.Render(fmt.Sprintf("Stars: %d", len(m.stars)))
	}

	compass := dimStyle.Render(fmt.Sprintf("View Az:%.0f°", m.camAz))

	return fmt.Sprintf("%s | %s | %s | %s", title, where, starStr, compass)
}

func (m DomeModel) renderReadout() string {
	if m.sample == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render("No position yet")
	}

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSkyPoint))

	o := m.orientation
	line1 := fmt.Sprintf(">>> %s | Pitch %.3f° | Roll %.3f° | Yaw %.3f°",
		strings.ToUpper(m.sample.Body), o.Pitch, o.Roll, o.Yaw)

	line2 := fmt.Sprintf("    El %s  Az %s  %s",
		angle.ToDMS(m.sample.Elevation), angle.ToDMS(m.sample.Azimuth),
		m.sample.Time.UTC().Format("2006-01-02 15:04:05 UTC"))
	if m.spin != 0 {
		line2 += fmt.Sprintf("  spin %+.1f°", normalizeAngle(m.spin))
	}

	return accentStyle.Render(line1) + "\n" + dimStyle.Render(line2)
}

func (m DomeModel) renderCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	horizonY := height - 2

	if m.showStars {
		at := time.Now()
		if m.sample != nil {
			at = m.sample.Time
		}
		for _, star := range m.stars {
			horiz := star.Horizontal(m.observer, at)
			x, y, ok := m.projectToScreen(horiz.AzDeg, horiz.ElDeg, width, height)
			if !ok || x >= width || y >= horizonY {
				continue
			}
			canvas[y][x], colors[y][x] = starGlyph(star.Mag)
		}
	}

	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}

	m.drawCardinal(canvas, colors, width, height, "N", 0)
	m.drawCardinal(canvas, colors, width, height, "E", 90)
	m.drawCardinal(canvas, colors, width, height, "S", 180)
	m.drawCardinal(canvas, colors, width, height, "W", 270)

	for _, s := range m.trail {
		x, y, ok := m.projectToScreen(s.Azimuth, s.Elevation, width, height)
		if !ok || x >= width || y >= horizonY {
			continue
		}
		canvas[y][x] = glyphTrail
		colors[y][x] = colorTrail
	}

	if m.sample != nil {
		glyph, color := bodyGlyph(m.sample.Body)
		el := m.sample.Elevation
		if el < 0 {
			glyph, el = glyphBelow, 0
		}
		if x, y, ok := m.projectToScreen(m.sample.Azimuth, el, width, height); ok && x < width {
			canvas[y][x] = glyph
			colors[y][x] = color
		}
	}

	// Observer marker at bottom center
	observerX := width / 2
	observerY := height - 1
	canvas[observerY][observerX] = '▲'
	colors[observerY][observerX] = "46"

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// bodyGlyph returns the glyph and color for a body name.
func bodyGlyph(body string) (rune, lipgloss.Color) {
	switch body {
	case "sun":
		return glyphSun, colorSun
	case "moon":
		return glyphMoon, colorMoon
	default:
		return glyphSkyPoint, colorSkyPoint
	}
}

// starGlyph returns the glyph and color for a star by magnitude.
func starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, colorStarBright
	case mag < 3.0:
		return glyphStarMedium, colorStarMedium
	default:
		return glyphStarDim, colorStarDim
	}
}

func (m DomeModel) drawCardinal(canvas [][]rune, colors [][]lipgloss.Color, width, height int, label string, az float64) {
	x, y, ok := m.projectToScreen(az, 0, width, height)
	if !ok || x >= width {
		return
	}
	canvas[y][x] = rune(label[0])
	colors[y][x] = "252"
}

// projectToScreen maps az/el to canvas cells. Elevation 0..90 spans the
// horizon row up to the top row; azimuth is relative to the camera.
func (m DomeModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if el < 0 || el > angle.MaxElevation {
		return 0, 0, false
	}

	horizonY := height - 2

	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int(math.Round((angle.MaxElevation - el) / angle.MaxElevation * float64(horizonY)))

	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	a = angle.Normalize(a)
	if a > 180 {
		a -= angle.FullTurn
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}
