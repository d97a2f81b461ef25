package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-skydome/internal/angle"
	"github.com/litescript/ls-skydome/internal/orient"
)

// Timelapse is a simulated clock anchored at a start instant. It runs at a
// rate multiple of wall time and carries a manual azimuth spin offset.
type Timelapse struct {
	mu sync.Mutex

	anchorSim  time.Time
	anchorWall time.Time
	rate       float64
	paused     bool

	spin float64 // degrees, [0, 360)

	now func() time.Time
}

// NewTimelapse starts a simulated clock at start running at rate.
func NewTimelapse(start time.Time, rate float64) *Timelapse {
	return newTimelapse(start, rate, time.Now)
}

func newTimelapse(start time.Time, rate float64, now func() time.Time) *Timelapse {
	return &Timelapse{
		anchorSim:  start,
		anchorWall: now(),
		rate:       rate,
		now:        now,
	}
}

// Now returns the simulated instant.
func (tl *Timelapse) Now() time.Time {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.simNow()
}

func (tl *Timelapse) simNow() time.Time {
	if tl.paused {
		return tl.anchorSim
	}
	elapsed := tl.now().Sub(tl.anchorWall)
	return tl.anchorSim.Add(time.Duration(float64(elapsed) * tl.rate))
}

// reanchor pins the current simulated instant so later changes apply from
// here on.
func (tl *Timelapse) reanchor() {
	tl.anchorSim = tl.simNow()
	tl.anchorWall = tl.now()
}

// Rate returns the simulated seconds per wall second.
func (tl *Timelapse) Rate() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.rate
}

// SetRate changes the speed without jumping the simulated time.
func (tl *Timelapse) SetRate(rate float64) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.reanchor()
	tl.rate = rate
}

// Jump moves the simulated clock to t.
func (tl *Timelapse) Jump(t time.Time) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.anchorSim = t
	tl.anchorWall = tl.now()
}

// TogglePause pauses or resumes the clock and reports whether it is now
// paused.
func (tl *Timelapse) TogglePause() bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.reanchor()
	tl.paused = !tl.paused
	return tl.paused
}

// Paused reports whether the clock is paused.
func (tl *Timelapse) Paused() bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.paused
}

// AddSpin advances the manual azimuth offset by deg, wrapping smoothly.
func (tl *Timelapse) AddSpin(deg float64) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.spin = angle.AdvanceAngle(tl.spin, deg)
}

// SpinOffset returns the manual azimuth offset in degrees.
func (tl *Timelapse) SpinOffset() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.spin
}

// ResetSpin clears the manual azimuth offset.
func (tl *Timelapse) ResetSpin() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.spin = 0
}

// Apply adds the spin offset to pos's azimuth.
func (tl *Timelapse) Apply(pos orient.CelestialPosition) orient.CelestialPosition {
	pos.Azimuth = angle.AdvanceAngle(pos.Azimuth, tl.SpinOffset())
	return pos
}
