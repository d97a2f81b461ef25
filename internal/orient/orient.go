// Package orient converts horizontal sky coordinates into a render-ready
// orientation for aiming a dome, light or camera at a celestial body.
//
// The conversion is a pipeline of pure stages:
//
//	normalize -> roll / base pitch -> proximity correction -> emit
//
// Every stage is total over the reals: out-of-range elevations are clamped and
// azimuths are wrapped, so there is no error path.
package orient

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-skydome/internal/angle"
)

// CelestialPosition is a body's place in the observer's sky.
type CelestialPosition struct {
	Elevation float64 // Altitude above the horizon in degrees, [-90, 90]
	Azimuth   float64 // Bearing clockwise from north in degrees, [0, 360)
}

// Normalized returns p with the elevation clamped and the azimuth wrapped.
func (p CelestialPosition) Normalized() CelestialPosition {
	return CelestialPosition{
		Elevation: angle.ClampElevation(p.Elevation),
		Azimuth:   angle.Normalize(p.Azimuth),
	}
}

func (p CelestialPosition) String() string {
	return fmt.Sprintf("El:%.3f° Az:%.3f°", p.Elevation, p.Azimuth)
}

// Orientation is a pitch/roll/yaw rotation in degrees. Yaw is always zero:
// with a fixed-up observer one rotational degree of freedom is redundant, so
// all positional information lives in pitch and roll.
type Orientation struct {
	Pitch float64
	Roll  float64
	Yaw   float64
}

func (o Orientation) String() string {
	return fmt.Sprintf("P:%.3f° R:%.3f° Y:%.3f°", o.Pitch, o.Roll, o.Yaw)
}

// Target receives an orientation and applies it as a local rotation.
type Target interface {
	SetLocalRotation(o Orientation)
}

// Transform converts a horizontal position into an orientation.
func Transform(p CelestialPosition) Orientation {
	n := p.Normalized()

	pitch := basePitch(n) + pitchCorrection(n)

	return Orientation{
		Pitch: pitch,
		Roll:  roll(n),
		Yaw:   0,
	}
}

// Aim transforms p and applies the result to t.
func Aim(t Target, p CelestialPosition) Orientation {
	o := Transform(p)
	t.SetLocalRotation(o)
	return o
}

// roll tilts by the azimuthal lean, scaled into degree units. The sign is
// inverted: roll increases opposite to the raw cosine product.
func roll(n CelestialPosition) float64 {
	az := unit.AngleFromDeg(n.Azimuth)
	el := unit.AngleFromDeg(n.Elevation)
	return -az.Cos() * el.Cos() * 180 / math.Pi
}

// basePitch tracks elevation on the near half of the circle and sweeps
// through the far side once the azimuth passes 180.
func basePitch(n CelestialPosition) float64 {
	pitch := n.Elevation

	if n.Azimuth >= 180 {
		if n.Elevation >= 0 {
			pitch = 180 - n.Elevation
		} else {
			pitch = 180 + math.Abs(n.Elevation)
		}
	}

	// Single wrap: pitch is within [-90, 270] here.
	if pitch < 0 {
		pitch += angle.FullTurn
	}
	return pitch
}

// pitchCorrection nudges pitch toward a dome shape as the azimuth nears 0 or
// 180, since a real sky body almost never reaches the zenith. The correction
// vanishes at azimuth 90/270 and peaks at the lane edges. It flips sign on the
// west side where elevation's effect on pitch is inverted.
func pitchCorrection(n CelestialPosition) float64 {
	azMod := math.Mod(math.Abs(n.Azimuth), 180)
	distanceTo90 := math.Abs(90-azMod) / 90

	var correction float64
	if n.Elevation >= 0 {
		correction = (90 - n.Elevation) * distanceTo90
	} else {
		correction = -(90 - math.Abs(n.Elevation)) * distanceTo90
	}

	if n.Azimuth > 180 {
		correction = -correction
	}
	return correction
}

// Direction returns the unit vector toward p in a local East-North-Up frame.
func Direction(p CelestialPosition) r3.Vec {
	n := p.Normalized()
	sinAz, cosAz := unit.AngleFromDeg(n.Azimuth).Sincos()
	sinEl, cosEl := unit.AngleFromDeg(n.Elevation).Sincos()

	return r3.Vec{
		X: cosEl * sinAz,
		Y: cosEl * cosAz,
		Z: sinEl,
	}
}
