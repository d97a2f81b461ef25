// Package angle provides degree normalization and continuous-angle helpers
// used on per-frame paths.
package angle

import (
	"fmt"
	"math"
)

const (
	// FullTurn is one revolution in degrees.
	FullTurn = 360.0

	// MaxElevation and MinElevation bound an altitude above the horizon.
	MaxElevation = 90.0
	MinElevation = -90.0

	turnsPerDegree = 1.0 / FullTurn

	// Beyond this magnitude the truncating fast path can no longer be
	// represented exactly, so Normalize falls back to math.Mod.
	maxFastDegrees = 1 << 52
)

// Normalize returns the equivalent of deg in [0, 360).
//
// Whole turns are removed by multiplying by 1/360, truncating and
// subtracting, which avoids a floating modulo for the common case. The result
// matches true modulo for every finite input. NaN and ±Inf yield NaN.
func Normalize(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return math.NaN()
	}
	if math.Abs(deg) >= maxFastDegrees {
		return fold(math.Mod(deg, FullTurn))
	}
	return fold(deg - float64(int64(deg*turnsPerDegree))*FullTurn)
}

// fold brings a value in (-360, 360] into [0, 360).
func fold(a float64) float64 {
	if a < 0 {
		a += FullTurn
	}
	// A tiny negative remainder plus 360 can round up to exactly 360.
	if a >= FullTurn {
		a -= FullTurn
	}
	return a
}

// AdvanceAngle adds increment to current and returns the wrapped sum.
//
// The increment is normalized first, so a negative increment of -10 advances
// by 350. Callers thread the returned value back in as current on the next
// call; nothing is retained between calls.
func AdvanceAngle(current, increment float64) float64 {
	return Normalize(current + Normalize(increment))
}

// ClampElevation limits an altitude to [-90, 90].
func ClampElevation(deg float64) float64 {
	return math.Max(MinElevation, math.Min(MaxElevation, deg))
}

// DMS is an angle split into degrees, minutes and seconds.
type DMS struct {
	Negative bool
	Degrees  int
	Minutes  int
	Seconds  float64
}

// ToDMS splits deg into sexagesimal parts. Seconds are rounded to a tenth and
// carried into minutes and degrees when they reach 60.
func ToDMS(deg float64) DMS {
	neg := deg < 0
	abs := math.Abs(deg)

	d := math.Floor(abs)
	minutes := (abs - d) * 60
	m := math.Floor(minutes)
	s := math.Round((minutes-m)*60*10) / 10

	if s >= 60 {
		s -= 60
		m++
	}
	if m >= 60 {
		m -= 60
		d++
	}

	return DMS{
		Negative: neg && (d != 0 || m != 0 || s != 0),
		Degrees:  int(d),
		Minutes:  int(m),
		Seconds:  s,
	}
}

// String renders the angle as 12°03'04.5".
func (d DMS) String() string {
	sign := ""
	if d.Negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%d°%02d'%04.1f\"", sign, d.Degrees, d.Minutes, d.Seconds)
}
