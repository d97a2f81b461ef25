package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// SunPosition returns the apparent equatorial coordinates of the Sun in
// degrees. Accuracy is about 0.01°, well below a rendered disc.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	ra, dec := solar.ApparentEquatorial(julianDate(t))
	return ra.Deg(), dec.Deg()
}

// SunSeparation calculates the angular separation between the Sun and a target.
// Returns the separation angle in degrees.
func SunSeparation(targetRA, targetDec float64, t time.Time) float64 {
	sunRA, sunDec := SunPosition(t)
	return AngularSeparation(sunRA, sunDec, targetRA, targetDec)
}

// AngularSeparation calculates the angular separation between two points on the celestial sphere.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	dRA := unit.AngleFromDeg(ra2 - ra1).Div(2)
	dDec := unit.AngleFromDeg(dec2 - dec1).Div(2)

	// Haversine
	a := dDec.Sin()*dDec.Sin() +
		unit.AngleFromDeg(dec1).Cos()*unit.AngleFromDeg(dec2).Cos()*dRA.Sin()*dRA.Sin()

	// Clamp to avoid numerical errors with asin
	a = math.Min(a, 1)

	return unit.Angle(2 * math.Asin(math.Sqrt(a))).Deg()
}
