// Package astro provides coordinate conversions between the equatorial and
// horizontal frames, plus low-precision Sun and Moon positions.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-skydome/internal/angle"
)

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)

	// Distance (optional, Moon only)
	RangeKm float64
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 `yaml:"lat"`            // Latitude in degrees (north positive)
	LonDeg float64 `yaml:"lon"`            // Longitude in degrees (east positive)
	Name   string  `yaml:"name,omitempty"` // Optional name for the site
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to horizontal
// coordinates (Az/El) for a given observer and time.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := unit.AngleFromDeg(obs.LatDeg)
	dec := unit.AngleFromDeg(eq.DecDeg)

	// Hour Angle = LST - RA
	ha := unit.AngleFromDeg(localSiderealTime(t, obs.LonDeg) - eq.RAdeg)

	sinLat, cosLat := lat.Sincos()
	sinDec, cosDec := dec.Sincos()

	sinAlt := sinDec*sinLat + cosDec*cosLat*ha.Cos()
	alt := math.Asin(sinAlt)

	cosAz := (sinDec - sinAlt*sinLat) / (math.Cos(alt) * cosLat)
	// Clamp cosAz to [-1, 1] to handle floating point errors
	cosAz = math.Max(-1, math.Min(1, cosAz))

	az := math.Acos(cosAz)

	// Positive hour angle: the object is west of the meridian.
	if ha.Sin() > 0 {
		az = 2*math.Pi - az
	}

	return SkyCoord{
		RAdeg:   eq.RAdeg,
		DecDeg:  eq.DecDeg,
		AzDeg:   angle.Normalize(unit.Angle(az).Deg()),
		ElDeg:   unit.Angle(alt).Deg(),
		RangeKm: eq.RangeKm,
	}
}

// localSiderealTime calculates the Local Sidereal Time in degrees
// for a given UTC time and observer longitude.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return angle.Normalize(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime returns GMST in degrees for a given UTC time.
func greenwichMeanSiderealTime(t time.Time) float64 {
	st := sidereal.Mean(julianDate(t))
	return angle.Normalize(st.Angle().Deg())
}

// julianDate calculates the Julian Date for a given time.
func julianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}
