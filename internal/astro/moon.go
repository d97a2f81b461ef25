package astro

import (
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
)

// MoonPosition returns the geocentric equatorial coordinates of the Moon in
// degrees and its distance in kilometers. Topocentric parallax is not applied.
func MoonPosition(t time.Time) (raDeg, decDeg, distKm float64) {
	jd := julianDate(t)

	lon, lat, dist := moonposition.Position(jd)
	sinEps, cosEps := nutation.MeanObliquity(jd).Sincos()
	ra, dec := coord.EclToEq(lon, lat, sinEps, cosEps)

	return ra.Deg(), dec.Deg(), dist
}
