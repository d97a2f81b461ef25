package ephem

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-skydome/internal/astro"
	"github.com/litescript/ls-skydome/internal/orient"
)

// LocalProvider computes positions offline from Meeus' algorithms.
type LocalProvider struct{}

// NewLocalProvider creates a local ephemeris provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

// Name implements Provider.
func (p *LocalProvider) Name() string {
	return "Local"
}

// Available implements Provider.
func (p *LocalProvider) Available(body Body) bool {
	switch body {
	case BodySun, BodyMoon, BodySkyPoint:
		return true
	default:
		return false
	}
}

// Position implements Provider.
func (p *LocalProvider) Position(ctx context.Context, q Query) (orient.CelestialPosition, error) {
	if err := ctx.Err(); err != nil {
		return orient.CelestialPosition{}, err
	}

	eq, err := equatorial(q)
	if err != nil {
		return orient.CelestialPosition{}, err
	}

	h := astro.EquatorialToHorizontal(eq, q.Observer, q.Time)
	return orient.CelestialPosition{Elevation: h.ElDeg, Azimuth: h.AzDeg}, nil
}

// Path implements Provider.
func (p *LocalProvider) Path(ctx context.Context, q Query, end time.Time, step time.Duration) ([]Point, error) {
	times, err := pathTimes(q.Time, end, step)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(times))
	for _, t := range times {
		pos, err := p.Position(ctx, q.At(t))
		if err != nil {
			return nil, err
		}
		points = append(points, Point{Time: t, Position: pos})
	}
	return points, nil
}

// equatorial returns the body's geocentric RA/Dec at q.Time.
func equatorial(q Query) (astro.SkyCoord, error) {
	switch q.Body {
	case BodySun:
		ra, dec := astro.SunPosition(q.Time)
		return astro.SkyCoord{RAdeg: ra, DecDeg: dec}, nil
	case BodyMoon:
		ra, dec, dist := astro.MoonPosition(q.Time)
		return astro.SkyCoord{RAdeg: ra, DecDeg: dec, RangeKm: dist}, nil
	case BodySkyPoint:
		return astro.SkyCoord{RAdeg: q.RAdeg, DecDeg: q.DecDeg}, nil
	default:
		return astro.SkyCoord{}, fmt.Errorf("%w: %v", ErrUnsupportedBody, q.Body)
	}
}
