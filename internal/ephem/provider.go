// Package ephem provides horizontal positions of sky bodies for an observer,
// computed locally or fetched from JPL Horizons.
package ephem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-skydome/internal/astro"
	"github.com/litescript/ls-skydome/internal/clock"
	"github.com/litescript/ls-skydome/internal/logging"
	"github.com/litescript/ls-skydome/internal/orient"
)

var (
	// ErrUnsupportedBody is returned when a provider cannot serve a body.
	ErrUnsupportedBody = errors.New("body not supported by provider")

	// ErrNoData is returned when a source answered without any positions.
	ErrNoData = errors.New("no ephemeris data")

	// ErrInvalidRange is returned for paths with a non-positive step or an
	// end before the start.
	ErrInvalidRange = errors.New("invalid path range")
)

// Body identifies what is being tracked.
type Body int

const (
	BodySun Body = iota
	BodyMoon
	BodySkyPoint // fixed RA/Dec, e.g. a star or the First Point of Aries
)

// String returns the body name.
func (b Body) String() string {
	switch b {
	case BodySun:
		return "sun"
	case BodyMoon:
		return "moon"
	case BodySkyPoint:
		return "sky"
	default:
		return "unknown"
	}
}

// ParseBody parses a body name.
func ParseBody(s string) (Body, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sun":
		return BodySun, nil
	case "moon":
		return BodyMoon, nil
	case "sky", "skypoint", "point", "star":
		return BodySkyPoint, nil
	default:
		return 0, fmt.Errorf("unknown body %q (want sun, moon or sky)", s)
	}
}

// Query asks for a body's position at an instant for an observer. RAdeg and
// DecDeg are only read for BodySkyPoint.
type Query struct {
	Time     time.Time
	Observer astro.Observer
	Body     Body
	RAdeg    float64
	DecDeg   float64
}

// NewQuery builds a query from the observer's civil time.
func NewQuery(civil clock.Civil, obs astro.Observer, body Body) Query {
	return Query{
		Time:     civil.UTC(),
		Observer: obs,
		Body:     body,
		RAdeg:    astro.FirstPointOfAries.RAdeg,
		DecDeg:   astro.FirstPointOfAries.DecDeg,
	}
}

// At returns a copy of q for another instant.
func (q Query) At(t time.Time) Query {
	q.Time = t
	return q
}

// Point is a position at a specific time.
type Point struct {
	Time     time.Time
	Position orient.CelestialPosition
}

// Provider defines the interface for ephemeris data sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Available returns true if this provider can supply data for the body.
	Available(body Body) bool

	// Position returns the body's horizontal position for the query.
	Position(ctx context.Context, q Query) (orient.CelestialPosition, error)

	// Path returns positions from q.Time through end, step apart.
	Path(ctx context.Context, q Query, end time.Time, step time.Duration) ([]Point, error)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeLocal    Mode = iota // Compute locally (default)
	ModeHorizons             // Use JPL Horizons only
	ModeAuto                 // Try Horizons, fall back to local
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeHorizons:
		return "horizons"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string. Unknown values select local computation.
func ParseMode(s string) Mode {
	switch s {
	case "horizons":
		return ModeHorizons
	case "auto":
		return ModeAuto
	default:
		return ModeLocal
	}
}

// Options configures NewProvider.
type Options struct {
	HorizonsURL string
	Timeout     time.Duration
	CacheTTL    time.Duration
	Logger      *logging.Logger
}

// NewProvider returns the provider for mode.
func NewProvider(mode Mode, opts Options) Provider {
	switch mode {
	case ModeHorizons:
		return NewHorizonsProvider(opts)
	case ModeAuto:
		return NewFallbackProvider(NewHorizonsProvider(opts), NewLocalProvider(), opts.Logger)
	default:
		return NewLocalProvider()
	}
}

// pathTimes lists the sample instants from start through end.
func pathTimes(start, end time.Time, step time.Duration) ([]time.Time, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %v", ErrInvalidRange, step)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v before start %v", ErrInvalidRange, end, start)
	}

	n := int(end.Sub(start)/step) + 1
	times := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		times = append(times, start.Add(time.Duration(i)*step))
	}
	return times, nil
}
