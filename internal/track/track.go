// Package track samples a body's orientation over a time range and exports
// the result.
package track

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-skydome/internal/angle"
	"github.com/litescript/ls-skydome/internal/ephem"
	"github.com/litescript/ls-skydome/internal/logging"
	"github.com/litescript/ls-skydome/internal/orient"
)

// Sample is one row of a track: where the body is and how to aim at it.
type Sample struct {
	Time      time.Time `csv:"time" json:"time"`
	Body      string    `csv:"body" json:"body"`
	Elevation float64   `csv:"elevation" json:"elevation"`
	Azimuth   float64   `csv:"azimuth" json:"azimuth"`
	Pitch     float64   `csv:"pitch" json:"pitch"`
	Roll      float64   `csv:"roll" json:"roll"`
	Yaw       float64   `csv:"yaw" json:"yaw"`
}

// NewSample normalizes pos and computes its orientation.
func NewSample(t time.Time, body ephem.Body, pos orient.CelestialPosition) Sample {
	n := pos.Normalized()
	o := orient.Transform(n)
	return Sample{
		Time:      t,
		Body:      body.String(),
		Elevation: n.Elevation,
		Azimuth:   n.Azimuth,
		Pitch:     o.Pitch,
		Roll:      o.Roll,
		Yaw:       o.Yaw,
	}
}

// Position returns the sample's sky position.
func (s Sample) Position() orient.CelestialPosition {
	return orient.CelestialPosition{Elevation: s.Elevation, Azimuth: s.Azimuth}
}

// Orientation returns the sample's orientation.
func (s Sample) Orientation() orient.Orientation {
	return orient.Orientation{Pitch: s.Pitch, Roll: s.Roll, Yaw: s.Yaw}
}

// Sampler turns provider paths into samples.
type Sampler struct {
	provider ephem.Provider
	log      *logging.Logger
}

// NewSampler creates a sampler over p. A nil logger discards.
func NewSampler(p ephem.Provider, log *logging.Logger) *Sampler {
	if log == nil {
		log = logging.Discard()
	}
	return &Sampler{provider: p, log: log.With("component", "track")}
}

// Sample returns samples from q.Time through end, step apart. Each step adds
// spinPerStep degrees of manual azimuth offset on top of the body's motion.
func (s *Sampler) Sample(ctx context.Context, q ephem.Query, end time.Time, step time.Duration, spinPerStep float64) ([]Sample, error) {
	points, err := s.provider.Path(ctx, q, end, step)
	if err != nil {
		return nil, fmt.Errorf("%s path for %v: %w", s.provider.Name(), q.Body, err)
	}

	samples := make([]Sample, 0, len(points))
	spin := 0.0
	for _, pt := range points {
		pos := pt.Position
		pos.Azimuth = angle.AdvanceAngle(pos.Azimuth, spin)
		samples = append(samples, NewSample(pt.Time, q.Body, pos))
		spin = angle.AdvanceAngle(spin, spinPerStep)
	}

	s.log.Debug("sampled %d points for %v via %s", len(samples), q.Body, s.provider.Name())
	return samples, nil
}
