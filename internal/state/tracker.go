package state

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-skydome/internal/ephem"
	"github.com/litescript/ls-skydome/internal/track"
)

// DefaultFetchTimeout bounds a single provider lookup.
const DefaultFetchTimeout = 10 * time.Second

// Tracker samples one body on a timelapse clock and records the result in a
// Manager.
type Tracker struct {
	mgr      *Manager
	provider ephem.Provider
	query    ephem.Query
	clock    *Timelapse
	timeout  time.Duration
}

// NewTracker creates a tracker for q. The query's time is replaced by the
// clock on every refresh.
func NewTracker(mgr *Manager, provider ephem.Provider, q ephem.Query, clock *Timelapse) *Tracker {
	return &Tracker{
		mgr:      mgr,
		provider: provider,
		query:    q,
		clock:    clock,
		timeout:  DefaultFetchTimeout,
	}
}

// Refresh looks up the body at the clock's current instant, applies the spin
// offset and records the sample. Failures are recorded too.
func (t *Tracker) Refresh(ctx context.Context) (track.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	q := t.query.At(t.clock.Now())

	start := time.Now()
	pos, err := t.provider.Position(ctx, q)
	elapsed := time.Since(start)
	if err != nil {
		err = fmt.Errorf("%s %v: %w", t.provider.Name(), q.Body, err)
		t.mgr.Update(nil, elapsed, err)
		return track.Sample{}, err
	}

	s := track.NewSample(q.Time, q.Body, t.clock.Apply(pos))
	t.mgr.Update(&s, elapsed, nil)
	return s, nil
}

// Manager returns the state manager samples are recorded in.
func (t *Tracker) Manager() *Manager { return t.mgr }

// Clock returns the timelapse clock.
func (t *Tracker) Clock() *Timelapse { return t.clock }

// Provider returns the ephemeris provider.
func (t *Tracker) Provider() ephem.Provider { return t.provider }

// Query returns the base query.
func (t *Tracker) Query() ephem.Query { return t.query }
