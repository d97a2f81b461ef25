package ephem

import (
	"context"
	"time"

	"github.com/litescript/ls-skydome/internal/logging"
	"github.com/litescript/ls-skydome/internal/orient"
)

// FallbackProvider asks a primary source first and a secondary source when
// the primary cannot serve the body or fails.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	log       *logging.Logger
}

// NewFallbackProvider chains primary and secondary. A nil logger discards.
func NewFallbackProvider(primary, secondary Provider, log *logging.Logger) *FallbackProvider {
	if log == nil {
		log = logging.Discard()
	}
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
		log:       log.With("provider", "auto"),
	}
}

// Name implements Provider.
func (p *FallbackProvider) Name() string {
	return p.primary.Name() + "/" + p.secondary.Name()
}

// Available implements Provider.
func (p *FallbackProvider) Available(body Body) bool {
	return p.primary.Available(body) || p.secondary.Available(body)
}

// primaryShare is the part of the caller's remaining deadline the primary
// may use. The rest is left for the secondary.
const primaryShare = 2

// primaryContext bounds the primary lookup to a share of ctx's remaining
// deadline. Without a deadline the primary's own timeout applies.
func primaryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Until(deadline)/primaryShare)
}

// Position implements Provider.
func (p *FallbackProvider) Position(ctx context.Context, q Query) (orient.CelestialPosition, error) {
	if p.primary.Available(q.Body) {
		pctx, cancel := primaryContext(ctx)
		pos, err := p.primary.Position(pctx, q)
		cancel()
		if err == nil {
			return pos, nil
		}
		if ctx.Err() != nil {
			return orient.CelestialPosition{}, ctx.Err()
		}
		p.log.Warn("%s position for %v failed, using %s: %v", p.primary.Name(), q.Body, p.secondary.Name(), err)
	}
	return p.secondary.Position(ctx, q)
}

// Path implements Provider.
func (p *FallbackProvider) Path(ctx context.Context, q Query, end time.Time, step time.Duration) ([]Point, error) {
	if p.primary.Available(q.Body) {
		pctx, cancel := primaryContext(ctx)
		points, err := p.primary.Path(pctx, q, end, step)
		cancel()
		if err == nil {
			return points, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.log.Warn("%s path for %v failed, using %s: %v", p.primary.Name(), q.Body, p.secondary.Name(), err)
	}
	return p.secondary.Path(ctx, q, end, step)
}
