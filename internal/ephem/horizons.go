package ephem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-skydome/internal/angle"
	"github.com/litescript/ls-skydome/internal/astro"
	"github.com/litescript/ls-skydome/internal/logging"
	"github.com/litescript/ls-skydome/internal/orient"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// DefaultCacheTTL is how long to cache path data before refetching.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultRequestTimeout is the HTTP request timeout.
	DefaultRequestTimeout = 30 * time.Second

	// positionWindow is the span fetched for a single position lookup.
	positionWindow = time.Hour

	// maxCachedPaths caps the path cache. The oldest fetch goes first.
	maxCachedPaths = 48
)

// horizonsCommand maps bodies to Horizons COMMAND ids.
var horizonsCommand = map[Body]string{
	BodySun:  "10",
	BodyMoon: "301",
}

// HorizonsProvider queries JPL Horizons for Sun and Moon positions.
type HorizonsProvider struct {
	client  *http.Client
	baseURL string
	ttl     time.Duration
	log     *logging.Logger

	// Path cache
	mu        sync.RWMutex
	pathCache map[pathKey]*cachedPath
	stored    uint64
}

type pathKey struct {
	body  Body
	start int64
	end   int64
	step  time.Duration
}

// cachedPath stores a cached trajectory.
type cachedPath struct {
	points    []Point
	observer  astro.Observer
	fetchedAt time.Time
	seq       uint64
}

// NewHorizonsProvider creates a new Horizons API client. Zero options fall
// back to the public endpoint and default timeouts.
func NewHorizonsProvider(opts Options) *HorizonsProvider {
	if opts.HorizonsURL == "" {
		opts.HorizonsURL = HorizonsAPIURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &HorizonsProvider{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:   opts.HorizonsURL,
		ttl:       opts.CacheTTL,
		log:       opts.Logger.With("provider", "horizons"),
		pathCache: make(map[pathKey]*cachedPath),
	}
}

// Name implements Provider.
func (p *HorizonsProvider) Name() string {
	return "Horizons"
}

// Available implements Provider. Fixed sky points have no Horizons id.
func (p *HorizonsProvider) Available(body Body) bool {
	_, ok := horizonsCommand[body]
	return ok
}

// Position implements Provider. It fetches the hour around q.Time at
// one-minute steps and interpolates, so later lookups in that hour are served
// from the path cache.
func (p *HorizonsProvider) Position(ctx context.Context, q Query) (orient.CelestialPosition, error) {
	if !p.Available(q.Body) {
		return orient.CelestialPosition{}, fmt.Errorf("%w: %v", ErrUnsupportedBody, q.Body)
	}

	start := q.Time.Truncate(positionWindow)
	points, err := p.Path(ctx, q.At(start), start.Add(positionWindow), time.Minute)
	if err != nil {
		return orient.CelestialPosition{}, err
	}
	return interpolate(points, q.Time)
}

// interpolate returns the position at t, linear between the surrounding
// points. Azimuth takes the short way across north. Times outside the path
// clamp to its ends.
func interpolate(points []Point, t time.Time) (orient.CelestialPosition, error) {
	if len(points) == 0 {
		return orient.CelestialPosition{}, ErrNoData
	}
	if !t.After(points[0].Time) {
		return points[0].Position, nil
	}

	for i := 1; i < len(points); i++ {
		b := points[i]
		if t.After(b.Time) {
			continue
		}
		a := points[i-1]
		f := float64(t.Sub(a.Time)) / float64(b.Time.Sub(a.Time))

		dAz := angle.Normalize(b.Position.Azimuth - a.Position.Azimuth)
		if dAz > 180 {
			dAz -= angle.FullTurn
		}
		return orient.CelestialPosition{
			Elevation: a.Position.Elevation + f*(b.Position.Elevation-a.Position.Elevation),
			Azimuth:   angle.Normalize(a.Position.Azimuth + f*dAz),
		}, nil
	}
	return points[len(points)-1].Position, nil
}

// Path implements Provider.
// Returns a cached path if available, otherwise queries Horizons.
func (p *HorizonsProvider) Path(ctx context.Context, q Query, end time.Time, step time.Duration) ([]Point, error) {
	if _, err := pathTimes(q.Time, end, step); err != nil {
		return nil, err
	}

	key := pathKey{body: q.Body, start: q.Time.Unix(), end: end.Unix(), step: step}

	// Check cache
	p.mu.RLock()
	cached, ok := p.pathCache[key]
	p.mu.RUnlock()

	if ok && time.Since(cached.fetchedAt) < p.ttl && observerMatch(cached.observer, q.Observer) {
		return cached.points, nil
	}

	// Query fresh data
	points, err := p.queryHorizons(ctx, q.Body, q.Time, end, step, q.Observer)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w for %v", ErrNoData, q.Body)
	}

	p.storePath(key, &cachedPath{
		points:    points,
		observer:  q.Observer,
		fetchedAt: time.Now(),
	})

	return points, nil
}

// storePath caches a path, dropping expired entries and then the earliest
// stored ones beyond maxCachedPaths.
func (p *HorizonsProvider) storePath(key pathKey, c *cachedPath) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for k, v := range p.pathCache {
		if c.fetchedAt.Sub(v.fetchedAt) >= p.ttl {
			delete(p.pathCache, k)
		}
	}
	p.stored++
	c.seq = p.stored
	p.pathCache[key] = c

	for len(p.pathCache) > maxCachedPaths {
		var oldest pathKey
		oldestSeq := c.seq
		for k, v := range p.pathCache {
			if v.seq < oldestSeq {
				oldest, oldestSeq = k, v.seq
			}
		}
		delete(p.pathCache, oldest)
	}
}

// cachedPaths returns the number of cached paths.
func (p *HorizonsProvider) cachedPaths() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pathCache)
}

// InvalidateCache clears every cached path.
func (p *HorizonsProvider) InvalidateCache() {
	p.mu.Lock()
	p.pathCache = make(map[pathKey]*cachedPath)
	p.mu.Unlock()
}

// queryHorizons makes a request to the Horizons API.
func (p *HorizonsProvider) queryHorizons(ctx context.Context, body Body, start, end time.Time, step time.Duration, obs astro.Observer) ([]Point, error) {
	command, ok := horizonsCommand[body]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBody, body)
	}

	// Build request parameters - values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%s'", command))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "OBSERVER")
	params.Set("CENTER", "'coord@399'")
	params.Set("COORD_TYPE", "GEODETIC")
	params.Set("SITE_COORD", fmt.Sprintf("'%.4f,%.4f,0.1'", obs.LonDeg, obs.LatDeg))
	params.Set("START_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(start)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(end)))
	params.Set("STEP_SIZE", fmt.Sprintf("'%s'", formatStepSize(step)))
	params.Set("QUANTITIES", "'4'") // 4=Apparent Az/El

	reqURL := p.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build horizons request: %w", err)
	}

	p.log.Debug("querying %v from %s to %s", body, formatHorizonsTime(start), formatHorizonsTime(end))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("horizons request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseHorizonsResponse(data)
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseHorizonsResponse parses the Horizons JSON response.
func parseHorizonsResponse(body []byte) ([]Point, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("horizons error: %s", resp.Error)
	}

	// The actual ephemeris data is in resp.Result as a text blob
	return parseEphemerisTable(resp.Result)
}

// parseEphemerisTable extracts ephemeris points from the Horizons text output.
func parseEphemerisTable(result string) ([]Point, error) {
	var points []Point

	// Find the data section between $$SOE and $$EOE markers
	soeIdx := strings.Index(result, "$$SOE")
	eoeIdx := strings.Index(result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return nil, fmt.Errorf("%w: could not find ephemeris data markers", ErrNoData)
	}

	dataSection := result[soeIdx+5 : eoeIdx]
	lines := strings.Split(dataSection, "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		point, err := parseEphemerisLine(line)
		if err != nil {
			continue // Skip unparseable lines
		}
		points = append(points, point)
	}

	return points, nil
}

// parseEphemerisLine parses a single ephemeris data line.
// Format for QUANTITIES='4' (Az/El):
// 2025-Dec-05 00:00 *   261.032124  32.878027
// Fields: date, time, flags, azimuth, elevation
func parseEphemerisLine(line string) (Point, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Point{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	// Parse date/time (first two fields)
	dateStr := fields[0] + " " + fields[1]
	t, err := parseHorizonsDateTime(dateStr)
	if err != nil {
		return Point{}, err
	}

	// Az/El are the first two numeric fields after the flags
	// (*, *m, Cm, Nm, Am, etc.)
	var az, el float64
	numericCount := 0

	for i := 2; i < len(fields); i++ {
		val, err := strconv.ParseFloat(fields[i], 64)
		if err == nil {
			numericCount++
			if numericCount == 1 {
				az = val
			} else if numericCount == 2 {
				el = val
				break
			}
		}
	}

	if numericCount < 2 {
		return Point{}, fmt.Errorf("could not find Az/El values")
	}

	return Point{
		Time:     t,
		Position: orient.CelestialPosition{Elevation: el, Azimuth: az},
	}, nil
}

// parseHorizonsDateTime parses Horizons date format like "2025-Dec-05 00:00".
func parseHorizonsDateTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-Jan-02 15:04", s)
	if err == nil {
		return t.UTC(), nil
	}

	// Try with seconds
	t, err = time.Parse("2006-Jan-02 15:04:05", s)
	if err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// formatHorizonsTime formats a time for Horizons API.
func formatHorizonsTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// formatStepSize formats a duration as a Horizons step size. Horizons steps
// are whole minutes at the finest.
func formatStepSize(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	if minutes >= 60 && minutes%60 == 0 {
		return fmt.Sprintf("%d h", minutes/60)
	}
	return fmt.Sprintf("%d m", minutes)
}

// observerMatch checks if two observers are close enough to share cache.
func observerMatch(a, b astro.Observer) bool {
	const tolerance = 0.1 // degrees
	return math.Abs(a.LatDeg-b.LatDeg) <= tolerance && math.Abs(a.LonDeg-b.LonDeg) <= tolerance
}
