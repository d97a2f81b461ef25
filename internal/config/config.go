// Package config handles skydome configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-skydome/internal/astro"
	"github.com/litescript/ls-skydome/internal/clock"
	"github.com/litescript/ls-skydome/internal/ephem"
	"github.com/litescript/ls-skydome/internal/logging"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all skydome settings.
type Config struct {
	Observer  astro.Observer  `yaml:"observer"`
	Time      TimeConfig      `yaml:"time"`
	Body      BodyConfig      `yaml:"body"`
	Ephemeris EphemerisConfig `yaml:"ephemeris"`
	Timelapse TimelapseConfig `yaml:"timelapse"`
	UI        UIConfig        `yaml:"ui"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TimeConfig holds the observer's civil time settings. An empty Date or
// Clock means "now".
type TimeConfig struct {
	TZOffsetHours float64 `yaml:"tz_offset_hours"`
	DST           bool    `yaml:"dst"`
	DateFormat    string  `yaml:"date_format"`
	Date          string  `yaml:"date"`
	Clock         string  `yaml:"clock"` // HH:mm:ss
}

// BodyConfig selects what to track. Star takes precedence over RA/Dec for
// sky points.
type BodyConfig struct {
	Name string  `yaml:"name"` // sun, moon or sky
	Star string  `yaml:"star"`
	RA   float64 `yaml:"ra"`
	Dec  float64 `yaml:"dec"`
}

// EphemerisConfig holds position source settings.
type EphemerisConfig struct {
	Mode        string        `yaml:"mode"` // local, horizons or auto
	HorizonsURL string        `yaml:"horizons_url"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// TimelapseConfig holds simulated clock settings.
type TimelapseConfig struct {
	Rate          float64 `yaml:"rate"`             // simulated seconds per wall second
	SpinDegPerSec float64 `yaml:"spin_deg_per_sec"` // manual azimuth spin speed
}

// UIConfig holds terminal display settings.
type UIConfig struct {
	Refresh    time.Duration `yaml:"refresh"`
	ShowStars  bool          `yaml:"show_stars"`
	MaxStarMag float64       `yaml:"max_star_mag"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Observer: astro.Observer{
			LatDeg: 51.4769,
			LonDeg: 0,
			Name:   "Greenwich",
		},
		Time: TimeConfig{
			DateFormat: clock.DefaultDateFormat,
		},
		Body: BodyConfig{
			Name: "sun",
		},
		Ephemeris: EphemerisConfig{
			Mode:        "local",
			HorizonsURL: ephem.HorizonsAPIURL,
			Timeout:     ephem.DefaultRequestTimeout,
			CacheTTL:    ephem.DefaultCacheTTL,
		},
		Timelapse: TimelapseConfig{
			Rate:          1,
			SpinDegPerSec: 15,
		},
		UI: UIConfig{
			Refresh:    time.Second,
			ShowStars:  true,
			MaxStarMag: 2.5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !inRange(c.Observer.LatDeg, -90, 90) {
		add("observer.lat %v outside [-90, 90]", c.Observer.LatDeg)
	}
	if !inRange(c.Observer.LonDeg, -180, 180) {
		add("observer.lon %v outside [-180, 180]", c.Observer.LonDeg)
	}

	if !inRange(c.Time.TZOffsetHours, -12, 14) {
		add("time.tz_offset_hours %v outside [-12, 14]", c.Time.TZOffsetHours)
	}
	if err := clock.ValidateFormat(c.Time.DateFormat); err != nil {
		add("time.date_format: %v", err)
	}
	if _, err := c.Civil(time.Now()); err != nil {
		add("time: %v", err)
	}

	body, err := ephem.ParseBody(c.Body.Name)
	if err != nil {
		add("body.name: %v", err)
	}
	if body == ephem.BodySkyPoint {
		if _, _, err := c.SkyPoint(); err != nil {
			add("body: %v", err)
		}
	}

	switch c.Ephemeris.Mode {
	case "local", "horizons", "auto":
	default:
		add("ephemeris.mode %q (want local, horizons or auto)", c.Ephemeris.Mode)
	}
	if c.Ephemeris.Timeout <= 0 {
		add("ephemeris.timeout must be positive")
	}

	if math.IsNaN(c.Timelapse.Rate) || math.IsInf(c.Timelapse.Rate, 0) {
		add("timelapse.rate must be finite")
	}
	if c.UI.Refresh <= 0 {
		add("ui.refresh must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Civil resolves the configured date and clock against now. Unset fields are
// taken from now as seen at the configured offset.
func (c *Config) Civil(now time.Time) (clock.Civil, error) {
	shift := time.Duration(c.Time.TZOffsetHours * float64(time.Hour))
	if c.Time.DST {
		shift += time.Hour
	}
	wall := now.UTC().Add(shift)

	civil := clock.FromTime(wall)
	civil.TZOffsetHours = c.Time.TZOffsetHours
	civil.DST = c.Time.DST

	if c.Time.Date != "" {
		d, err := clock.ParseDate(c.Time.Date, c.Time.DateFormat)
		if err != nil {
			return clock.Civil{}, err
		}
		civil = civil.WithDate(d)
	}
	if c.Time.Clock != "" {
		t, err := clock.ParseTime(c.Time.Clock, wall)
		if err != nil {
			return clock.Civil{}, err
		}
		civil = civil.WithClock(t)
	}
	return civil, nil
}

// SkyPoint returns the configured fixed point's RA/Dec in degrees.
func (c *Config) SkyPoint() (raDeg, decDeg float64, err error) {
	if c.Body.Star != "" {
		star, ok := astro.FindStar(c.Body.Star)
		if !ok {
			return 0, 0, fmt.Errorf("unknown star %q", c.Body.Star)
		}
		return star.RAdeg, star.DecDeg, nil
	}
	if !inRange(c.Body.RA, 0, 360) || c.Body.RA == 360 {
		return 0, 0, fmt.Errorf("ra %v outside [0, 360)", c.Body.RA)
	}
	if !inRange(c.Body.Dec, -90, 90) {
		return 0, 0, fmt.Errorf("dec %v outside [-90, 90]", c.Body.Dec)
	}
	return c.Body.RA, c.Body.Dec, nil
}

// Query builds the ephemeris query for the configured body at now.
func (c *Config) Query(now time.Time) (ephem.Query, error) {
	civil, err := c.Civil(now)
	if err != nil {
		return ephem.Query{}, err
	}
	body, err := ephem.ParseBody(c.Body.Name)
	if err != nil {
		return ephem.Query{}, err
	}

	q := ephem.NewQuery(civil, c.Observer, body)
	if body == ephem.BodySkyPoint {
		q.RAdeg, q.DecDeg, err = c.SkyPoint()
		if err != nil {
			return ephem.Query{}, err
		}
	}
	return q, nil
}

// EphemOptions returns provider options for the ephemeris section.
func (c *Config) EphemOptions(log *logging.Logger) ephem.Options {
	return ephem.Options{
		HorizonsURL: c.Ephemeris.HorizonsURL,
		Timeout:     c.Ephemeris.Timeout,
		CacheTTL:    c.Ephemeris.CacheTTL,
		Logger:      log,
	}
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
