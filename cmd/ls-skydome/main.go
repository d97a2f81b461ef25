// Command ls-skydome aims a sky dome at the Sun, the Moon or a fixed sky point
// and shows the resulting orientation in a terminal UI or headless output.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-skydome/internal/angle"
	"github.com/litescript/ls-skydome/internal/clock"
	"github.com/litescript/ls-skydome/internal/config"
	"github.com/litescript/ls-skydome/internal/ephem"
	"github.com/litescript/ls-skydome/internal/logging"
	"github.com/litescript/ls-skydome/internal/state"
	"github.com/litescript/ls-skydome/internal/track"
	"github.com/litescript/ls-skydome/internal/ui"
	"github.com/litescript/ls-skydome/internal/version"
)

// CLI flags for headless mode
var (
	onceMode      bool
	dmsMode       bool
	trackMode     bool
	watchInterval time.Duration
	trackEnd      string
	trackStep     time.Duration
	trackSpin     float64
	trackFormat   string
	outPath       string
	saveConfig    bool
)

const (
	minRefresh = 100 * time.Millisecond
	maxRefresh = 5 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML (empty = search ./skydome.yaml, user config dir)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	// Overrides, applied only when set
	lat := flag.Float64("lat", 0, "Observer latitude in degrees (north positive)")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees (east positive)")
	body := flag.String("body", "", "Body to track: sun, moon or sky")
	ra := flag.Float64("ra", 0, "Sky point right ascension in degrees")
	dec := flag.Float64("dec", 0, "Sky point declination in degrees")
	star := flag.String("star", "", "Sky point by star name (implies -body sky)")
	date := flag.String("date", "", "Local date in the configured format (default today)")
	clockStr := flag.String("time", "", "Local time HH:mm:ss (default now)")
	tz := flag.Float64("tz", 0, "Timezone offset from UTC in hours")
	dst := flag.Bool("dst", false, "Daylight saving time is in effect")
	dateFormat := flag.String("date-format", "", "Locale date pattern, e.g. dd/mm/yyyy or mm-dd-yyyy")
	ephemMode := flag.String("ephem", "", "Ephemeris source: local, horizons or auto")
	rate := flag.Float64("rate", 0, "Timelapse rate in simulated seconds per second")
	refresh := flag.Duration("refresh", 0, "UI refresh interval (e.g., 500ms, 2s)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Also write logs to this rotating file")

	flag.BoolVar(&onceMode, "once", false, "Print one orientation line and exit")
	flag.BoolVar(&dmsMode, "dms", false, "Print elevation/azimuth in degrees, minutes, seconds")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat -once/-dms output at interval (e.g., 10s)")
	flag.BoolVar(&trackMode, "track", false, "Export an orientation track")
	flag.StringVar(&trackEnd, "track-end", "", "Track end as a duration from start (e.g., 6h) or HH:mm:ss")
	flag.DurationVar(&trackStep, "track-step", 10*time.Minute, "Track sample interval")
	flag.Float64Var(&trackSpin, "track-spin", 0, "Manual azimuth offset added per track step in degrees")
	flag.StringVar(&trackFormat, "format", "csv", "Track format: csv, json or msgpack")
	flag.StringVar(&outPath, "out", "-", "Track output file (- for stdout)")
	flag.BoolVar(&saveConfig, "save-config", false, "Write the effective config to the user config dir and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("ls-skydome"))
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			cfg.Observer.LatDeg = *lat
		case "lon":
			cfg.Observer.LonDeg = *lon
		case "body":
			cfg.Body.Name = *body
		case "ra":
			cfg.Body.RA = *ra
			cfg.Body.Star = ""
		case "dec":
			cfg.Body.Dec = *dec
			cfg.Body.Star = ""
		case "star":
			cfg.Body.Name = ephem.BodySkyPoint.String()
			cfg.Body.Star = *star
		case "date":
			cfg.Time.Date = *date
		case "time":
			cfg.Time.Clock = *clockStr
		case "tz":
			cfg.Time.TZOffsetHours = *tz
		case "dst":
			cfg.Time.DST = *dst
		case "date-format":
			cfg.Time.DateFormat = *dateFormat
		case "ephem":
			cfg.Ephemeris.Mode = *ephemMode
		case "rate":
			cfg.Timelapse.Rate = *rate
		case "refresh":
			cfg.UI.Refresh = *refresh
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-file":
			cfg.Logging.File = *logFile
		}
	})

	if cfg.UI.Refresh < minRefresh {
		cfg.UI.Refresh = minRefresh
	} else if cfg.UI.Refresh > maxRefresh {
		cfg.UI.Refresh = maxRefresh
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if saveConfig {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved config to %s\n", config.ConfigDir())
		return
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.File != "" {
		logger.SetFile(logging.DefaultFileConfig(cfg.Logging.File))
	}
	defer logger.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	now := time.Now()
	query, err := cfg.Query(now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	mode := ephem.ParseMode(cfg.Ephemeris.Mode)
	provider := ephem.NewProvider(mode, cfg.EphemOptions(logger))
	if !provider.Available(query.Body) {
		fmt.Fprintf(os.Stderr, "Error: %s cannot provide %v\n", provider.Name(), query.Body)
		os.Exit(2)
	}
	logger.Debug("Tracking %v from %.4f, %.4f at %s via %s", query.Body,
		query.Observer.LatDeg, query.Observer.LonDeg, query.Time.Format(time.RFC3339), provider.Name())

	// Initialize components
	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = cfg.UI.Refresh
	stateMgr := state.NewManager(stateCfg)

	timelapse := state.NewTimelapse(query.Time, cfg.Timelapse.Rate)
	tracker := state.NewTracker(stateMgr, provider, query, timelapse)

	// Headless mode: no TUI
	if trackMode {
		start, err := cfg.Civil(now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if err := runTrack(ctx, provider, query, start, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if onceMode || dmsMode {
		runHeadless(ctx, tracker, logger)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Not a terminal; printing one line (use -once, -dms or -track for scripts)")
		onceMode = true
		runHeadless(ctx, tracker, logger)
		return
	}

	// The TUI owns the screen; logs go to the file only
	logger.SetOutput(io.Discard)

	model := ui.New(tracker, ui.Options{
		SpinDegPerSec: cfg.Timelapse.SpinDegPerSec,
		ShowStars:     cfg.UI.ShowStars,
		MaxStarMag:    cfg.UI.MaxStarMag,
		Logger:        logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go runRefreshLoop(ctx, tracker, p, logger)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runRefreshLoop keeps the dome moving when no keys are pressed.
func runRefreshLoop(ctx context.Context, tracker *state.Tracker, p *tea.Program, logger *logging.Logger) {
	ticker := time.NewTicker(tracker.Manager().RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Refresh loop shutting down")
			return
		case <-ticker.C:
			doRefresh(ctx, tracker, p, logger)
		}
	}
}

func doRefresh(ctx context.Context, tracker *state.Tracker, p *tea.Program, logger *logging.Logger) {
	s, err := tracker.Refresh(ctx)
	if err != nil {
		logger.Error("Refresh failed: %v", err)
		p.Send(ui.ErrorMsg{Error: err})
		return
	}

	logger.Debug("%s El %.3f Az %.3f -> P %.3f R %.3f", s.Body, s.Elevation, s.Azimuth, s.Pitch, s.Roll)
	p.Send(ui.DataUpdateMsg{Snapshot: tracker.Manager().Snapshot()})
}

// runHeadless prints the current orientation, once or at the watch interval.
func runHeadless(ctx context.Context, tracker *state.Tracker, logger *logging.Logger) {
	outputOnce := func() error {
		s, err := tracker.Refresh(ctx)
		if err != nil {
			return err
		}
		writeSample(os.Stdout, s)
		return nil
	}

	// Single run
	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode follows the wall clock
	tracker.Clock().Jump(time.Now())
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watch loop shutting down")
			return
		case <-ticker.C:
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func writeSample(w io.Writer, s track.Sample) {
	ts := s.Time.UTC().Format(time.RFC3339)
	if dmsMode {
		fmt.Fprintf(w, "%s %s El %s Az %s\n", ts, s.Body, angle.ToDMS(s.Elevation), angle.ToDMS(s.Azimuth))
		if !onceMode {
			return
		}
	}
	fmt.Fprintf(w, "%s %s %v -> %v\n", ts, s.Body, s.Position(), s.Orientation())
}

// runTrack samples from the query time to -track-end and writes the track.
func runTrack(ctx context.Context, provider ephem.Provider, q ephem.Query, start clock.Civil, logger *logging.Logger) error {
	format, err := track.ParseFormat(trackFormat)
	if err != nil {
		return err
	}

	end, err := parseTrackEnd(trackEnd, start)
	if err != nil {
		return err
	}

	sampler := track.NewSampler(provider, logger)
	samples, err := sampler.Sample(ctx, q, end, trackStep, trackSpin)
	if err != nil {
		return err
	}
	logger.Info("Sampled %d points from %s to %s", len(samples),
		q.Time.Format(time.RFC3339), end.Format(time.RFC3339))

	if outPath == "-" {
		return track.Write(os.Stdout, format, samples)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create track file: %w", err)
	}
	defer f.Close()
	if err := track.Write(f, format, samples); err != nil {
		return fmt.Errorf("write track file: %w", err)
	}
	return f.Close()
}

// parseTrackEnd accepts a duration after start, or a wall-clock time in
// start's zone on start's day. A clock time before start rolls to the next
// day. Empty means one day.
func parseTrackEnd(s string, start clock.Civil) (time.Time, error) {
	from := start.UTC()
	if s == "" {
		return from.Add(24 * time.Hour), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return from.Add(d), nil
	}

	day := time.Date(start.Year, time.Month(start.Month), start.Day, 0, 0, 0, 0, time.UTC)
	t, err := clock.ParseTime(s, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("track end: %w", err)
	}
	end := start.WithClock(t).UTC()
	if end.Before(from) {
		end = end.Add(24 * time.Hour)
	}
	return end, nil
}
