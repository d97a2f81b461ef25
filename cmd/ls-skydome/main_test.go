package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-skydome/internal/clock"
	"github.com/litescript/ls-skydome/internal/track"
)

func TestParseTrackEnd(t *testing.T) {
	// 06:00 local at UTC+2, i.e. 04:00 UTC.
	start := clock.Civil{Year: 2024, Month: 6, Day: 21, Hour: 6, TZOffsetHours: 2}
	from := time.Date(2024, 6, 21, 4, 0, 0, 0, time.UTC)

	tests := []struct {
		in      string
		start   clock.Civil
		want    time.Time
		wantErr bool
	}{
		{"", start, from.Add(24 * time.Hour), false},
		{"6h", start, from.Add(6 * time.Hour), false},
		{"90m", start, from.Add(90 * time.Minute), false},
		{"18:00:00", start, time.Date(2024, 6, 21, 16, 0, 0, 0, time.UTC), false},
		{"05:00:00", start, time.Date(2024, 6, 22, 3, 0, 0, 0, time.UTC), false}, // rolls to next day
		{"01:00:00", start, time.Date(2024, 6, 21, 23, 0, 0, 0, time.UTC), false}, // 23:00 UTC the day before, rolled
		{"tomorrow", start, time.Time{}, true},
		{"25:00:00", start, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTrackEnd(tt.in, tt.start)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTrackEnd(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseTrackEnd(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTrackEnd_DST(t *testing.T) {
	// 21:00 CEST is 19:00 UTC.
	start := clock.Civil{Year: 2024, Month: 7, Day: 1, Hour: 20, TZOffsetHours: 1, DST: true}

	got, err := parseTrackEnd("21:00:00", start)
	if err != nil {
		t.Fatalf("parseTrackEnd: %v", err)
	}
	if want := time.Date(2024, 7, 1, 19, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("parseTrackEnd = %v, want %v", got, want)
	}
}

func TestWriteSample(t *testing.T) {
	s := track.Sample{
		Time:      time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
		Body:      "sun",
		Elevation: 45,
		Azimuth:   90,
		Pitch:     45,
	}

	tests := []struct {
		name       string
		once, dms  bool
		want       []string
		wantAbsent []string
	}{
		{
			name: "once",
			once: true,
			want: []string{"2024-06-21T12:00:00Z sun El:45.000° Az:90.000° -> P:45.000° R:0.000° Y:0.000°"},
		},
		{
			name:       "dms only",
			dms:        true,
			want:       []string{"El 45°00'00.0\" Az 90°00'00.0\""},
			wantAbsent: []string{"->"},
		},
		{
			name: "both",
			once: true,
			dms:  true,
			want: []string{"El 45°00'00.0\"", "P:45.000°"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			onceMode, dmsMode = tt.once, tt.dms
			defer func() { onceMode, dmsMode = false, false }()

			var buf bytes.Buffer
			writeSample(&buf, s)
			out := buf.String()

			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
			for _, w := range tt.wantAbsent {
				if strings.Contains(out, w) {
					t.Errorf("output %q should not contain %q", out, w)
				}
			}
		})
	}
}
