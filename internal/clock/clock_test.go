package clock

import (
	"errors"
	"testing"
	"time"
)

func TestCivil_UTC(t *testing.T) {
	tests := []struct {
		name  string
		civil Civil
		want  time.Time
	}{
		{
			name:  "utc",
			civil: Civil{Year: 2024, Month: 6, Day: 21, Hour: 12},
			want:  time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "cet with dst",
			civil: Civil{Year: 2024, Month: 6, Day: 21, Hour: 14, Minute: 30, TZOffsetHours: 1, DST: true},
			want:  time.Date(2024, 6, 21, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "west of greenwich crosses midnight",
			civil: Civil{Year: 2024, Month: 12, Day: 31, Hour: 22, TZOffsetHours: -5},
			want:  time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "half hour offset",
			civil: Civil{Year: 2024, Month: 1, Day: 1, Hour: 5, Minute: 30, TZOffsetHours: 5.5},
			want:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.civil.UTC(); !got.Equal(tt.want) {
				t.Errorf("UTC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromTime_RoundTrip(t *testing.T) {
	tests := []time.Time{
		time.Date(2024, 6, 21, 14, 30, 5, 0, time.FixedZone("CEST", 2*3600)),
		time.Date(2024, 1, 10, 8, 0, 0, 0, time.FixedZone("EST", -5*3600)),
		time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC),
	}

	for _, tm := range tests {
		c := FromTime(tm)
		if got := c.UTC(); !got.Equal(tm) {
			t.Errorf("FromTime(%v).UTC() = %v", tm, got)
		}
	}
}

func TestCivil_Validate(t *testing.T) {
	tests := []struct {
		name    string
		civil   Civil
		wantErr error
	}{
		{"ok", Civil{Year: 2024, Month: 2, Day: 29, Hour: 23, Minute: 59, Second: 59}, nil},
		{"not leap year", Civil{Year: 2023, Month: 2, Day: 29}, ErrInvalidDate},
		{"month 13", Civil{Year: 2024, Month: 13, Day: 1}, ErrInvalidDate},
		{"hour 24", Civil{Year: 2024, Month: 1, Day: 1, Hour: 24}, ErrInvalidTime},
		{"offset too far", Civil{Year: 2024, Month: 1, Day: 1, TZOffsetHours: 15}, ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.civil.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		format  string
		want    time.Time
		wantErr bool
	}{
		{"21/06/2024", "dd/mm/yyyy", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), false},
		{"06/21/2024", "MM/dd/yyyy", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), false},
		{"2024-06-21", "yyyy-mm-dd", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), false},
		{"21.6.2024", "d.m.yyyy", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), false},
		{"21-06-2024", "dd/mm/yyyy", time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), false},
		{" 01/01/2000 ", "dd/mm/yyyy", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"31/02/2024", "dd/mm/yyyy", time.Time{}, true},
		{"21/06", "dd/mm/yyyy", time.Time{}, true},
		{"aa/06/2024", "dd/mm/yyyy", time.Time{}, true},
		{"21/06/2024", "dd/dd/yyyy", time.Time{}, true},
		{"21/06/2024", "dd/mm", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input+"_"+tt.format, func(t *testing.T) {
			got, err := ParseDate(tt.input, tt.format)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("ParseDate(%q, %q) error = %v, want ErrInvalidDate", tt.input, tt.format, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q, %q) error: %v", tt.input, tt.format, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q, %q) = %v, want %v", tt.input, tt.format, got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	day := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"12:34:56", time.Date(2024, 6, 21, 12, 34, 56, 0, time.UTC), false},
		{"00:00:00", day, false},
		{"7:05:09", time.Date(2024, 6, 21, 7, 5, 9, 0, time.UTC), false},
		{"24:00:00", time.Time{}, true},
		{"12:60:00", time.Time{}, true},
		{"12:30", time.Time{}, true},
		{"noon", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTime(tt.input, day)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Errorf("ParseTime(%q) error = %v, want ErrInvalidTime", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTime(%q) error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		format string
		want   string
	}{
		{"dd/mm/yyyy", "01/06/2024"},
		{"MM/DD/YYYY", "06/01/2024"},
		{"yyyy-mm-dd", "2024-06-01"},
		{"bogus", "01/06/2024"},
	}

	for _, tt := range tests {
		if got := FormatDate(d, tt.format); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}

	// Formatting and parsing with the same pattern round-trips.
	got, err := ParseDate(FormatDate(d, "mm.dd.yyyy"), "mm.dd.yyyy")
	if err != nil || !got.Equal(d) {
		t.Errorf("round trip = %v, %v", got, err)
	}
}

func TestCivil_WithDateAndClock(t *testing.T) {
	c := Civil{TZOffsetHours: 2}
	c = c.WithDate(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC))
	c = c.WithClock(time.Date(1, 1, 1, 14, 0, 0, 0, time.UTC))

	want := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	if got := c.UTC(); !got.Equal(want) {
		t.Errorf("UTC() = %v, want %v", got, want)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"dd/mm/yyyy", "M/d/yyyy", "yyyy.mm.dd"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	for _, f := range []string{"", "dd/mm", "dd/xx/yyyy", "dd/mm/dd", "dm/mm/yyyy"} {
		if err := ValidateFormat(f); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ValidateFormat(%q) = %v, want ErrInvalidDate", f, err)
		}
	}
}
