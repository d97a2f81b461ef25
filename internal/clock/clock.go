// Package clock handles the observer's civil time: wall-clock fields with a
// timezone offset and DST flag, and locale-style short date strings.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultDateFormat is the short date pattern used when none is configured.
const DefaultDateFormat = "dd/mm/yyyy"

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time")
)

// Civil is a local wall-clock reading. TZOffsetHours is the standard offset
// east of UTC (+1 for CET, -5 for EST); DST adds one more hour on top.
type Civil struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int

	TZOffsetHours float64
	DST           bool
}

// UTC converts the wall-clock reading to an instant.
func (c Civil) UTC() time.Time {
	wall := time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC)
	shift := time.Duration(c.TZOffsetHours * float64(time.Hour))
	if c.DST {
		shift += time.Hour
	}
	return wall.Add(-shift)
}

// Validate reports whether the fields name a real calendar date and time.
func (c Civil) Validate() error {
	if !validDate(c.Year, c.Month, c.Day) {
		return fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, c.Year, c.Month, c.Day)
	}
	if !validClock(c.Hour, c.Minute, c.Second) {
		return fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTime, c.Hour, c.Minute, c.Second)
	}
	if c.TZOffsetHours < -12 || c.TZOffsetHours > 14 {
		return fmt.Errorf("%w: timezone offset %v out of range", ErrInvalidTime, c.TZOffsetHours)
	}
	return nil
}

func (c Civil) String() string {
	s := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d UTC%+g",
		c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second, c.TZOffsetHours)
	if c.DST {
		s += " DST"
	}
	return s
}

// FromTime reads t's wall clock in its own location. When t falls in DST the
// extra hour is split out of the offset into the DST flag.
func FromTime(t time.Time) Civil {
	_, offset := t.Zone()
	hours := float64(offset) / 3600
	dst := t.IsDST()
	if dst {
		hours--
	}
	return Civil{
		Year:          t.Year(),
		Month:         int(t.Month()),
		Day:           t.Day(),
		Hour:          t.Hour(),
		Minute:        t.Minute(),
		Second:        t.Second(),
		TZOffsetHours: hours,
		DST:           dst,
	}
}

// WithDate returns c with the calendar fields taken from d.
func (c Civil) WithDate(d time.Time) Civil {
	c.Year, c.Month, c.Day = d.Year(), int(d.Month()), d.Day()
	return c
}

// WithClock returns c with the time-of-day fields taken from t.
func (c Civil) WithClock(t time.Time) Civil {
	c.Hour, c.Minute, c.Second = t.Hour(), t.Minute(), t.Second()
	return c
}

// ParseDate parses a short date such as "21/06/2024" using a pattern built
// from dd, mm and yyyy. The pattern fixes field order only; the input may use
// any of '/', '-' or '.' as separator. The result is midnight UTC.
func ParseDate(s, format string) (time.Time, error) {
	order, err := fieldOrder(format)
	if err != nil {
		return time.Time{}, err
	}

	parts := splitDate(strings.TrimSpace(s))
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q does not match %q", ErrInvalidDate, s, format)
	}

	var day, month, year int
	for i, field := range order {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
		}
		switch field {
		case 'd':
			day = n
		case 'm':
			month = n
		case 'y':
			year = n
		}
	}

	if !validDate(year, month, day) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ParseTime parses "HH:mm:ss" and places it on day's calendar date in day's
// location.
func ParseTime(s string, day time.Time) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q, want HH:mm:ss", ErrInvalidTime, s)
	}

	var hms [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTime, s, err)
		}
		hms[i] = n
	}

	if !validClock(hms[0], hms[1], hms[2]) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	y, m, d := day.Date()
	return time.Date(y, m, d, hms[0], hms[1], hms[2], 0, day.Location()), nil
}

// FormatDate renders t's date with a dd/mm/yyyy style pattern, keeping the
// pattern's own separators.
func FormatDate(t time.Time, format string) string {
	if _, err := fieldOrder(format); err != nil {
		format = DefaultDateFormat
	}

	r := strings.NewReplacer(
		"yyyy", fmt.Sprintf("%04d", t.Year()),
		"mm", fmt.Sprintf("%02d", int(t.Month())),
		"dd", fmt.Sprintf("%02d", t.Day()),
	)
	return r.Replace(strings.ToLower(format))
}

// ValidateFormat reports whether format is a usable short date pattern.
func ValidateFormat(format string) error {
	_, err := fieldOrder(format)
	return err
}

// fieldOrder returns the date fields of format in order as 'd', 'm', 'y'.
func fieldOrder(format string) ([3]byte, error) {
	var order [3]byte
	tokens := splitDate(strings.ToLower(strings.TrimSpace(format)))
	if len(tokens) != 3 {
		return order, fmt.Errorf("%w: unsupported date format %q", ErrInvalidDate, format)
	}

	seen := map[byte]bool{}
	for i, tok := range tokens {
		if tok == "" || strings.Trim(tok, tok[:1]) != "" {
			return order, fmt.Errorf("%w: unsupported date format %q", ErrInvalidDate, format)
		}
		c := tok[0]
		if (c != 'd' && c != 'm' && c != 'y') || seen[c] {
			return order, fmt.Errorf("%w: unsupported date format %q", ErrInvalidDate, format)
		}
		seen[c] = true
		order[i] = c
	}
	return order, nil
}

func splitDate(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
}

func validDate(year, month, day int) bool {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}

func validClock(h, m, s int) bool {
	return h >= 0 && h < 24 && m >= 0 && m < 60 && s >= 0 && s < 60
}
