package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownFormat is returned for unsupported export formats.
var ErrUnknownFormat = errors.New("unknown track format")

// Format is a track export encoding.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat parses an export format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write encodes samples to w.
func Write(w io.Writer, f Format, samples []Sample) error {
	switch f {
	case FormatCSV:
		if err := gocsv.Marshal(samples, w); err != nil {
			return fmt.Errorf("writing csv track: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(samples); err != nil {
			return fmt.Errorf("writing json track: %w", err)
		}
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json") // Use json tags for MessagePack
		if err := enc.Encode(samples); err != nil {
			return fmt.Errorf("writing msgpack track: %w", err)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	return nil
}
