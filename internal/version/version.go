// Package version provides build and version information.
package version

import "fmt"

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Timelapse clock with manual spin, track export (CSV/JSON/msgpack)
// 0.2.0 - JPL Horizons provider with local fallback, YAML config, locale dates
// 0.1.0 - Initial release: orientation transform, Sun/Moon/sky point, dome TUI

// String returns the program name and version, as printed by -version.
func String(program string) string {
	return fmt.Sprintf("%s v%s", program, Version)
}
