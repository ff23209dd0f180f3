// Package format renders watch-time and view-count values for display.
package format

import (
	"fmt"
	"math"
)

// WatchTime renders seconds as a compact human-readable duration, e.g.
// "45s", "3m 20s", "2h 5m".
func WatchTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", int(math.Round(seconds)))
	}
	if seconds < 3600 {
		mins := int(seconds) / 60
		secs := int(math.Round(math.Mod(seconds, 60)))
		if secs > 0 {
			return fmt.Sprintf("%dm %ds", mins, secs)
		}
		return fmt.Sprintf("%dm", mins)
	}
	hours := int(seconds) / 3600
	mins := (int(seconds) % 3600) / 60
	if mins > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dh", hours)
}

// ViewCount abbreviates large counts, e.g. "950", "1.2K", "3.4M".
func ViewCount(count uint64) string {
	if count < 1000 {
		return fmt.Sprintf("%d", count)
	}
	if count < 1000000 {
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(count)/1000000)
}
