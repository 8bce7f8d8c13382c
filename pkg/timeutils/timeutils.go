package timeutils

import (
	"time"

	"github.com/dustin/go-humanize"
)

// TrendingWindow is how far back review activity counts towards trending and
// favorite-genre rankings.
const TrendingWindow = 30 * 24 * time.Hour

// FromEpoch converts a ratings.timestamp value (unix seconds) to UTC time.
func FromEpoch(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}

// FormatTimestamp renders unix seconds the way review lists display them,
// e.g. "Mar 4, 2024, 9:05 PM".
func FormatTimestamp(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	return FromEpoch(seconds).Format("Jan 2, 2006, 3:04 PM")
}

// Relative returns a human description of seconds relative to now ("3 days ago").
func Relative(seconds int64, now time.Time) string {
	if seconds <= 0 {
		return ""
	}
	return humanize.RelTime(FromEpoch(seconds), now, "ago", "from now")
}

// WindowStart returns the unix second marking the start of the trending window ending at now.
func WindowStart(now time.Time) int64 {
	return now.Add(-TrendingWindow).Unix()
}
