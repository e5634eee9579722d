// ABOUTME: Time parsing fallback for feed dates the feed parser could not interpret
// ABOUTME: Tries the RFC layouts feeds use plus a few common sloppy variants

package time

import (
	"strings"
	"time"
)

// Layouts seen in RSS/Atom date fields, most common first
var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02 Jan 2006 15:04:05 MST",
	"02 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 2006 15:04 MST",
	"January 2, 2006",
}

// ParseFeedTime parses a feed date string, reporting false when no layout matches.
// The result is in UTC.
func ParseFeedTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}
