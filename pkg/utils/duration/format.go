// ABOUTME: Duration parsing for configuration values
// ABOUTME: Accepts bare seconds, Go duration strings and HH:MM:SS or MM:SS clock notation

package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse converts s to a duration. A bare integer is a number of seconds.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total = total*60 + n
	}

	return time.Duration(total) * time.Second, nil
}

// Human formats d as a short human readable string such as "15 seconds" or "1 hour 30 minutes"
func Human(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return plural(seconds, "second")
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	var parts []string
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}

	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
