package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day is the length of one whole day used for ages and windows.
const Day = 24 * time.Hour

// relativeTimeRe captures "N [units] ago", e.g. "2 years ago" or "1 week ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 years ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.Add(time.Duration(-value) * 7 * Day), nil
	case "day":
		return now.Add(time.Duration(-value) * Day), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	default: // minute
		return now.Add(time.Duration(-value) * time.Minute), nil
	}
}

// ParseReferenceTime resolves the --as-of value. An empty string or "now"
// yields now; otherwise the value must be RFC3339 or "N [units] ago".
func ParseReferenceTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference time '%s'. Expected absolute ISO8601 or 'N [units] ago'", s)
	}
	return t, nil
}

// WindowStart returns the lower bound of the trailing window [now-days, now].
func WindowStart(now time.Time, recentDays int) time.Time {
	return now.Add(-time.Duration(recentDays) * Day)
}
