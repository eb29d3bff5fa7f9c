package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NewWindow validates a YYYY-MM-DD range. Both ends are inclusive.
func NewWindow(from, to string) (*Window, error) {
	if _, err := time.Parse(DateLayout, from); err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	if _, err := time.Parse(DateLayout, to); err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	if from > to {
		return nil, fmt.Errorf("from date %s is after to date %s", from, to)
	}
	return &Window{From: from, To: to}, nil
}

// NormalizeOrderDate projects a free-text order date onto YYYY-MM-DD in loc.
// Unparsable or empty values map to SentinelDate.
func NormalizeOrderDate(value string, loc *time.Location) string {
	t, ok := parseOrderDate(value, loc)
	if !ok {
		return SentinelDate
	}
	return t.Format(DateLayout)
}

func parseOrderDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, true
	}

	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(loc), true
}

// secondsOf returns the seconds since midnight of an HH:MM:SS or HH:MM value.
func secondsOf(value *string) (int, bool) {
	if value == nil {
		return 0, false
	}

	v := strings.TrimSpace(*value)
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Hour()*3600 + t.Minute()*60 + t.Second(), true
		}
	}
	return 0, false
}
