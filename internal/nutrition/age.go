package nutrition

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for birth dates and plan dates.
const DateLayout = "2006-01-02"

// ParseBirthDate parses YYYY-MM-DD. An empty string yields the zero time.
func ParseBirthDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid birth date %q: %w", raw, err)
	}
	return t, nil
}

// Age returns whole years elapsed between birth and today.
// A zero birth date yields 0.
func Age(birth, today time.Time) int {
	if birth.IsZero() {
		return 0
	}

	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	return years
}
