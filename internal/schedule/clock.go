package schedule

import (
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay is the exclusive upper bound for a minute-of-day value.
const MinutesPerDay = 24 * 60

// ParseClock converts a 24-hour "HH:MM" clock string into minutes since
// midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: bad clock value %q", ErrInvalidWindow, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseClock12 converts a 12-hour clock string such as "9:10 AM", the format
// the upstream classes API emits, into minutes since midnight.
func ParseClock12(s string) (int, error) {
	t, err := time.Parse("3:04 PM", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad 12-hour clock value %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
