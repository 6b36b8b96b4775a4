package schedule

import (
	"fmt"
	"strings"
)

// Day is a day of the week in the schedule's weekly cycle.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayTokens = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// ParseDay converts a client day token (mon..sun) into a Day.
func ParseDay(s string) (Day, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for i, t := range dayTokens {
		if token == t {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown day %q", ErrInvalidDay, s)
}

func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayTokens[d]
}

// DaySet is a weekly day-flag set indexed by Day.
type DaySet [7]bool

// Contains reports whether the set includes the given day.
func (ds DaySet) Contains(d Day) bool {
	if d < Monday || d > Sunday {
		return false
	}
	return ds[d]
}
