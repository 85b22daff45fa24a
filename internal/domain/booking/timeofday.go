package booking

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock offset from midnight in minutes. Slots are
// half-open [start, end): a booking ending at 10:00 and one starting at
// 10:00 do not collide.
type TimeOfDay int

// MinutesPerDay bounds a TimeOfDay; 24:00 is a valid end-of-day value.
const MinutesPerDay = 24 * 60

// NewTimeOfDay builds a TimeOfDay from hours and minutes.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay. The whole input must be
// consumed; trailing characters are an error.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if hour < 0 || minute < 0 || minute > 59 || hour*60+minute > MinutesPerDay {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return NewTimeOfDay(hour, minute), nil
}

// Valid reports whether t lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= MinutesPerDay
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// Sub returns the number of minutes between t and earlier.
func (t TimeOfDay) Sub(earlier TimeOfDay) int {
	return int(t - earlier)
}

// On anchors the time of day to a calendar date in UTC.
func (t TimeOfDay) On(date time.Time) time.Time {
	day := NormalizeDate(date)
	return day.Add(time.Duration(t) * time.Minute)
}

// String formats the time of day as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON encodes the time of day as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "HH:MM" into the time of day.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any time.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

// NormalizeDate strips the time component, leaving a UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
