package valueobjects

import (
	"fmt"
	"time"
)

// TimeLayout is the literal format for daily trigger times: 24-hour HH:MM.
const TimeLayout = "15:04"

// ClockTime is a value object representing a wall-clock time of day with
// minute precision. It carries no date and no timezone.
type ClockTime struct {
	minuteOfDay int
}

// ParseClockTime parses an HH:MM literal into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{minuteOfDay: t.Hour()*60 + t.Minute()}, nil
}

// ClockTimeOf extracts the wall-clock time of day from a timestamp.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime{minuteOfDay: t.Hour()*60 + t.Minute()}
}

// String returns the HH:MM representation.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.minuteOfDay/60, c.minuteOfDay%60)
}

// MinuteOfDay returns the number of minutes elapsed since midnight.
func (c ClockTime) MinuteOfDay() int {
	return c.minuteOfDay
}

// MinutesApart returns the absolute distance in minutes between two clock
// times as raw minute-of-day subtraction. The distance is NOT corrected for
// midnight rollover: 23:58 and 00:02 are 1436 minutes apart, not 4. This
// mirrors the reference reminder behavior and is relied on by callers.
func (c ClockTime) MinutesApart(other ClockTime) int {
	diff := c.minuteOfDay - other.minuteOfDay
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// Equals checks if two ClockTimes name the same minute.
func (c ClockTime) Equals(other ClockTime) bool {
	return c.minuteOfDay == other.minuteOfDay
}
