package clock

import "time"

// DateLayout is the calendar-date format used for join and booking dates
const DateLayout = "2006-01-02"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Today formats the clock's current calendar date in UTC
func Today(c Clock) string {
	return c.Now().UTC().Format(DateLayout)
}

// Millis returns the clock's current instant as Unix milliseconds
func Millis(c Clock) int64 {
	return c.Now().UnixMilli()
}
