package attendance

import "time"

// Clock supplies the current calendar date used by the "mark only today" rule.
type Clock interface {
	Today() string
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
	Now      func() time.Time // nil means time.Now
}

// Today returns the current date in the clock's location as YYYY-MM-DD.
// PRE: none (nil Location means UTC)
// POST: Returns today's calendar date
func (c SystemClock) Today() string {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(loc).Format(DateLayout)
}

// FixedClock always reports the same date. Used by tests and replays.
type FixedClock string

// Today returns the fixed date.
func (c FixedClock) Today() string { return string(c) }
