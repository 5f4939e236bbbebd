package plan

import "time"

// Calendar anchors day numbers 1..N to concrete dates of a scheduling month.
// All date arithmetic in the engine goes through it; the wall clock is never
// consulted.
type Calendar struct {
	Year     int
	Month    time.Month
	Location *time.Location
}

// NewCalendar returns a Calendar for the given month in UTC.
func NewCalendar(year int, month time.Month) Calendar {
	return Calendar{Year: year, Month: month, Location: time.UTC}
}

// Date returns the calendar date of the given day number.
func (c Calendar) Date(day int) time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(c.Year, c.Month, day, 0, 0, 0, 0, loc)
}

// IsWeekend reports whether the day falls on Saturday or Sunday.
func (c Calendar) IsWeekend(day int) bool {
	wd := c.Date(day).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
