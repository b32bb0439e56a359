package transaction

import (
	"errors"
	"time"
)

var ErrInvalidPeriod = errors.New("period start cannot be later than its end")

// DatePeriod is a calendar-date range with an optional end. A period without
// an end matches a single date, not an open range.
type DatePeriod struct {
	start time.Time
	end   *time.Time
}

// NewDatePeriod validates that start does not fall after end when end is
// present. Both bounds are reduced to calendar dates.
func NewDatePeriod(start time.Time, end *time.Time) (DatePeriod, error) {
	start = DateOnly(start)

	if end == nil {
		return DatePeriod{start: start}, nil
	}

	e := DateOnly(*end)
	if start.After(e) {
		return DatePeriod{}, ErrInvalidPeriod
	}

	return DatePeriod{start: start, end: &e}, nil
}

func (p DatePeriod) Start() time.Time { return p.start }

// End returns the end date and whether one is set.
func (p DatePeriod) End() (time.Time, bool) {
	if p.end == nil {
		return time.Time{}, false
	}

	return *p.end, true
}

// Contains reports whether date falls inside the period: within [start, end]
// when an end is set, exactly on start otherwise.
func (p DatePeriod) Contains(date time.Time) bool {
	date = DateOnly(date)

	if p.end == nil {
		return date.Equal(p.start)
	}

	return !date.Before(p.start) && !date.After(*p.end)
}

func (p DatePeriod) String() string {
	if p.end == nil {
		return p.start.Format(time.DateOnly)
	}

	return p.start.Format(time.DateOnly) + " - " + p.end.Format(time.DateOnly)
}
