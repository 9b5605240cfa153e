package domain

import "time"

// DateFormat is the canonical wire format for ledger and forecast dates.
const DateFormat = "2006-01-02"

// Day truncates a timestamp to midnight UTC. All dates inside the engine are
// normalized through this so map lookups and equality checks are exact.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date string.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// DateRange is an inclusive calendar-day window.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// NewDateRange normalizes both bounds to day precision.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Validate rejects an inverted window.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return &DateRangeError{Start: r.Start, End: r.End, Reason: "start_date is after end_date"}
	}
	return nil
}

// Days returns the number of simulated days, inclusive of both bounds.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether d falls inside the window.
func (r DateRange) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(r.Start) && !d.After(r.End)
}
