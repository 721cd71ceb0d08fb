// Package timerange holds the calendar and interval primitives used by
// scheduling and payroll: half-open instant ranges, wall-clock times of day,
// civil dates and the day-of-week convention (0 = Sunday).
package timerange

import "time"

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Valid() bool {
	return r.End.After(r.Start)
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether r and o share any instant. Touching ranges
// (r.End == o.Start) do not overlap.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool {
	return !o.Start.Before(r.Start) && !o.End.After(r.End)
}

// Split partitions r into consecutive step-long ranges starting at r.Start.
// A trailing remainder shorter than step is dropped.
func (r Range) Split(step time.Duration) []Range {
	if step <= 0 || !r.Valid() {
		return nil
	}
	var out []Range
	for s := r.Start; !s.Add(step).After(r.End); s = s.Add(step) {
		out = append(out, Range{Start: s, End: s.Add(step)})
	}
	return out
}

// DayOfWeek returns 0 for Sunday through 6 for Saturday, evaluated in t's
// location.
func DayOfWeek(t time.Time) int {
	switch t.Weekday() {
	case time.Sunday:
		return 0
	case time.Monday:
		return 1
	case time.Tuesday:
		return 2
	case time.Wednesday:
		return 3
	case time.Thursday:
		return 4
	case time.Friday:
		return 5
	default:
		return 6
	}
}

// ValidDayOfWeek reports whether d is in 0..6.
func ValidDayOfWeek(d int) bool {
	return d >= 0 && d <= 6
}
