package domain

import "time"

// PeriodWindow returns the half-open calendar window [start, end) of the
// period containing ref. Boundaries are derived only from ref and its
// location, never from wall-clock time at call time.
//
// daily: midnight to the following midnight. weekly: ISO week, Monday 00:00
// to the following Monday. monthly: first of the month to the first of the
// next month.
func PeriodWindow(kind PeriodKind, ref time.Time) (time.Time, time.Time) {
	loc := ref.Location()
	switch kind {
	case PeriodWeekly:
		day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case PeriodMonthly:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	default:
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1)
	}
}
