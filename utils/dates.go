// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// SameDay reports local calendar-day equality. Business-day boundaries
// matter to the operator, so this is never an elapsed-24h comparison.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// DayKey renders t's local calendar date as yyyy-mm-dd, the grouping key
// used by the daily report.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
