package tracker

import "time"

// Day truncates t to midnight UTC. All streak and goal arithmetic uses it.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b (negative when b < a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

func SameDay(a, b time.Time) bool {
	return !a.IsZero() && !b.IsZero() && Day(a).Equal(Day(b))
}

// DayKey renders the day as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return Day(t).Format("2006-01-02")
}
