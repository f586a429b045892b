package goals

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

type Counter string

const (
	CounterApplication Counter = "application"
	CounterOutreach    Counter = "outreach"
)

func CounterFor(kind tracker.EventKind) (Counter, bool) {
	switch kind.GoalCounter() {
	case "application":
		return CounterApplication, true
	case "outreach":
		return CounterOutreach, true
	}
	return "", false
}

type Defaults struct {
	ApplicationsTarget int
	OutreachTarget     int
	// WeekStartDay nil means Monday.
	WeekStartDay *time.Weekday
}

func DefaultTargets() Defaults {
	return Defaults{ApplicationsTarget: 5, OutreachTarget: 3}
}

func (d Defaults) StartDay() time.Weekday {
	if d.WeekStartDay == nil {
		return time.Monday
	}
	return *d.WeekStartDay
}

// WeekStart returns the start-of-week day on or before date.
func WeekStart(date time.Time, start time.Weekday) time.Time {
	d := tracker.Day(date)
	back := (int(d.Weekday()) - int(start) + 7) % 7
	return d.AddDate(0, 0, -back)
}

// New builds the bucket for a week that has no row yet.
func New(userID uuid.UUID, weekStart time.Time, d Defaults) tracker.WeeklyGoal {
	return tracker.WeeklyGoal{
		UserID:             userID,
		WeekStart:          tracker.Day(weekStart),
		ApplicationsTarget: d.ApplicationsTarget,
		OutreachTarget:     d.OutreachTarget,
	}
}

// Apply increments the counter and reports whether this increment is the
// one that reached the target. Counters never decrease on this path.
func Apply(g *tracker.WeeklyGoal, c Counter, now time.Time) (bool, error) {
	var current, target *int
	switch c {
	case CounterApplication:
		current, target = &g.ApplicationsCurrent, &g.ApplicationsTarget
	case CounterOutreach:
		current, target = &g.OutreachCurrent, &g.OutreachTarget
	default:
		return false, fmt.Errorf("unknown goal counter %q", c)
	}
	*current++
	g.UpdatedAt = now.UTC()
	return *current == *target, nil
}

func Percent(current, target int) int {
	if target <= 0 || current <= 0 {
		return 0
	}
	p := current * 100 / target
	if p > 100 {
		return 100
	}
	return p
}

func ApplicationsComplete(g tracker.WeeklyGoal) bool {
	return g.ApplicationsCurrent >= g.ApplicationsTarget
}

func OutreachComplete(g tracker.WeeklyGoal) bool {
	return g.OutreachCurrent >= g.OutreachTarget
}

// DaysRemaining counts today through the last day of the week.
func DaysRemaining(weekStart, today time.Time) int {
	left := 7 - tracker.DaysBetween(weekStart, today)
	switch {
	case left < 0:
		return 0
	case left > 7:
		return 7
	}
	return left
}
