package streak

import (
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

// ErrBackdated rejects activity dated before the last recorded activity day.
var ErrBackdated = errors.New("activity predates last recorded activity")

// Scoring maps an event kind to the points its first event of a day earns.
type Scoring map[tracker.EventKind]int

const DefaultPoints = 10

func DefaultScoring() Scoring {
	return Scoring{
		tracker.EventApplicationCreated:       DefaultPoints,
		tracker.EventOutreachSent:             DefaultPoints,
		tracker.EventApplicationStatusChanged: DefaultPoints / 2,
	}
}

func (s Scoring) PointsFor(kind tracker.EventKind) int {
	if p, ok := s[kind]; ok && p >= 0 {
		return p
	}
	return 0
}

type Result struct {
	// Changed is false for a repeat activity on the same day.
	Changed       bool
	PointsAwarded int
}

// RecordActivity advances s for activity on activityDate. points are added only
// when the activity opens a new day. On error s is left untouched.
func RecordActivity(s *tracker.Streak, activityDate time.Time, points int) (Result, error) {
	if s == nil {
		return Result{}, errors.New("streak required")
	}
	day := tracker.Day(activityDate)
	if day.IsZero() {
		return Result{}, errors.New("activity date required")
	}
	if points < 0 {
		points = 0
	}

	if s.LastActivityDate == nil {
		s.CurrentStreak = 1
	} else {
		last := tracker.Day(*s.LastActivityDate)
		switch gap := tracker.DaysBetween(last, day); {
		case gap < 0:
			return Result{}, fmt.Errorf("%w: last=%s got=%s", ErrBackdated, tracker.DayKey(last), tracker.DayKey(day))
		case gap == 0:
			return Result{}, nil
		case gap == 1:
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.TotalPoints += points
	s.LastActivityDate = &day
	return Result{Changed: true, PointsAwarded: points}, nil
}

// AddPoints credits rewards that do not count as activity.
func AddPoints(s *tracker.Streak, points int) {
	if points > 0 {
		s.TotalPoints += points
	}
}

// AtRisk is true when the last activity was yesterday: one idle day ends the run.
func AtRisk(s tracker.Streak, today time.Time) bool {
	if s.CurrentStreak <= 0 || s.LastActivityDate == nil {
		return false
	}
	return tracker.DaysBetween(*s.LastActivityDate, today) == 1
}

// Effective is the streak length as of today: zero once a day has been missed.
func Effective(s tracker.Streak, today time.Time) int {
	if s.LastActivityDate == nil {
		return 0
	}
	if tracker.DaysBetween(*s.LastActivityDate, today) > 1 {
		return 0
	}
	return s.CurrentStreak
}
