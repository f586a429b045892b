package streak

import (
	"errors"
	"testing"
	"time"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordActivity_FirstActivity(t *testing.T) {
	s := &tracker.Streak{}
	res, err := RecordActivity(s, day(2024, 1, 1).Add(15*time.Hour), 10)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !res.Changed || s.CurrentStreak != 1 || s.LongestStreak != 1 || s.TotalPoints != 10 {
		t.Fatalf("first: got=%+v res=%+v", s, res)
	}
	if !s.LastActivityDate.Equal(day(2024, 1, 1)) {
		t.Fatalf("last: want midnight got=%v", s.LastActivityDate)
	}
}

func TestRecordActivity_ConsecutiveThenGap(t *testing.T) {
	last := day(2024, 1, 1)
	s := &tracker.Streak{CurrentStreak: 3, LongestStreak: 3, LastActivityDate: &last}

	if _, err := RecordActivity(s, day(2024, 1, 2), 10); err != nil {
		t.Fatalf("record: %v", err)
	}
	if s.CurrentStreak != 4 || s.LongestStreak != 4 {
		t.Fatalf("consecutive: want current=4 longest=4 got=%d/%d", s.CurrentStreak, s.LongestStreak)
	}
	if _, err := RecordActivity(s, day(2024, 1, 5), 10); err != nil {
		t.Fatalf("record: %v", err)
	}
	if s.CurrentStreak != 1 || s.LongestStreak != 4 {
		t.Fatalf("gap: want current=1 longest=4 got=%d/%d", s.CurrentStreak, s.LongestStreak)
	}
}

func TestRecordActivity_SameDayIdempotent(t *testing.T) {
	s := &tracker.Streak{}
	d := day(2024, 2, 1)
	for i := 0; i < 5; i++ {
		if _, err := RecordActivity(s, d.Add(time.Duration(i)*time.Hour), 10); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if s.CurrentStreak != 1 || s.TotalPoints != 10 {
		t.Fatalf("same day: want current=1 points=10 got=%d/%d", s.CurrentStreak, s.TotalPoints)
	}
}

func TestRecordActivity_BackdatedRejectedWithoutMutation(t *testing.T) {
	last := day(2024, 1, 10)
	s := &tracker.Streak{CurrentStreak: 2, LongestStreak: 5, TotalPoints: 40, LastActivityDate: &last}
	before := *s
	_, err := RecordActivity(s, day(2024, 1, 9), 10)
	if !errors.Is(err, ErrBackdated) {
		t.Fatalf("want ErrBackdated got=%v", err)
	}
	if s.CurrentStreak != before.CurrentStreak || s.TotalPoints != before.TotalPoints || !s.LastActivityDate.Equal(last) {
		t.Fatalf("mutated on error: before=%+v after=%+v", before, *s)
	}
}

func TestRecordActivity_LongestNonDecreasing(t *testing.T) {
	s := &tracker.Streak{}
	dates := []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3), day(2024, 1, 7), day(2024, 1, 8), day(2024, 1, 20)}
	prev := 0
	for _, d := range dates {
		if _, err := RecordActivity(s, d, 1); err != nil {
			t.Fatalf("record: %v", err)
		}
		if s.LongestStreak < prev {
			t.Fatalf("longest decreased: %d -> %d", prev, s.LongestStreak)
		}
		prev = s.LongestStreak
	}
	if s.LongestStreak != 3 || s.CurrentStreak != 1 {
		t.Fatalf("final: want longest=3 current=1 got=%d/%d", s.LongestStreak, s.CurrentStreak)
	}
}

func TestAtRiskAndEffective(t *testing.T) {
	last := day(2024, 1, 1)
	s := tracker.Streak{CurrentStreak: 4, LongestStreak: 4, LastActivityDate: &last}
	if !AtRisk(s, day(2024, 1, 2)) {
		t.Fatalf("want at risk the day after")
	}
	if AtRisk(s, day(2024, 1, 1)) || AtRisk(s, day(2024, 1, 3)) {
		t.Fatalf("at risk on wrong day")
	}
	if Effective(s, day(2024, 1, 2)) != 4 || Effective(s, day(2024, 1, 3)) != 0 {
		t.Fatalf("effective streak wrong")
	}
}

func TestScoring(t *testing.T) {
	sc := DefaultScoring()
	if sc.PointsFor(tracker.EventApplicationCreated) != 10 {
		t.Fatalf("default points: want=10")
	}
	if sc.PointsFor("Unknown") != 0 {
		t.Fatalf("unknown kind: want=0")
	}
}
