package aggregates

import (
	"context"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/goals"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/quests"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/streak"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

// Snapshot reads outside any transaction and never creates rows: a week with
// no goal row reports the configured defaults with Persisted false.
func (a *progressAggregate) Snapshot(ctx context.Context, userID uuid.UUID) (domainagg.ProgressSnapshot, error) {
	const op = "Progress.Snapshot"
	var out domainagg.ProgressSnapshot
	if userID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "progress aggregate repos not configured", nil)
	}
	r := a.deps.Repos
	dbc := dbctx.Context{Ctx: ctx}
	today := a.deps.Base.Clock.Now()

	st, err := r.Streaks.GetByUserID(dbc, userID)
	if err != nil {
		return out, MapError(op, err)
	}
	if st == nil {
		return out, domainagg.NewError(domainagg.CodeNotFound, op, "streak not found", nil)
	}

	weekStart := goals.WeekStart(today, a.cfg.Goals.StartDay())
	g, err := r.Goals.GetByWeek(dbc, userID, weekStart)
	if err != nil {
		return out, MapError(op, err)
	}
	week := domainagg.GoalProgress{Persisted: g != nil}
	if g != nil {
		week.Goal = *g
	} else {
		week.Goal = goals.New(userID, weekStart, a.cfg.Goals)
	}
	week.ApplicationsPercent = goals.Percent(week.Goal.ApplicationsCurrent, week.Goal.ApplicationsTarget)
	week.OutreachPercent = goals.Percent(week.Goal.OutreachCurrent, week.Goal.OutreachTarget)
	week.ApplicationsComplete = goals.ApplicationsComplete(week.Goal)
	week.OutreachComplete = goals.OutreachComplete(week.Goal)
	week.DaysRemaining = goals.DaysRemaining(weekStart, today)

	completed, err := r.Quests.CompletedIDs(dbc, userID)
	if err != nil {
		return out, MapError(op, err)
	}
	catalog := quests.Catalog()
	questList := make([]domainagg.QuestStatus, 0, len(catalog))
	for _, q := range catalog {
		questList = append(questList, domainagg.QuestStatus{ID: q.ID, Title: q.Title, Points: q.Points, Completed: completed[q.ID]})
	}

	unread, err := r.Notifications.UnreadCount(dbc, userID)
	if err != nil {
		return out, MapError(op, err)
	}

	out = domainagg.ProgressSnapshot{
		UserID:            userID,
		Streak:            *st,
		Level:             tracker.Level(st.TotalPoints),
		PointsToNextLevel: tracker.PointsToNextLevel(st.TotalPoints),
		Week:              week,
		Quests:            questList,
		UnreadCount:       unread,
		AtRisk:            streak.AtRisk(*st, today),
	}
	out.Streak.CurrentStreak = streak.Effective(*st, today)
	return out, nil
}
