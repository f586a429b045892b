package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/jobtrail-backend/internal/data/repos"
	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/goals"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/notify"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/quests"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/streak"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

// ProgressConfig carries the tunables of derived-state computation.
type ProgressConfig struct {
	Scoring      streak.Scoring
	Goals        goals.Defaults
	ReminderHour int
	BcryptCost   int
}

func DefaultProgressConfig() ProgressConfig {
	return ProgressConfig{
		Scoring:      streak.DefaultScoring(),
		Goals:        goals.DefaultTargets(),
		ReminderHour: 18,
	}
}

func (c ProgressConfig) withDefaults() ProgressConfig {
	d := DefaultProgressConfig()
	if c.Scoring == nil {
		c.Scoring = d.Scoring
	}
	if c.Goals.ApplicationsTarget <= 0 {
		c.Goals.ApplicationsTarget = d.Goals.ApplicationsTarget
	}
	if c.Goals.OutreachTarget <= 0 {
		c.Goals.OutreachTarget = d.Goals.OutreachTarget
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		c.ReminderHour = d.ReminderHour
	}
	return c
}

type ProgressAggregateDeps struct {
	Base   BaseDeps
	Repos  repos.Set
	Config ProgressConfig
}

type progressAggregate struct {
	deps ProgressAggregateDeps
	cfg  ProgressConfig
}

func NewProgressAggregate(deps ProgressAggregateDeps) domainagg.ProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	return &progressAggregate{deps: deps, cfg: deps.Config.withDefaults()}
}

func (a *progressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func (a *progressAggregate) configured() bool {
	r := a.deps.Repos
	return r.Users != nil && r.Streaks != nil && r.Goals != nil && r.Quests != nil &&
		r.Notifications != nil && r.Events != nil && r.Applications != nil &&
		r.Outreach != nil && r.Contacts != nil && r.JobRuns != nil
}

func (a *progressAggregate) SubmitEvent(ctx context.Context, in domainagg.SubmitEventInput) (domainagg.ProgressDelta, error) {
	const op = "Progress.SubmitEvent"
	var out domainagg.ProgressDelta

	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "progress aggregate repos not configured", nil)
	}
	ev := &tracker.ActivityEvent{
		UserID:    in.UserID,
		Kind:      in.Kind,
		EventDate: tracker.Day(in.EventDate),
		Payload:   datatypes.NewJSONType(in.Payload),
		Backfill:  in.Backfill,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		ev.IdempotencyKey = &key
	}
	if err := tracker.ValidateEvent(ev); err != nil {
		return out, MapError(op, err)
	}

	err := executeUserWrite(ctx, a.deps.Base, op, in.UserID.String(), func(dbc dbctx.Context) error {
		out = domainagg.ProgressDelta{}
		r := a.deps.Repos
		now := a.deps.Base.Clock.Now()

		u, err := r.Users.GetByID(dbc, in.UserID)
		if err != nil {
			return err
		}
		if _, err := RequireOwned(u, "user not found"); err != nil {
			return err
		}

		if ev.IdempotencyKey != nil {
			prior, err := r.Events.GetByIdempotencyKey(dbc, in.UserID, *ev.IdempotencyKey)
			if err != nil {
				return err
			}
			if prior != nil {
				st, err := r.Streaks.GetByUserID(dbc, in.UserID)
				if err != nil {
					return err
				}
				out.EventID = prior.ID
				out.Duplicate = true
				if st != nil {
					out.Streak = *st
				}
				return nil
			}
		}

		if err := r.Events.Append(dbc, ev); err != nil {
			return err
		}
		out.EventID = ev.ID
		if err := a.applyTransition(dbc, ev, now); err != nil {
			return err
		}

		st, err := r.Streaks.GetByUserIDForUpdate(dbc, in.UserID)
		if err != nil {
			return err
		}
		st, err = RequireOwned(st, "streak not found")
		if err != nil {
			return err
		}
		expected := st.Version
		dirty := false
		if !ev.Backfill {
			res, err := streak.RecordActivity(st, ev.EventDate, a.cfg.Scoring.PointsFor(ev.Kind))
			if err != nil {
				return err
			}
			out.StreakChanged = res.Changed
			out.PointsAwarded = res.PointsAwarded
			dirty = res.Changed
		}

		prefs := u.NotificationPrefs.Data()
		var pending []*tracker.Notification
		queue := func(trig notify.Trigger) {
			if n, ok := notify.MaybeNotify(in.UserID, prefs, trig, now); ok {
				pending = append(pending, &n)
			}
		}

		if counter, ok := goals.CounterFor(ev.Kind); ok {
			weekStart := goals.WeekStart(ev.EventDate, a.cfg.Goals.StartDay())
			seed := goals.New(in.UserID, weekStart, a.cfg.Goals)
			g, err := r.Goals.GetOrCreate(dbc, &seed)
			if err != nil {
				return err
			}
			reached, err := goals.Apply(g, counter, now)
			if err != nil {
				return InvariantError(err.Error())
			}
			if err := r.Goals.SaveCounters(dbc, g); err != nil {
				return err
			}
			out.Goal = g
			out.GoalReached = reached
			if reached {
				target := g.ApplicationsTarget
				if counter == goals.CounterOutreach {
					target = g.OutreachTarget
				}
				queue(notify.GoalReached{GoalID: g.ID, Counter: string(counter), Target: target, WeekStart: g.WeekStart})
			}
		}

		snap, err := a.questSnapshot(dbc, in.UserID, *st, now)
		if err != nil {
			return err
		}
		completed, err := r.Quests.CompletedIDs(dbc, in.UserID)
		if err != nil {
			return err
		}
		for _, q := range quests.Evaluate(snap, completed) {
			qc := &tracker.QuestCompletion{UserID: in.UserID, QuestID: q.ID, Points: q.Points, CompletedAt: now}
			inserted, err := r.Quests.Insert(dbc, qc)
			if err != nil {
				return err
			}
			if !inserted {
				continue
			}
			streak.AddPoints(st, q.Points)
			dirty = dirty || q.Points > 0
			out.NewQuests = append(out.NewQuests, *qc)
			queue(notify.QuestCompleted{CompletionID: qc.ID, QuestID: q.ID, Title: q.Title, Points: q.Points})
		}

		if dirty {
			if err := a.saveStreak(dbc, st, expected, now); err != nil {
				return err
			}
		}
		out.Streak = *st

		created, err := a.insertNotifications(dbc, pending)
		if err != nil {
			return err
		}
		out.NewNotifications = created
		if err := a.enqueueEmail(dbc, in.UserID, prefs, created, now); err != nil {
			return err
		}
		return r.Users.TouchActivity(dbc, in.UserID, now)
	})
	if err != nil {
		return domainagg.ProgressDelta{}, err
	}
	return out, nil
}

// applyTransition checks the row an event refers to and, for status events,
// moves the application in the same transaction.
func (a *progressAggregate) applyTransition(dbc dbctx.Context, ev *tracker.ActivityEvent, now time.Time) error {
	r := a.deps.Repos
	p := ev.Payload.Data()
	switch ev.Kind {
	case tracker.EventApplicationCreated, tracker.EventApplicationStatusChanged:
		app, err := r.Applications.GetOwned(dbc, ev.UserID, *p.ApplicationID)
		if err != nil {
			return err
		}
		app, err = RequireOwned(app, fmt.Sprintf("application not found: %s", p.ApplicationID))
		if err != nil {
			return err
		}
		if ev.Kind == tracker.EventApplicationCreated {
			return nil
		}
		if err := app.TransitionTo(p.Status, ev.EventDate, now); err != nil {
			return err
		}
		return r.Applications.UpdateStatus(dbc, app)
	case tracker.EventOutreachSent:
		o, err := r.Outreach.GetOwned(dbc, ev.UserID, *p.OutreachID)
		if err != nil {
			return err
		}
		_, err = RequireOwned(o, fmt.Sprintf("outreach not found: %s", p.OutreachID))
		return err
	}
	return nil
}

func (a *progressAggregate) questSnapshot(dbc dbctx.Context, userID uuid.UUID, st tracker.Streak, now time.Time) (quests.Snapshot, error) {
	r := a.deps.Repos
	snap := quests.Snapshot{CurrentStreak: st.CurrentStreak, LongestStreak: st.LongestStreak}

	apps, err := r.Applications.CountByUser(dbc, userID)
	if err != nil {
		return snap, err
	}
	outreach, err := r.Outreach.CountByUser(dbc, userID)
	if err != nil {
		return snap, err
	}
	contacts, err := r.Contacts.CountByUser(dbc, userID)
	if err != nil {
		return snap, err
	}
	interviews, err := r.Applications.CountByStatus(dbc, userID, tracker.StatusInterview, tracker.StatusOffer)
	if err != nil {
		return snap, err
	}
	offers, err := r.Applications.CountByStatus(dbc, userID, tracker.StatusOffer)
	if err != nil {
		return snap, err
	}
	snap.TotalApplications = int(apps)
	snap.TotalOutreach = int(outreach)
	snap.TotalContacts = int(contacts)
	snap.Interviews = int(interviews)
	snap.Offers = int(offers)

	week, err := r.Goals.GetByWeek(dbc, userID, goals.WeekStart(now, a.cfg.Goals.StartDay()))
	if err != nil {
		return snap, err
	}
	if week != nil {
		snap.WeekApplications = week.ApplicationsCurrent
		snap.WeekApplicationsTarget = week.ApplicationsTarget
		snap.WeekOutreach = week.OutreachCurrent
		snap.WeekOutreachTarget = week.OutreachTarget
	}
	return snap, nil
}

func (a *progressAggregate) saveStreak(dbc dbctx.Context, st *tracker.Streak, expected int64, now time.Time) error {
	if err := tracker.ValidateStreak(st); err != nil {
		return err
	}
	ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, st.TableName(), st.ID, expected, map[string]any{
		"current_streak":     st.CurrentStreak,
		"longest_streak":     st.LongestStreak,
		"total_points":       st.TotalPoints,
		"last_activity_date": st.LastActivityDate,
		"updated_at":         now.UTC(),
	})
	if err != nil {
		return err
	}
	if err := RequireCASSuccess(ok, "streak version changed"); err != nil {
		return err
	}
	st.Version = expected + 1
	st.UpdatedAt = now.UTC()
	return nil
}

// insertNotifications writes each pending row and returns only the ones that
// were new; a dedup conflict means the user already has it.
func (a *progressAggregate) insertNotifications(dbc dbctx.Context, pending []*tracker.Notification) ([]tracker.Notification, error) {
	var created []tracker.Notification
	for _, n := range pending {
		inserted, err := a.deps.Repos.Notifications.Insert(dbc, n)
		if err != nil {
			return nil, err
		}
		if inserted {
			created = append(created, *n)
		}
	}
	return created, nil
}

// enqueueEmail records the delivery job in the same transaction. Delivery
// itself happens in the worker and never affects this write.
func (a *progressAggregate) enqueueEmail(dbc dbctx.Context, userID uuid.UUID, prefs tracker.NotificationPrefs, created []tracker.Notification, now time.Time) error {
	if !prefs.EmailEnabled || len(created) == 0 {
		return nil
	}
	payload := domainjobs.NotificationEmailPayload{NotificationIDs: make([]uuid.UUID, 0, len(created))}
	for _, n := range created {
		payload.NotificationIDs = append(payload.NotificationIDs, n.ID)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = a.deps.Repos.JobRuns.Create(dbc, []*domainjobs.JobRun{{
		OwnerUserID: userID,
		JobType:     domainjobs.TypeNotificationEmail,
		RunAfter:    now.UTC(),
		Payload:     datatypes.JSON(raw),
	}})
	return err
}
