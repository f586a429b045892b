package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/notify"
	"github.com/yungbote/jobtrail-backend/internal/modules/progress/streak"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

// RunReminders is safe to call repeatedly: reminder dedup keys carry the
// calendar day, so a second run on the same day inserts nothing.
func (a *progressAggregate) RunReminders(ctx context.Context, userID uuid.UUID, now time.Time) ([]tracker.Notification, error) {
	const op = "Progress.RunReminders"
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if !a.configured() {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "progress aggregate repos not configured", nil)
	}
	if now.IsZero() {
		now = a.deps.Base.Clock.Now()
	}
	now = now.UTC()

	var created []tracker.Notification
	err := executeUserWrite(ctx, a.deps.Base, op, userID.String(), func(dbc dbctx.Context) error {
		created = nil
		r := a.deps.Repos
		u, err := r.Users.GetByID(dbc, userID)
		if err != nil {
			return err
		}
		if _, err := RequireOwned(u, "user not found"); err != nil {
			return err
		}
		prefs := u.NotificationPrefs.Data()
		var pending []*tracker.Notification

		due, err := r.Outreach.ListFollowUpsDue(dbc, userID, now)
		if err != nil {
			return err
		}
		for _, o := range due {
			trig := notify.FollowUpDue{OutreachID: o.ID, SentDate: o.SentDate}
			if o.Contact != nil {
				trig.ContactName = o.Contact.Name
			}
			if n, ok := notify.MaybeNotify(userID, prefs, trig, now); ok {
				pending = append(pending, &n)
			}
		}

		st, err := r.Streaks.GetByUserID(dbc, userID)
		if err != nil {
			return err
		}
		if st != nil && now.Hour() >= a.cfg.ReminderHour && streak.AtRisk(*st, now) {
			if n, ok := notify.MaybeNotify(userID, prefs, notify.StreakAtRisk{Length: st.CurrentStreak}, now); ok {
				pending = append(pending, &n)
			}
		}

		created, err = a.insertNotifications(dbc, pending)
		if err != nil {
			return err
		}
		return a.enqueueEmail(dbc, userID, prefs, created, now)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
