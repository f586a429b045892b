package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

// Trigger is a derived-state transition that may produce a notification.
type Trigger interface {
	trigger()
}

type GoalReached struct {
	GoalID    uuid.UUID
	Counter   string
	Target    int
	WeekStart time.Time
}

type QuestCompleted struct {
	CompletionID uuid.UUID
	QuestID      string
	Title        string
	Points       int
}

type FollowUpDue struct {
	OutreachID  uuid.UUID
	ContactName string
	SentDate    time.Time
}

type StreakAtRisk struct {
	Length int
}

func (GoalReached) trigger()    {}
func (QuestCompleted) trigger() {}
func (FollowUpDue) trigger()    {}
func (StreakAtRisk) trigger()   {}

// MaybeNotify builds the notification for trig unless prefs disable its type.
// It does not write; the caller inserts with the returned dedup key and treats
// a unique conflict as already delivered.
func MaybeNotify(userID uuid.UUID, prefs tracker.NotificationPrefs, trig Trigger, today time.Time) (tracker.Notification, bool) {
	n, ok := build(trig, today)
	if !ok || !prefs.Allows(n.Type) {
		return tracker.Notification{}, false
	}
	n.UserID = userID
	return n, true
}

func build(trig Trigger, today time.Time) (tracker.Notification, bool) {
	switch t := trig.(type) {
	case GoalReached:
		noun := "applications"
		if t.Counter == "outreach" {
			noun = "outreach messages"
		}
		return withRelated(tracker.Notification{
			Type:    tracker.NotifyGoalReminder,
			Title:   "Weekly goal reached",
			Message: fmt.Sprintf("You hit your goal of %d %s for the week of %s.", t.Target, noun, tracker.DayKey(t.WeekStart)),
		}, tracker.RelatedGoal, t.GoalID.String(), t.Counter, time.Time{}), true
	case QuestCompleted:
		n := withRelated(tracker.Notification{
			Type:    tracker.NotifyMicroQuest,
			Title:   "Quest complete: " + t.Title,
			Message: fmt.Sprintf("You completed %q and earned %d points.", t.Title, t.Points),
		}, tracker.RelatedMicroQuest, t.CompletionID.String(), "", time.Time{})
		// One quest completes once per user, so the quest id is the identity.
		n.DedupKey = DedupKey(tracker.NotifyMicroQuest, tracker.RelatedMicroQuest, t.QuestID, "", time.Time{})
		return n, true
	case FollowUpDue:
		who := strings.TrimSpace(t.ContactName)
		if who == "" {
			who = "your contact"
		}
		return withRelated(tracker.Notification{
			Type:    tracker.NotifyFollowUp,
			Title:   "Follow-up due",
			Message: fmt.Sprintf("It's time to follow up with %s (message sent %s).", who, tracker.DayKey(t.SentDate)),
		}, tracker.RelatedOutreach, t.OutreachID.String(), "", today), true
	case StreakAtRisk:
		return withRelated(tracker.Notification{
			Type:    tracker.NotifyMotivation,
			Title:   "Keep your streak alive",
			Message: fmt.Sprintf("Your %d-day streak ends tonight. Log one application or message to keep it going.", t.Length),
		}, tracker.RelatedNone, "", "streak_at_risk", today), true
	}
	return tracker.Notification{}, false
}

func withRelated(n tracker.Notification, rt tracker.RelatedType, id, disc string, day time.Time) tracker.Notification {
	n.RelatedType = rt
	if rt != tracker.RelatedNone {
		n.RelatedID = &id
	}
	n.DedupKey = DedupKey(n.Type, rt, id, disc, day)
	return n
}

// DedupKey joins the trigger identity. A non-zero day scopes the key to that
// calendar day; milestones pass the zero time and dedupe forever.
func DedupKey(t tracker.NotificationType, rt tracker.RelatedType, relatedID, discriminator string, day time.Time) string {
	parts := []string{string(t), string(rt), relatedID}
	if discriminator != "" {
		parts = append(parts, discriminator)
	}
	if !day.IsZero() {
		parts = append(parts, tracker.DayKey(day))
	}
	return strings.Join(parts, "|")
}
