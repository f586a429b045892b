package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

func TestMaybeNotify_GoalReachedOnceEver(t *testing.T) {
	user, goal := uuid.New(), uuid.New()
	trig := GoalReached{GoalID: goal, Counter: "application", Target: 5, WeekStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	a, ok := MaybeNotify(user, tracker.NotificationPrefs{}, trig, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	b, _ := MaybeNotify(user, tracker.NotificationPrefs{}, trig, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC))
	require.Equal(t, a.DedupKey, b.DedupKey, "milestone key must not depend on the day")
	require.Equal(t, tracker.NotifyGoalReminder, a.Type)
	require.Equal(t, tracker.RelatedGoal, a.RelatedType)
	require.NoError(t, tracker.ValidateNotification(&a))

	other, _ := MaybeNotify(user, tracker.NotificationPrefs{}, GoalReached{GoalID: goal, Counter: "outreach", Target: 3}, time.Now())
	require.NotEqual(t, a.DedupKey, other.DedupKey)
}

func TestMaybeNotify_RemindersScopedToDay(t *testing.T) {
	user := uuid.New()
	trig := FollowUpDue{OutreachID: uuid.New(), ContactName: "Grace", SentDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	d1, ok := MaybeNotify(user, tracker.NotificationPrefs{}, trig, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	require.True(t, ok)
	d1b, _ := MaybeNotify(user, tracker.NotificationPrefs{}, trig, time.Date(2024, 1, 5, 21, 0, 0, 0, time.UTC))
	d2, _ := MaybeNotify(user, tracker.NotificationPrefs{}, trig, time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC))
	require.Equal(t, d1.DedupKey, d1b.DedupKey)
	require.NotEqual(t, d1.DedupKey, d2.DedupKey)
	require.NoError(t, tracker.ValidateNotification(&d1))

	risk, ok := MaybeNotify(user, tracker.NotificationPrefs{}, StreakAtRisk{Length: 4}, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.Nil(t, risk.RelatedID)
	require.NoError(t, tracker.ValidateNotification(&risk))
}

func TestMaybeNotify_DisabledTypeSkipped(t *testing.T) {
	prefs := tracker.NotificationPrefs{DisabledTypes: []tracker.NotificationType{tracker.NotifyMicroQuest}}
	_, ok := MaybeNotify(uuid.New(), prefs, QuestCompleted{CompletionID: uuid.New(), QuestID: "first_offer", Title: "Offer in Hand", Points: 100}, time.Now())
	require.False(t, ok)
}

func TestMaybeNotify_QuestKeyUsesQuestID(t *testing.T) {
	user := uuid.New()
	a, _ := MaybeNotify(user, tracker.NotificationPrefs{}, QuestCompleted{CompletionID: uuid.New(), QuestID: "first_offer", Title: "Offer in Hand", Points: 100}, time.Now())
	b, _ := MaybeNotify(user, tracker.NotificationPrefs{}, QuestCompleted{CompletionID: uuid.New(), QuestID: "first_offer", Title: "Offer in Hand", Points: 100}, time.Now())
	require.Equal(t, a.DedupKey, b.DedupKey)
	require.Equal(t, "micro_quest|micro_quest|first_offer", a.DedupKey)
}
