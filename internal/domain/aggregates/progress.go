package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

var ProgressAggregateContract = Contract{
	Name:             "Progress.ProgressAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes: "Owns the event log append together with streak, weekly goal, quest completion and " +
		"notification writes for one user in a single transaction under a per-user lock.",
}

// ProgressAggregate owns derived-state writes for a user.
//
// Write failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeStorage, CodeInternal.
type ProgressAggregate interface {
	Aggregate

	// CreateUser inserts the user and its zeroed streak atomically.
	CreateUser(ctx context.Context, in CreateUserInput) (CreateUserResult, error)

	// SubmitEvent appends an activity event and applies every derived update it causes.
	SubmitEvent(ctx context.Context, in SubmitEventInput) (ProgressDelta, error)

	// Snapshot reads the current derived state. It never writes.
	Snapshot(ctx context.Context, userID uuid.UUID) (ProgressSnapshot, error)

	// RunReminders dispatches follow-up and streak-at-risk notifications due at now.
	RunReminders(ctx context.Context, userID uuid.UUID, now time.Time) ([]tracker.Notification, error)
}

type CreateUserInput struct {
	Email       string
	Password    string
	DisplayName string
	Prefs       tracker.NotificationPrefs
	Onboarding  *OnboardingInput
}

type OnboardingInput struct {
	Sentiment      tracker.Sentiment
	DreamMilestone string
}

type CreateUserResult struct {
	User   tracker.User
	Streak tracker.Streak
}

type SubmitEventInput struct {
	UserID    uuid.UUID
	Kind      tracker.EventKind
	Payload   tracker.EventPayload
	EventDate time.Time
	// IdempotencyKey, when set, makes a resubmission return a Duplicate delta.
	IdempotencyKey string
	// Backfill marks imported history: goals count it, the streak ignores it.
	Backfill bool
}

type ProgressDelta struct {
	EventID          uuid.UUID
	Duplicate        bool
	Streak           tracker.Streak
	StreakChanged    bool
	PointsAwarded    int
	Goal             *tracker.WeeklyGoal
	GoalReached      bool
	NewQuests        []tracker.QuestCompletion
	NewNotifications []tracker.Notification
}

type GoalProgress struct {
	Goal                 tracker.WeeklyGoal
	Persisted            bool
	ApplicationsPercent  int
	OutreachPercent      int
	ApplicationsComplete bool
	OutreachComplete     bool
	DaysRemaining        int
}

// QuestStatus is one catalog entry as seen by a user.
type QuestStatus struct {
	ID        string
	Title     string
	Points    int
	Completed bool
}

type ProgressSnapshot struct {
	UserID            uuid.UUID
	Streak            tracker.Streak
	Level             int
	PointsToNextLevel int
	Week              GoalProgress
	Quests            []QuestStatus
	UnreadCount       int64
	AtRisk            bool
}
