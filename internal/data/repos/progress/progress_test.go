package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/yungbote/jobtrail-backend/internal/data/repos/testutil"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

func TestStreakRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewStreakRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "streakrepo@example.com")
	require.NoError(t, repo.Create(dbc, &tracker.Streak{UserID: u.ID}))

	got, err := repo.GetByUserIDForUpdate(dbc, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 0, got.CurrentStreak)
	require.Equal(t, int64(0), got.Version)

	missing, err := repo.GetByUserID(dbc, uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)

	require.True(t, tracker.IsInvalid(repo.Create(dbc, &tracker.Streak{UserID: u.ID, CurrentStreak: -1})))
}

func TestWeeklyGoalGetOrCreate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewWeeklyGoalRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "goalrepo@example.com")
	week := testutil.Day(2024, 1, 1)

	first, err := repo.GetOrCreate(dbc, &tracker.WeeklyGoal{UserID: u.ID, WeekStart: week, ApplicationsTarget: 5, OutreachTarget: 3})
	require.NoError(t, err)
	first.ApplicationsCurrent = 2
	require.NoError(t, repo.SaveCounters(dbc, first))

	again, err := repo.GetOrCreate(dbc, &tracker.WeeklyGoal{UserID: u.ID, WeekStart: week, ApplicationsTarget: 9, OutreachTarget: 9})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, 2, again.ApplicationsCurrent)
	require.Equal(t, 5, again.ApplicationsTarget, "existing row keeps its targets")

	require.NoError(t, repo.UpdateTargets(dbc, u.ID, week, 7, 4))
	got, err := repo.GetByWeek(dbc, u.ID, week.Add(13*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 7, got.ApplicationsTarget)
	require.Equal(t, 4, got.OutreachTarget)

	none, err := repo.GetByWeek(dbc, u.ID, week.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Nil(t, none)

	require.Error(t, repo.UpdateTargets(dbc, u.ID, week, 0, 4))
}

func TestQuestCompletionInsertIsWriteOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewQuestCompletionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "questrepo@example.com")
	now := time.Now().UTC()

	inserted, err := repo.Insert(dbc, &tracker.QuestCompletion{UserID: u.ID, QuestID: "first_application", Points: 20, CompletedAt: now})
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = repo.Insert(dbc, &tracker.QuestCompletion{UserID: u.ID, QuestID: "first_application", Points: 20, CompletedAt: now})
	require.NoError(t, err, "duplicate completion is a no-op")
	require.False(t, inserted)

	ids, err := repo.CompletedIDs(dbc, u.ID)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"first_application": true}, ids)

	rows, err := repo.ListByUser(dbc, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestNotificationRepoDedupAndFlags(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNotificationRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "notirepo@example.com")
	mk := func(key string) *tracker.Notification {
		return &tracker.Notification{
			UserID:   u.ID,
			Type:     tracker.NotifySystem,
			Title:    "Hello",
			Message:  "Welcome to the tracker",
			DedupKey: key,
		}
	}

	ok, err := repo.Insert(dbc, mk("system|welcome"))
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.Insert(dbc, mk("system|welcome"))
	require.NoError(t, err)
	require.False(t, ok)
	second := mk("system|other")
	ok, err = repo.Insert(dbc, second)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := repo.UnreadCount(dbc, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	require.NoError(t, repo.MarkRead(dbc, u.ID, []uuid.UUID{second.ID}))
	n, err = repo.UnreadCount(dbc, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	unread, err := repo.ListByUser(dbc, u.ID, true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	pending, err := repo.ListUnemailed(dbc, u.ID, nil)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.NoError(t, repo.MarkEmailed(dbc, []uuid.UUID{second.ID}, time.Now()))
	pending, err = repo.ListUnemailed(dbc, u.ID, nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	bad := mk("system|bad")
	bad.Message = "short"
	_, err = repo.Insert(dbc, bad)
	require.True(t, tracker.IsInvalid(err))
}

func TestActivityEventRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewActivityEventRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "eventrepo@example.com")
	appID := uuid.New()
	key := "evt-1"
	e := &tracker.ActivityEvent{
		UserID:         u.ID,
		Kind:           tracker.EventApplicationCreated,
		EventDate:      time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC),
		Payload:        datatypes.NewJSONType(tracker.EventPayload{ApplicationID: &appID}),
		IdempotencyKey: &key,
	}
	require.NoError(t, repo.Append(dbc, e))
	require.True(t, e.EventDate.Equal(testutil.Day(2024, 1, 2)))

	got, err := repo.GetByIdempotencyKey(dbc, u.ID, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, e.ID, got.ID)
	require.Equal(t, appID, *got.Payload.Data().ApplicationID)

	n, err := repo.CountByKind(dbc, u.ID, tracker.EventApplicationCreated, testutil.Day(2024, 1, 1), testutil.Day(2024, 1, 8))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	rows, err := repo.ListByUser(dbc, u.ID, testutil.Day(2024, 1, 3), time.Time{})
	require.NoError(t, err)
	require.Empty(t, rows)

	require.True(t, tracker.IsInvalid(repo.Append(dbc, &tracker.ActivityEvent{UserID: u.ID, Kind: "Bogus", EventDate: time.Now()})))
}
