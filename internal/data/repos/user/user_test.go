package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/jobtrail-backend/internal/data/repos/testutil"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	u := &tracker.User{
		Email:             "userrepo@example.com",
		PasswordHash:      "hash",
		DisplayName:       "Repo User",
		NotificationPrefs: datatypes.NewJSONType(tracker.NotificationPrefs{EmailEnabled: true}),
	}
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}

	got, err := repo.GetByID(dbc, u.ID)
	if err != nil || got == nil || got.Email != u.Email {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}
	if !got.NotificationPrefs.Data().EmailEnabled {
		t.Fatalf("GetByID: prefs not round-tripped")
	}

	got, err = repo.GetByEmail(dbc, "  UserRepo@Example.com ")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: err=%v got=%+v", err, got)
	}

	exists, err := repo.EmailExists(dbc, u.Email)
	if err != nil || !exists {
		t.Fatalf("EmailExists: err=%v exists=%v", err, exists)
	}
	exists, err = repo.EmailExists(dbc, "does-not-exist@example.com")
	if err != nil || exists {
		t.Fatalf("EmailExists (missing): err=%v exists=%v", err, exists)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID (missing): err=%v got=%+v", err, missing)
	}

	dup := &tracker.User{Email: u.Email, PasswordHash: "hash", DisplayName: "Dup"}
	if err := repo.Create(dbc, dup); err == nil {
		t.Fatalf("Create duplicate email: expected error")
	}
}

func TestUserRepoPrefsAndTouch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "prefs@example.com")
	prefs := tracker.NotificationPrefs{EmailEnabled: false, DisabledTypes: []tracker.NotificationType{tracker.NotifyMotivation}}
	if err := repo.UpdatePrefs(dbc, u.ID, prefs); err != nil {
		t.Fatalf("UpdatePrefs: %v", err)
	}
	at := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	if err := repo.TouchActivity(dbc, u.ID, at); err != nil {
		t.Fatalf("TouchActivity: %v", err)
	}

	got, err := repo.GetByID(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v", err)
	}
	if got.NotificationPrefs.Data().Allows(tracker.NotifyMotivation) {
		t.Fatalf("prefs: motivation should be disabled")
	}
	if got.LastActivityAt == nil || !got.LastActivityAt.Equal(at) {
		t.Fatalf("TouchActivity: want=%v got=%v", at, got.LastActivityAt)
	}
}

func TestUserRepoListIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	seeded := map[uuid.UUID]bool{}
	for _, e := range []string{"l1@example.com", "l2@example.com", "l3@example.com"} {
		seeded[testutil.SeedUser(t, ctx, tx, e).ID] = true
	}

	seen := map[uuid.UUID]bool{}
	after := uuid.Nil
	for {
		page, err := repo.ListIDs(dbc, after, 2)
		if err != nil {
			t.Fatalf("ListIDs: %v", err)
		}
		if len(page) == 0 {
			break
		}
		for _, id := range page {
			if seen[id] {
				t.Fatalf("ListIDs: id %s returned twice", id)
			}
			seen[id] = true
		}
		after = page[len(page)-1]
	}
	for id := range seeded {
		if !seen[id] {
			t.Fatalf("ListIDs: missing %s", id)
		}
	}
}

func TestOnboardingRepoInsertOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewOnboardingRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "onboard@example.com")
	p := &tracker.OnboardingProfile{UserID: u.ID, Sentiment: tracker.SentimentExcited, DreamMilestone: "staff engineer"}
	if err := repo.Create(dbc, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByUserID(dbc, u.ID)
	if err != nil || got == nil || got.Sentiment != tracker.SentimentExcited {
		t.Fatalf("GetByUserID: err=%v got=%+v", err, got)
	}
	// Savepoint so the failed insert does not poison the outer tx on Postgres.
	tx.SavePoint("second")
	if err := repo.Create(dbc, &tracker.OnboardingProfile{UserID: u.ID, Sentiment: tracker.SentimentFrustrated}); err == nil {
		t.Fatalf("Create second profile: expected unique violation")
	}
	tx.RollbackTo("second")
}
