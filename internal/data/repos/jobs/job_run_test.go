package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/jobtrail-backend/internal/data/repos/testutil"
	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
)

func TestJobRunRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewJobRunRepo(db, testutil.Logger(t))

	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	owner := testutil.SeedUser(t, ctx, tx, "jobs@example.com").ID

	queued := &domainjobs.JobRun{
		OwnerUserID: owner,
		JobType:     "test_job",
		Payload:     datatypes.JSON([]byte("{}")),
		RunAfter:    now.Add(-time.Minute),
		CreatedAt:   now.Add(-3 * time.Hour),
		UpdatedAt:   now.Add(-3 * time.Hour),
	}
	retryable := &domainjobs.JobRun{
		OwnerUserID: owner,
		JobType:     "test_job",
		Status:      domainjobs.StatusFailed,
		Attempts:    1,
		RunAfter:    now.Add(-time.Minute),
		Payload:     datatypes.JSON([]byte("{}")),
		CreatedAt:   now.Add(-2 * time.Hour),
		UpdatedAt:   now.Add(-2 * time.Hour),
	}
	exhausted := &domainjobs.JobRun{
		OwnerUserID: owner,
		JobType:     "test_job",
		Status:      domainjobs.StatusFailed,
		Attempts:    5,
		MaxAttempts: 5,
		RunAfter:    now.Add(-time.Hour),
		Payload:     datatypes.JSON([]byte("{}")),
		CreatedAt:   now.Add(-4 * time.Hour),
		UpdatedAt:   now.Add(-4 * time.Hour),
	}
	future := &domainjobs.JobRun{
		OwnerUserID: owner,
		JobType:     "test_job",
		RunAfter:    now.Add(time.Hour),
		Payload:     datatypes.JSON([]byte("{}")),
		CreatedAt:   now.Add(-5 * time.Hour),
		UpdatedAt:   now.Add(-5 * time.Hour),
	}

	created, err := repo.Create(dbc, []*domainjobs.JobRun{queued, retryable, exhausted, future})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("Create: expected 4, got %d", len(created))
	}
	if queued.Status != domainjobs.StatusQueued || queued.MaxAttempts != domainjobs.DefaultMaxAttempts {
		t.Fatalf("Create defaults: status=%s max=%d", queued.Status, queued.MaxAttempts)
	}

	first, err := repo.ClaimNextRunnable(dbc, now, 10*time.Minute)
	if err != nil || first == nil {
		t.Fatalf("ClaimNextRunnable: err=%v job=%v", err, first)
	}
	if first.ID != queued.ID {
		t.Fatalf("ClaimNextRunnable: want=%s got=%s", queued.ID, first.ID)
	}
	if first.Status != domainjobs.StatusRunning || first.Attempts != 1 {
		t.Fatalf("claimed: status=%s attempts=%d", first.Status, first.Attempts)
	}

	second, err := repo.ClaimNextRunnable(dbc, now, 10*time.Minute)
	if err != nil || second == nil || second.ID != retryable.ID {
		t.Fatalf("ClaimNextRunnable retry: err=%v job=%v", err, second)
	}

	none, err := repo.ClaimNextRunnable(dbc, now, 10*time.Minute)
	if err != nil || none != nil {
		t.Fatalf("ClaimNextRunnable exhausted/future: err=%v job=%v", err, none)
	}

	// A running job whose lock is older than the stale window is reclaimed.
	stale, err := repo.ClaimNextRunnable(dbc, now.Add(20*time.Minute), 10*time.Minute)
	if err != nil || stale == nil || stale.ID != queued.ID {
		t.Fatalf("ClaimNextRunnable stale: err=%v job=%v", err, stale)
	}

	if err := repo.MarkSucceeded(dbc, queued.ID, now); err != nil {
		t.Fatalf("MarkSucceeded: %v", err)
	}
	if err := repo.MarkFailed(dbc, retryable.ID, errors.New("boom"), now, now.Add(time.Minute)); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	rows, err := repo.GetByIDs(dbc, []uuid.UUID{queued.ID, retryable.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	for _, row := range rows {
		switch row.ID {
		case queued.ID:
			if row.Status != domainjobs.StatusSucceeded || row.LockedAt != nil {
				t.Fatalf("succeeded row: %+v", row)
			}
		case retryable.ID:
			if row.Status != domainjobs.StatusFailed || row.Error != "boom" || row.LastErrorAt == nil {
				t.Fatalf("failed row: %+v", row)
			}
		}
	}

	exists, err := repo.ExistsRunnable(dbc, owner, "test_job")
	if err != nil || !exists {
		t.Fatalf("ExistsRunnable: err=%v exists=%v", err, exists)
	}
	exists, err = repo.ExistsRunnable(dbc, owner, "other_job")
	if err != nil || exists {
		t.Fatalf("ExistsRunnable other: err=%v exists=%v", err, exists)
	}
}
