package jobs

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type JobRunRepo interface {
	Create(dbc dbctx.Context, jobs []*domainjobs.JobRun) ([]*domainjobs.JobRun, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domainjobs.JobRun, error)
	ClaimNextRunnable(dbc dbctx.Context, now time.Time, staleRunning time.Duration) (*domainjobs.JobRun, error)
	MarkSucceeded(dbc dbctx.Context, id uuid.UUID, now time.Time) error
	MarkFailed(dbc dbctx.Context, id uuid.UUID, cause error, now time.Time, retryAfter time.Time) error
	ExistsRunnable(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string) (bool, error)
}

type jobRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return &jobRunRepo{
		db:  db,
		log: baseLog.With("repo", "JobRunRepo"),
	}
}

func (r *jobRunRepo) Create(dbc dbctx.Context, jobs []*domainjobs.JobRun) ([]*domainjobs.JobRun, error) {
	if len(jobs) == 0 {
		return []*domainjobs.JobRun{}, nil
	}
	now := time.Now().UTC()
	for _, j := range jobs {
		if j.Status == "" {
			j.Status = domainjobs.StatusQueued
		}
		if j.RunAfter.IsZero() {
			j.RunAfter = now
		}
		if j.MaxAttempts <= 0 {
			j.MaxAttempts = domainjobs.DefaultMaxAttempts
		}
	}
	if err := dbc.DB(r.db).Create(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRunRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domainjobs.JobRun, error) {
	var out []*domainjobs.JobRun
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimNextRunnable picks the oldest queued job, a failed job due for retry,
// or a running job whose lock went stale, and marks it running. Postgres uses
// FOR UPDATE SKIP LOCKED so concurrent workers never claim the same row.
func (r *jobRunRepo) ClaimNextRunnable(dbc dbctx.Context, now time.Time, staleRunning time.Duration) (*domainjobs.JobRun, error) {
	now = now.UTC()
	staleCutoff := now.Add(-staleRunning)
	var claimed *domainjobs.JobRun
	err := dbc.DB(r.db).Transaction(func(txx *gorm.DB) error {
		var job domainjobs.JobRun
		q := txx
		if txx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		q = q.Where(`
        (
          (status = ? AND run_after <= ?)
          OR (
            status = ?
            AND attempts < max_attempts
            AND run_after <= ?
          )
          OR (
            status = ?
            AND attempts < max_attempts
            AND locked_at IS NOT NULL
            AND locked_at < ?
          )
        )
      `, domainjobs.StatusQueued, now, domainjobs.StatusFailed, now, domainjobs.StatusRunning, staleCutoff).
			Order("created_at ASC")
		qErr := q.First(&job).Error
		if errors.Is(qErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if qErr != nil {
			return qErr
		}
		uErr := txx.Model(&domainjobs.JobRun{}).
			Where("id = ? AND status = ?", job.ID, job.Status).
			Updates(map[string]interface{}{
				"status":     domainjobs.StatusRunning,
				"attempts":   gorm.Expr("attempts + 1"),
				"locked_at":  now,
				"updated_at": now,
			}).Error
		if uErr != nil {
			return uErr
		}
		job.Status = domainjobs.StatusRunning
		job.Attempts++
		job.LockedAt = &now
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *jobRunRepo) MarkSucceeded(dbc dbctx.Context, id uuid.UUID, now time.Time) error {
	return dbc.DB(r.db).
		Model(&domainjobs.JobRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domainjobs.StatusSucceeded,
			"error":      "",
			"locked_at":  nil,
			"updated_at": now.UTC(),
		}).Error
}

// MarkFailed records the error. The row is retried at retryAfter while
// attempts < max_attempts; after that it stays failed.
func (r *jobRunRepo) MarkFailed(dbc dbctx.Context, id uuid.UUID, cause error, now time.Time, retryAfter time.Time) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if len(msg) > 2000 {
		msg = msg[:2000]
	}
	return dbc.DB(r.db).
		Model(&domainjobs.JobRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        domainjobs.StatusFailed,
			"error":         msg,
			"locked_at":     nil,
			"last_error_at": now.UTC(),
			"run_after":     retryAfter.UTC(),
			"updated_at":    now.UTC(),
		}).Error
}

func (r *jobRunRepo) ExistsRunnable(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string) (bool, error) {
	var count int64
	err := dbc.DB(r.db).
		Model(&domainjobs.JobRun{}).
		Where("owner_user_id = ? AND job_type = ? AND status IN ?", ownerUserID, jobType,
			[]string{domainjobs.StatusQueued, domainjobs.StatusRunning}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
