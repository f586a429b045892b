package jobsearch

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type ApplicationRepo interface {
	Create(dbc dbctx.Context, a *tracker.Application) error
	GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.Application, error)
	UpdateStatus(dbc dbctx.Context, a *tracker.Application) error
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	CountByStatus(dbc dbctx.Context, userID uuid.UUID, statuses ...tracker.ApplicationStatus) (int64, error)
	ListNeedingFollowUp(dbc dbctx.Context, userID uuid.UUID, today time.Time, thresholdDays int) ([]*tracker.Application, error)
	Delete(dbc dbctx.Context, userID, id uuid.UUID) error
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return &applicationRepo{db: db, log: baseLog.With("repo", "ApplicationRepo")}
}

func (r *applicationRepo) Create(dbc dbctx.Context, a *tracker.Application) error {
	if err := tracker.ValidateApplication(a); err != nil {
		return err
	}
	return dbc.DB(r.db).Create(a).Error
}

func (r *applicationRepo) GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.Application, error) {
	var a tracker.Application
	err := dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateStatus writes status, applied_date and updated_at from a. Callers
// mutate through Application.TransitionTo first.
func (r *applicationRepo) UpdateStatus(dbc dbctx.Context, a *tracker.Application) error {
	if err := tracker.ValidateApplication(a); err != nil {
		return err
	}
	updatedAt := a.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	res := dbc.DB(r.db).
		Model(&tracker.Application{}).
		Where("id = ? AND user_id = ?", a.ID, a.UserID).
		Updates(map[string]interface{}{
			"status":       a.Status,
			"applied_date": a.AppliedDate,
			"updated_at":   updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&tracker.Application{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *applicationRepo) CountByStatus(dbc dbctx.Context, userID uuid.UUID, statuses ...tracker.ApplicationStatus) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	var n int64
	err := dbc.DB(r.db).
		Model(&tracker.Application{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Count(&n).Error
	return n, err
}

// ListNeedingFollowUp returns Applied applications older than thresholdDays.
func (r *applicationRepo) ListNeedingFollowUp(dbc dbctx.Context, userID uuid.UUID, today time.Time, thresholdDays int) ([]*tracker.Application, error) {
	cutoff := tracker.Day(today).AddDate(0, 0, -thresholdDays)
	var out []*tracker.Application
	if err := dbc.DB(r.db).
		Where("user_id = ? AND status = ? AND applied_date IS NOT NULL AND applied_date <= ?", userID, tracker.StatusApplied, cutoff).
		Order("applied_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *applicationRepo) Delete(dbc dbctx.Context, userID, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&tracker.Application{}).Error
}
