package cv

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type CvAnalysisRepo interface {
	Create(dbc dbctx.Context, a *tracker.CvAnalysis) error
	GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.CvAnalysis, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*tracker.CvAnalysis, error)
	ListByApplication(dbc dbctx.Context, userID, applicationID uuid.UUID) ([]*tracker.CvAnalysis, error)
}

type cvAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCvAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) CvAnalysisRepo {
	return &cvAnalysisRepo{db: db, log: baseLog.With("repo", "CvAnalysisRepo")}
}

func (r *cvAnalysisRepo) Create(dbc dbctx.Context, a *tracker.CvAnalysis) error {
	if err := tracker.ValidateCvAnalysis(a); err != nil {
		return err
	}
	return dbc.DB(r.db).Create(a).Error
}

func (r *cvAnalysisRepo) GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.CvAnalysis, error) {
	var a tracker.CvAnalysis
	err := dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *cvAnalysisRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*tracker.CvAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []*tracker.CvAnalysis
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cvAnalysisRepo) ListByApplication(dbc dbctx.Context, userID, applicationID uuid.UUID) ([]*tracker.CvAnalysis, error) {
	var out []*tracker.CvAnalysis
	if err := dbc.DB(r.db).
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
