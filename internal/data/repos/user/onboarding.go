package user

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

// OnboardingRepo is insert-only; a second profile for the same user violates
// the unique index on user_id.
type OnboardingRepo interface {
	Create(dbc dbctx.Context, p *tracker.OnboardingProfile) error
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*tracker.OnboardingProfile, error)
}

type onboardingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOnboardingRepo(db *gorm.DB, baseLog *logger.Logger) OnboardingRepo {
	return &onboardingRepo{db: db, log: baseLog.With("repo", "OnboardingRepo")}
}

func (r *onboardingRepo) Create(dbc dbctx.Context, p *tracker.OnboardingProfile) error {
	if p == nil {
		return nil
	}
	return dbc.DB(r.db).Create(p).Error
}

func (r *onboardingRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*tracker.OnboardingProfile, error) {
	var p tracker.OnboardingProfile
	err := dbc.DB(r.db).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
