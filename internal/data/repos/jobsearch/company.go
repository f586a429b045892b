package jobsearch

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type CompanyRepo interface {
	Create(dbc dbctx.Context, c *tracker.Company) error
	GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.Company, error)
	GetByName(dbc dbctx.Context, userID uuid.UUID, name string) (*tracker.Company, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*tracker.Company, error)
	Delete(dbc dbctx.Context, userID, id uuid.UUID) error
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return &companyRepo{db: db, log: baseLog.With("repo", "CompanyRepo")}
}

func (r *companyRepo) Create(dbc dbctx.Context, c *tracker.Company) error {
	if err := tracker.ValidateCompany(c); err != nil {
		return err
	}
	return dbc.DB(r.db).Create(c).Error
}

func (r *companyRepo) GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.Company, error) {
	var c tracker.Company
	err := dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) GetByName(dbc dbctx.Context, userID uuid.UUID, name string) (*tracker.Company, error) {
	var c tracker.Company
	err := dbc.DB(r.db).
		Where("user_id = ? AND name_normalized = ?", userID, tracker.NormalizeName(name)).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*tracker.Company, error) {
	var out []*tracker.Company
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Order("name_normalized ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete cascades to the company's contacts, applications and outreach.
func (r *companyRepo) Delete(dbc dbctx.Context, userID, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&tracker.Company{}).Error
}
