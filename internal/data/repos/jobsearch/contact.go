package jobsearch

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type ContactRepo interface {
	Create(dbc dbctx.Context, c *tracker.Contact) error
	GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.Contact, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return &contactRepo{db: db, log: baseLog.With("repo", "ContactRepo")}
}

func (r *contactRepo) Create(dbc dbctx.Context, c *tracker.Contact) error {
	if err := tracker.ValidateContact(c); err != nil {
		return err
	}
	return dbc.DB(r.db).Create(c).Error
}

// GetOwned resolves a contact through its company's owner.
func (r *contactRepo) GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.Contact, error) {
	var c tracker.Contact
	err := dbc.DB(r.db).
		Joins("JOIN company ON company.id = contact.company_id").
		Where("contact.id = ? AND company.user_id = ?", id, userID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contactRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&tracker.Contact{}).
		Joins("JOIN company ON company.id = contact.company_id").
		Where("company.user_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (r *contactRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&tracker.Contact{}).Error
}
