package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *tracker.User) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*tracker.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*tracker.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	ListIDs(dbc dbctx.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	UpdatePrefs(dbc dbctx.Context, id uuid.UUID, prefs tracker.NotificationPrefs) error
	TouchActivity(dbc dbctx.Context, id uuid.UUID, at time.Time) error
	TouchLogin(dbc dbctx.Context, id uuid.UUID, at time.Time) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, u *tracker.User) error {
	if u == nil {
		return nil
	}
	return dbc.DB(ur.db).Create(u).Error
}

// GetByID returns nil without error when the user does not exist.
func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*tracker.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var u tracker.User
	err := dbc.DB(ur.db).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*tracker.User, error) {
	email = tracker.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	var u tracker.User
	err := dbc.DB(ur.db).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.DB(ur.db).
		Model(&tracker.User{}).
		Where("email = ?", tracker.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListIDs pages through user ids in id order, starting after the given id.
func (ur *userRepo) ListIDs(dbc dbctx.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 500
	}
	q := dbc.DB(ur.db).Model(&tracker.User{}).Order("id ASC").Limit(limit)
	if after != uuid.Nil {
		q = q.Where("id > ?", after)
	}
	var ids []uuid.UUID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (ur *userRepo) UpdatePrefs(dbc dbctx.Context, id uuid.UUID, prefs tracker.NotificationPrefs) error {
	return dbc.DB(ur.db).
		Model(&tracker.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"notification_prefs": datatypes.NewJSONType(prefs),
			"updated_at":         time.Now().UTC(),
		}).Error
}

func (ur *userRepo) TouchActivity(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	return dbc.DB(ur.db).
		Model(&tracker.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_activity_at": at.UTC(), "updated_at": time.Now().UTC()}).Error
}

func (ur *userRepo) TouchLogin(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	return dbc.DB(ur.db).
		Model(&tracker.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_login_at": at.UTC(), "updated_at": time.Now().UTC()}).Error
}

func (ur *userRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(ur.db).Where("id = ?", id).Delete(&tracker.User{}).Error
}
