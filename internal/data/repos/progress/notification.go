package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type NotificationRepo interface {
	// Insert reports false when (user, dedup_key) already exists.
	Insert(dbc dbctx.Context, n *tracker.Notification) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*tracker.Notification, error)
	ListUnemailed(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*tracker.Notification, error)
	UnreadCount(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	MarkRead(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) error
	MarkEmailed(dbc dbctx.Context, ids []uuid.UUID, at time.Time) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Insert(dbc dbctx.Context, n *tracker.Notification) (bool, error) {
	if err := tracker.ValidateNotification(n); err != nil {
		return false, err
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*tracker.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []*tracker.Notification
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListUnemailed returns the user's notifications not yet emailed, narrowed
// to ids when given.
func (r *notificationRepo) ListUnemailed(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*tracker.Notification, error) {
	q := dbc.DB(r.db).Where("user_id = ? AND emailed = ?", userID, false)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	var out []*tracker.Notification
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) UnreadCount(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&tracker.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&tracker.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Updates(map[string]interface{}{"is_read": true, "updated_at": time.Now().UTC()}).Error
}

func (r *notificationRepo) MarkEmailed(dbc dbctx.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&tracker.Notification{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"emailed": true, "emailed_at": at.UTC(), "updated_at": time.Now().UTC()}).Error
}
