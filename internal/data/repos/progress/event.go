package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type ActivityEventRepo interface {
	Append(dbc dbctx.Context, e *tracker.ActivityEvent) error
	GetByIdempotencyKey(dbc dbctx.Context, userID uuid.UUID, key string) (*tracker.ActivityEvent, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*tracker.ActivityEvent, error)
	CountByKind(dbc dbctx.Context, userID uuid.UUID, kind tracker.EventKind, from, to time.Time) (int64, error)
}

type activityEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityEventRepo(db *gorm.DB, baseLog *logger.Logger) ActivityEventRepo {
	return &activityEventRepo{db: db, log: baseLog.With("repo", "ActivityEventRepo")}
}

func (r *activityEventRepo) Append(dbc dbctx.Context, e *tracker.ActivityEvent) error {
	if err := tracker.ValidateEvent(e); err != nil {
		return err
	}
	e.EventDate = tracker.Day(e.EventDate)
	return dbc.DB(r.db).Create(e).Error
}

func (r *activityEventRepo) GetByIdempotencyKey(dbc dbctx.Context, userID uuid.UUID, key string) (*tracker.ActivityEvent, error) {
	if key == "" {
		return nil, nil
	}
	var e tracker.ActivityEvent
	err := dbc.DB(r.db).Where("user_id = ? AND idempotency_key = ?", userID, key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByUser returns events with from <= event_date < to. A zero bound is open.
func (r *activityEventRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*tracker.ActivityEvent, error) {
	var out []*tracker.ActivityEvent
	if err := window(dbc.DB(r.db).Where("user_id = ?", userID), from, to).
		Order("event_date ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityEventRepo) CountByKind(dbc dbctx.Context, userID uuid.UUID, kind tracker.EventKind, from, to time.Time) (int64, error) {
	var n int64
	err := window(dbc.DB(r.db).Model(&tracker.ActivityEvent{}).Where("user_id = ? AND kind = ?", userID, kind), from, to).
		Count(&n).Error
	return n, err
}

func window(q *gorm.DB, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		q = q.Where("event_date >= ?", tracker.Day(from))
	}
	if !to.IsZero() {
		q = q.Where("event_date < ?", tracker.Day(to))
	}
	return q
}
