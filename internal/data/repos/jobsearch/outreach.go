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

type OutreachRepo interface {
	Create(dbc dbctx.Context, o *tracker.OutreachActivity) error
	GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.OutreachActivity, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	ListFollowUpsDue(dbc dbctx.Context, userID uuid.UUID, today time.Time) ([]*tracker.OutreachActivity, error)
	UpdateStatus(dbc dbctx.Context, userID, id uuid.UUID, status tracker.OutreachStatus) error
}

type outreachRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutreachRepo(db *gorm.DB, baseLog *logger.Logger) OutreachRepo {
	return &outreachRepo{db: db, log: baseLog.With("repo", "OutreachRepo")}
}

func (r *outreachRepo) Create(dbc dbctx.Context, o *tracker.OutreachActivity) error {
	if err := tracker.ValidateOutreach(o); err != nil {
		return err
	}
	return dbc.DB(r.db).Create(o).Error
}

func (r *outreachRepo) GetOwned(dbc dbctx.Context, userID, id uuid.UUID) (*tracker.OutreachActivity, error) {
	var o tracker.OutreachActivity
	err := dbc.DB(r.db).Preload("Contact").Where("id = ? AND user_id = ?", id, userID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *outreachRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&tracker.OutreachActivity{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// ListFollowUpsDue returns Sent outreach whose follow-up date is today or
// earlier, with the contact preloaded.
func (r *outreachRepo) ListFollowUpsDue(dbc dbctx.Context, userID uuid.UUID, today time.Time) ([]*tracker.OutreachActivity, error) {
	var out []*tracker.OutreachActivity
	if err := dbc.DB(r.db).
		Preload("Contact").
		Where("user_id = ? AND status = ? AND follow_up_date IS NOT NULL AND follow_up_date <= ?", userID, tracker.OutreachSent, tracker.Day(today)).
		Order("follow_up_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *outreachRepo) UpdateStatus(dbc dbctx.Context, userID, id uuid.UUID, status tracker.OutreachStatus) error {
	switch status {
	case tracker.OutreachSent, tracker.OutreachResponded, tracker.OutreachNoResponse:
	default:
		return &tracker.InvalidError{Entity: "outreach_activity", Field: "status", Reason: "unknown value " + string(status)}
	}
	return dbc.DB(r.db).
		Model(&tracker.OutreachActivity{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()}).Error
}
