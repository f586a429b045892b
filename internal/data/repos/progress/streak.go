package progress

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type StreakRepo interface {
	Create(dbc dbctx.Context, s *tracker.Streak) error
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*tracker.Streak, error)
	GetByUserIDForUpdate(dbc dbctx.Context, userID uuid.UUID) (*tracker.Streak, error)
}

type streakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	return &streakRepo{db: db, log: baseLog.With("repo", "StreakRepo")}
}

func (r *streakRepo) Create(dbc dbctx.Context, s *tracker.Streak) error {
	if err := tracker.ValidateStreak(s); err != nil {
		return err
	}
	return dbc.DB(r.db).Create(s).Error
}

func (r *streakRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*tracker.Streak, error) {
	return r.get(dbc.DB(r.db), userID)
}

// GetByUserIDForUpdate row-locks the streak on Postgres. SQLite serializes
// writers on its own.
func (r *streakRepo) GetByUserIDForUpdate(dbc dbctx.Context, userID uuid.UUID) (*tracker.Streak, error) {
	q := dbc.DB(r.db)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.get(q, userID)
}

func (r *streakRepo) get(q *gorm.DB, userID uuid.UUID) (*tracker.Streak, error) {
	var s tracker.Streak
	err := q.Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
