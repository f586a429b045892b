package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type WeeklyGoalRepo interface {
	GetByWeek(dbc dbctx.Context, userID uuid.UUID, weekStart time.Time) (*tracker.WeeklyGoal, error)
	// GetOrCreate returns the (user, week) row, inserting seed when absent.
	GetOrCreate(dbc dbctx.Context, seed *tracker.WeeklyGoal) (*tracker.WeeklyGoal, error)
	SaveCounters(dbc dbctx.Context, g *tracker.WeeklyGoal) error
	UpdateTargets(dbc dbctx.Context, userID uuid.UUID, weekStart time.Time, applications, outreach int) error
}

type weeklyGoalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklyGoalRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyGoalRepo {
	return &weeklyGoalRepo{db: db, log: baseLog.With("repo", "WeeklyGoalRepo")}
}

func (r *weeklyGoalRepo) GetByWeek(dbc dbctx.Context, userID uuid.UUID, weekStart time.Time) (*tracker.WeeklyGoal, error) {
	var g tracker.WeeklyGoal
	err := dbc.DB(r.db).
		Where("user_id = ? AND week_start = ?", userID, tracker.Day(weekStart)).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *weeklyGoalRepo) GetOrCreate(dbc dbctx.Context, seed *tracker.WeeklyGoal) (*tracker.WeeklyGoal, error) {
	if err := tracker.ValidateWeeklyGoal(seed); err != nil {
		return nil, err
	}
	seed.WeekStart = tracker.Day(seed.WeekStart)
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
			DoNothing: true,
		}).
		Create(seed).Error; err != nil {
		return nil, err
	}
	g, err := r.GetByWeek(dbc, seed.UserID, seed.WeekStart)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return g, nil
}

func (r *weeklyGoalRepo) SaveCounters(dbc dbctx.Context, g *tracker.WeeklyGoal) error {
	if err := tracker.ValidateWeeklyGoal(g); err != nil {
		return err
	}
	return dbc.DB(r.db).
		Model(&tracker.WeeklyGoal{}).
		Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"applications_current": g.ApplicationsCurrent,
			"outreach_current":     g.OutreachCurrent,
			"updated_at":           time.Now().UTC(),
		}).Error
}

func (r *weeklyGoalRepo) UpdateTargets(dbc dbctx.Context, userID uuid.UUID, weekStart time.Time, applications, outreach int) error {
	if applications <= 0 || outreach <= 0 {
		return &tracker.InvalidError{Entity: "weekly_goal", Field: "target", Reason: "must be positive"}
	}
	return dbc.DB(r.db).
		Model(&tracker.WeeklyGoal{}).
		Where("user_id = ? AND week_start = ?", userID, tracker.Day(weekStart)).
		Updates(map[string]interface{}{
			"applications_target": applications,
			"outreach_target":     outreach,
			"updated_at":          time.Now().UTC(),
		}).Error
}
