package tracker

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyGoal is the per-user bucket for one week, keyed by week start.
type WeeklyGoal struct {
	Model
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_goal_user_week,priority:1" json:"user_id"`
	User                *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	WeekStart           time.Time `gorm:"column:week_start;type:date;not null;uniqueIndex:idx_weekly_goal_user_week,priority:2" json:"week_start"`
	ApplicationsTarget  int       `gorm:"column:applications_target;not null" json:"applications_target"`
	ApplicationsCurrent int       `gorm:"column:applications_current;not null;default:0" json:"applications_current"`
	OutreachTarget      int       `gorm:"column:outreach_target;not null" json:"outreach_target"`
	OutreachCurrent     int       `gorm:"column:outreach_current;not null;default:0" json:"outreach_current"`
}

func (WeeklyGoal) TableName() string { return "weekly_goal" }

func ValidateWeeklyGoal(g *WeeklyGoal) error {
	if g == nil || g.UserID == uuid.Nil {
		return invalid("weekly_goal", "user_id", "required")
	}
	if g.WeekStart.IsZero() {
		return invalid("weekly_goal", "week_start", "required")
	}
	if g.ApplicationsTarget <= 0 {
		return invalid("weekly_goal", "applications_target", "must be positive")
	}
	if g.OutreachTarget <= 0 {
		return invalid("weekly_goal", "outreach_target", "must be positive")
	}
	if g.ApplicationsCurrent < 0 || g.OutreachCurrent < 0 {
		return invalid("weekly_goal", "current", "must not be negative")
	}
	return nil
}
