package tracker

import (
	"time"

	"github.com/google/uuid"
)

// Streak is the single per-user progress row. Version guards
// compare-and-set writes.
type Streak struct {
	Model
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User             *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CurrentStreak    int        `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak    int        `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	TotalPoints      int        `gorm:"column:total_points;not null;default:0" json:"total_points"`
	LastActivityDate *time.Time `gorm:"column:last_activity_date;type:date" json:"last_activity_date,omitempty"`
	Version          int64      `gorm:"column:version;not null;default:0" json:"version"`
}

func (Streak) TableName() string { return "streak" }

func ValidateStreak(s *Streak) error {
	if s == nil || s.UserID == uuid.Nil {
		return invalid("streak", "user_id", "required")
	}
	if s.CurrentStreak < 0 || s.LongestStreak < 0 || s.TotalPoints < 0 {
		return invalid("streak", "counters", "must not be negative")
	}
	if s.LongestStreak < s.CurrentStreak {
		return invalid("streak", "longest_streak", "below current_streak")
	}
	return nil
}
