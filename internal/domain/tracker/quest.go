package tracker

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestCompletion is write-once per (user, quest).
type QuestCompletion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quest_user_quest,priority:1" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuestID     string    `gorm:"column:quest_id;not null;uniqueIndex:idx_quest_user_quest,priority:2" json:"quest_id"`
	Points      int       `gorm:"column:points;not null;default:0" json:"points"`
	CompletedAt time.Time `gorm:"column:completed_at;not null" json:"completed_at"`
}

func (QuestCompletion) TableName() string { return "quest_completion" }

func ValidateQuestCompletion(q *QuestCompletion) error {
	if q == nil || q.UserID == uuid.Nil {
		return invalid("quest_completion", "user_id", "required")
	}
	if q.QuestID == "" {
		return invalid("quest_completion", "quest_id", "required")
	}
	if q.Points < 0 {
		return invalid("quest_completion", "points", "must not be negative")
	}
	return nil
}

func (q *QuestCompletion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
