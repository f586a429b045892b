package tracker

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyFollowUp     NotificationType = "follow_up"
	NotifyGoalReminder NotificationType = "goal_reminder"
	NotifyMicroQuest   NotificationType = "micro_quest"
	NotifyMotivation   NotificationType = "motivation"
	NotifySystem       NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyFollowUp, NotifyGoalReminder, NotifyMicroQuest, NotifyMotivation, NotifySystem:
		return true
	}
	return false
}

type RelatedType string

const (
	RelatedNone        RelatedType = ""
	RelatedApplication RelatedType = "application"
	RelatedOutreach    RelatedType = "outreach"
	RelatedMicroQuest  RelatedType = "micro_quest"
	RelatedGoal        RelatedType = "goal"
)

func (r RelatedType) Valid() bool {
	switch r {
	case RelatedNone, RelatedApplication, RelatedOutreach, RelatedMicroQuest, RelatedGoal:
		return true
	}
	return false
}

// Notification rows are unique per (user, dedup_key); repeated dispatch of
// the same trigger is an insert conflict and therefore a no-op.
type Notification struct {
	Model
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_notification_user_dedup,priority:1" json:"user_id"`
	User        *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type        NotificationType `gorm:"column:type;not null;index" json:"type"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Message     string           `gorm:"column:message;not null" json:"message"`
	RelatedType RelatedType      `gorm:"column:related_type" json:"related_type,omitempty"`
	RelatedID   *string          `gorm:"column:related_id" json:"related_id,omitempty"`
	DedupKey    string           `gorm:"column:dedup_key;not null;uniqueIndex:idx_notification_user_dedup,priority:2" json:"-"`
	IsRead      bool             `gorm:"column:is_read;not null;default:false;index" json:"is_read"`
	Emailed     bool             `gorm:"column:emailed;not null;default:false" json:"emailed"`
	EmailedAt   *time.Time       `gorm:"column:emailed_at" json:"emailed_at,omitempty"`
}

func (Notification) TableName() string { return "notification" }

func ValidateNotification(n *Notification) error {
	if n == nil || n.UserID == uuid.Nil {
		return invalid("notification", "user_id", "required")
	}
	if !n.Type.Valid() {
		return invalid("notification", "type", "unknown value "+string(n.Type))
	}
	if len(strings.TrimSpace(n.Title)) < 3 {
		return invalid("notification", "title", "at least 3 characters")
	}
	if len(strings.TrimSpace(n.Message)) < 10 {
		return invalid("notification", "message", "at least 10 characters")
	}
	if !n.RelatedType.Valid() {
		return invalid("notification", "related_type", "unknown value "+string(n.RelatedType))
	}
	if n.RelatedType == RelatedNone && n.RelatedID != nil {
		return invalid("notification", "related_id", "set without related_type")
	}
	if n.RelatedType != RelatedNone && (n.RelatedID == nil || *n.RelatedID == "") {
		return invalid("notification", "related_id", "required with related_type")
	}
	if n.DedupKey == "" {
		return invalid("notification", "dedup_key", "required")
	}
	return nil
}
