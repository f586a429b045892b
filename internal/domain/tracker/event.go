package tracker

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventKind string

const (
	EventApplicationCreated       EventKind = "ApplicationCreated"
	EventApplicationStatusChanged EventKind = "ApplicationStatusChanged"
	EventOutreachSent             EventKind = "OutreachSent"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventApplicationCreated, EventApplicationStatusChanged, EventOutreachSent:
		return true
	}
	return false
}

// EventPayload references the row the event is about.
type EventPayload struct {
	ApplicationID *uuid.UUID        `json:"application_id,omitempty"`
	OutreachID    *uuid.UUID        `json:"outreach_id,omitempty"`
	Status        ApplicationStatus `json:"status,omitempty"`
}

// ActivityEvent is the append-only log every derived value is computed from.
type ActivityEvent struct {
	ID             uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                        `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_user_idem,priority:1" json:"user_id"`
	User           *User                            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Kind           EventKind                        `gorm:"column:kind;not null;index" json:"kind"`
	EventDate      time.Time                        `gorm:"column:event_date;type:date;not null;index" json:"event_date"`
	Payload        datatypes.JSONType[EventPayload] `gorm:"column:payload" json:"payload"`
	IdempotencyKey *string                          `gorm:"column:idempotency_key;uniqueIndex:idx_event_user_idem,priority:2" json:"idempotency_key,omitempty"`
	Backfill       bool                             `gorm:"column:backfill;not null;default:false" json:"backfill"`
	CreatedAt      time.Time                        `gorm:"not null;index" json:"created_at"`
}

func (ActivityEvent) TableName() string { return "activity_event" }

func ValidateEvent(e *ActivityEvent) error {
	if e == nil || e.UserID == uuid.Nil {
		return invalid("activity_event", "user_id", "required")
	}
	if !e.Kind.Valid() {
		return invalid("activity_event", "kind", "unknown value "+string(e.Kind))
	}
	if e.EventDate.IsZero() {
		return invalid("activity_event", "event_date", "required")
	}
	p := e.Payload.Data()
	switch e.Kind {
	case EventApplicationCreated:
		if p.ApplicationID == nil || *p.ApplicationID == uuid.Nil {
			return invalid("activity_event", "payload.application_id", "required")
		}
	case EventApplicationStatusChanged:
		if p.ApplicationID == nil || *p.ApplicationID == uuid.Nil {
			return invalid("activity_event", "payload.application_id", "required")
		}
		if !p.Status.Valid() {
			return invalid("activity_event", "payload.status", "unknown value "+string(p.Status))
		}
	case EventOutreachSent:
		if p.OutreachID == nil || *p.OutreachID == uuid.Nil {
			return invalid("activity_event", "payload.outreach_id", "required")
		}
	}
	if e.IdempotencyKey != nil && *e.IdempotencyKey == "" {
		e.IdempotencyKey = nil
	}
	return nil
}

// GoalCounter is the weekly counter an event kind feeds, or "" for none.
func (k EventKind) GoalCounter() string {
	switch k {
	case EventApplicationCreated:
		return "application"
	case EventOutreachSent:
		return "outreach"
	}
	return ""
}

func (e *ActivityEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
