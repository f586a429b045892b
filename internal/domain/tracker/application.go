package tracker

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusPlanned   ApplicationStatus = "Planned"
	StatusApplied   ApplicationStatus = "Applied"
	StatusInterview ApplicationStatus = "Interview"
	StatusOffer     ApplicationStatus = "Offer"
	StatusRejected  ApplicationStatus = "Rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	Model
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CompanyID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"company_id"`
	Company     *Company          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	JobTitle    string            `gorm:"column:job_title;not null" json:"job_title"`
	JobURL      string            `gorm:"column:job_url" json:"job_url,omitempty"`
	Status      ApplicationStatus `gorm:"column:status;not null;index" json:"status"`
	AppliedDate *time.Time        `gorm:"column:applied_date;type:date" json:"applied_date,omitempty"`
	Notes       string            `gorm:"column:notes" json:"notes,omitempty"`
}

func (Application) TableName() string { return "application" }

// ValidateApplication enforces status=Applied => applied_date present. Later
// stages do not require a date.
func ValidateApplication(a *Application) error {
	if a == nil || a.UserID == uuid.Nil {
		return invalid("application", "user_id", "required")
	}
	if a.CompanyID == uuid.Nil {
		return invalid("application", "company_id", "required")
	}
	a.JobTitle = strings.TrimSpace(a.JobTitle)
	if len(a.JobTitle) < 2 {
		return invalid("application", "job_title", "at least 2 characters")
	}
	if a.Status == "" {
		a.Status = StatusPlanned
	}
	if !a.Status.Valid() {
		return invalid("application", "status", "unknown value "+string(a.Status))
	}
	if a.Status == StatusApplied && (a.AppliedDate == nil || a.AppliedDate.IsZero()) {
		return invalid("application", "applied_date", "required when status is Applied")
	}
	return nil
}

// TransitionTo moves the application to next. The first move to Applied
// stamps applied_date with the day of occurredOn; UpdatedAt takes now.
func (a *Application) TransitionTo(next ApplicationStatus, occurredOn, now time.Time) error {
	if !next.Valid() {
		return invalid("application", "status", "unknown value "+string(next))
	}
	a.Status = next
	if next == StatusApplied && a.AppliedDate == nil {
		d := Day(occurredOn)
		a.AppliedDate = &d
	}
	a.UpdatedAt = now.UTC()
	return ValidateApplication(a)
}
