package tracker

import (
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelLinkedIn Channel = "linkedin"
)

type OutreachStatus string

const (
	OutreachSent       OutreachStatus = "Sent"
	OutreachResponded  OutreachStatus = "Responded"
	OutreachNoResponse OutreachStatus = "No Response"
)

// OutreachActivity links to exactly one of an application or a company.
type OutreachActivity struct {
	Model
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ContactID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"contact_id"`
	Contact       *Contact       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ApplicationID *uuid.UUID     `gorm:"type:uuid;index" json:"application_id,omitempty"`
	Application   *Application   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CompanyID     *uuid.UUID     `gorm:"type:uuid;index" json:"company_id,omitempty"`
	Company       *Company       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Channel       Channel        `gorm:"column:channel;not null" json:"channel"`
	Status        OutreachStatus `gorm:"column:status;not null;index" json:"status"`
	Message       string         `gorm:"column:message" json:"message,omitempty"`
	SentDate      time.Time      `gorm:"column:sent_date;type:date;not null" json:"sent_date"`
	FollowUpDate  *time.Time     `gorm:"column:follow_up_date;type:date;index" json:"follow_up_date,omitempty"`
}

func (OutreachActivity) TableName() string { return "outreach_activity" }

func ValidateOutreach(o *OutreachActivity) error {
	if o == nil || o.UserID == uuid.Nil {
		return invalid("outreach_activity", "user_id", "required")
	}
	if o.ContactID == uuid.Nil {
		return invalid("outreach_activity", "contact_id", "required")
	}
	hasApp := o.ApplicationID != nil && *o.ApplicationID != uuid.Nil
	hasCompany := o.CompanyID != nil && *o.CompanyID != uuid.Nil
	if hasApp == hasCompany {
		return invalid("outreach_activity", "application_id", "exactly one of application_id or company_id")
	}
	if o.Channel != ChannelEmail && o.Channel != ChannelLinkedIn {
		return invalid("outreach_activity", "channel", "unknown value "+string(o.Channel))
	}
	if o.Status == "" {
		o.Status = OutreachSent
	}
	switch o.Status {
	case OutreachSent, OutreachResponded, OutreachNoResponse:
	default:
		return invalid("outreach_activity", "status", "unknown value "+string(o.Status))
	}
	if o.SentDate.IsZero() {
		return invalid("outreach_activity", "sent_date", "required")
	}
	if o.FollowUpDate != nil && Day(*o.FollowUpDate).Before(Day(o.SentDate)) {
		return invalid("outreach_activity", "follow_up_date", "before sent_date")
	}
	return nil
}

// FollowUpDue is true when the message is unanswered and its follow-up date
// has arrived.
func (o *OutreachActivity) FollowUpDue(today time.Time) bool {
	if o.Status != OutreachSent || o.FollowUpDate == nil {
		return false
	}
	return !Day(today).Before(Day(*o.FollowUpDate))
}

func (o *OutreachActivity) DaysSinceSent(today time.Time) int {
	return DaysBetween(o.SentDate, today)
}
