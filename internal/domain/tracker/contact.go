package tracker

import (
	"strings"

	"github.com/google/uuid"
)

// Contact email is optional; EmailNormalized stays NULL without one so the
// (company, email) unique index never collides on missing emails.
type Contact struct {
	Model
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_contact_company_email,priority:1" json:"company_id"`
	Company         *Company  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name            string    `gorm:"column:name;not null" json:"name"`
	Role            string    `gorm:"column:role" json:"role,omitempty"`
	Email           string    `gorm:"column:email" json:"email,omitempty"`
	EmailNormalized *string   `gorm:"column:email_normalized;uniqueIndex:idx_contact_company_email,priority:2" json:"-"`
	LinkedInURL     string    `gorm:"column:linkedin_url" json:"linkedin_url,omitempty"`
	Notes           string    `gorm:"column:notes" json:"notes,omitempty"`
	Source          Source    `gorm:"column:source;not null" json:"source"`
}

func (Contact) TableName() string { return "contact" }

func ValidateContact(c *Contact) error {
	if c == nil || c.CompanyID == uuid.Nil {
		return invalid("contact", "company_id", "required")
	}
	c.Name = strings.TrimSpace(c.Name)
	if len(c.Name) < 2 {
		return invalid("contact", "name", "at least 2 characters")
	}
	c.Email = strings.TrimSpace(c.Email)
	c.EmailNormalized = nil
	if c.Email != "" {
		norm := NormalizeEmail(c.Email)
		if !ValidEmail(norm) {
			return invalid("contact", "email", "malformed address")
		}
		c.EmailNormalized = &norm
	}
	if c.Source == "" {
		c.Source = SourceManual
	}
	if c.Source != SourceManual && c.Source != SourceAPI {
		return invalid("contact", "source", "unknown value "+string(c.Source))
	}
	return nil
}
