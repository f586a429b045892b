package tracker

import (
	"strings"

	"github.com/google/uuid"
)

type Source string

const (
	SourceManual Source = "Manual"
	SourceCSV    Source = "CSV"
	SourceAPI    Source = "API"
)

func (s Source) Valid() bool {
	return s == SourceManual || s == SourceCSV || s == SourceAPI
}

// Company names are unique per user ignoring case; NameNormalized carries the
// folded name so the unique index works on every dialect.
type Company struct {
	Model
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_company_user_name,priority:1" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	NameNormalized string    `gorm:"column:name_normalized;not null;uniqueIndex:idx_company_user_name,priority:2" json:"-"`
	Industry       string    `gorm:"column:industry" json:"industry,omitempty"`
	Website        string    `gorm:"column:website" json:"website,omitempty"`
	Source         Source    `gorm:"column:source;not null" json:"source"`
}

func (Company) TableName() string { return "company" }

func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ValidateCompany also fills NameNormalized and the default source.
func ValidateCompany(c *Company) error {
	if c == nil || c.UserID == uuid.Nil {
		return invalid("company", "user_id", "required")
	}
	c.Name = strings.TrimSpace(c.Name)
	if len(c.Name) < 2 {
		return invalid("company", "name", "at least 2 characters")
	}
	if c.Source == "" {
		c.Source = SourceManual
	}
	if !c.Source.Valid() {
		return invalid("company", "source", "unknown value "+string(c.Source))
	}
	c.NameNormalized = NormalizeName(c.Name)
	return nil
}
