package tracker

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"gorm.io/datatypes"
)

// NotificationPrefs is stored as JSON on the user row.
type NotificationPrefs struct {
	EmailEnabled  bool               `json:"email_enabled"`
	DisabledTypes []NotificationType `json:"disabled_types,omitempty"`
}

func (p NotificationPrefs) Allows(t NotificationType) bool {
	for _, d := range p.DisabledTypes {
		if d == t {
			return false
		}
	}
	return true
}

type User struct {
	Model
	Email             string                                `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash      string                                `gorm:"column:password_hash;not null" json:"-"`
	DisplayName       string                                `gorm:"column:display_name;not null" json:"display_name"`
	NotificationPrefs datatypes.JSONType[NotificationPrefs] `gorm:"column:notification_prefs" json:"notification_prefs"`
	LastLoginAt       *time.Time                            `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	LastActivityAt    *time.Time                            `gorm:"column:last_activity_at" json:"last_activity_at,omitempty"`
}

func (User) TableName() string { return "user" }

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email, ".")
}

func ValidateUser(u *User) error {
	if u == nil {
		return invalid("user", "", "missing")
	}
	if !ValidEmail(u.Email) || u.Email != NormalizeEmail(u.Email) {
		return invalid("user", "email", "must be a normalised address")
	}
	if u.PasswordHash == "" {
		return invalid("user", "password_hash", "required")
	}
	if len(strings.TrimSpace(u.DisplayName)) < 2 {
		return invalid("user", "display_name", "at least 2 characters")
	}
	for _, t := range u.NotificationPrefs.Data().DisabledTypes {
		if !t.Valid() {
			return invalid("user", "notification_prefs", "unknown type "+string(t))
		}
	}
	return nil
}

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword enforces the signup strength rule: eight characters with
// upper, lower, digit and one of passwordSpecials.
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return invalid("user", "password", "at least 8 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	switch {
	case !upper:
		return invalid("user", "password", "needs an uppercase letter")
	case !lower:
		return invalid("user", "password", "needs a lowercase letter")
	case !digit:
		return invalid("user", "password", "needs a digit")
	case !special:
		return invalid("user", "password", "needs a special character")
	}
	return nil
}
