package tracker

import (
	"strings"

	"github.com/google/uuid"
)

type Sentiment string

const (
	SentimentExcited      Sentiment = "Excited and ready"
	SentimentOverwhelmed  Sentiment = "Overwhelmed but motivated"
	SentimentFrustrated   Sentiment = "Frustrated and stuck"
	SentimentJustStarting Sentiment = "Just getting started"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentExcited, SentimentOverwhelmed, SentimentFrustrated, SentimentJustStarting:
		return true
	}
	return false
}

// OnboardingProfile is written once at signup and never updated.
type OnboardingProfile struct {
	Model
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Sentiment      Sentiment `gorm:"column:sentiment;not null" json:"sentiment"`
	DreamMilestone string    `gorm:"column:dream_milestone" json:"dream_milestone"`
}

func (OnboardingProfile) TableName() string { return "onboarding_profile" }

func ValidateOnboarding(p *OnboardingProfile) error {
	if p == nil || p.UserID == uuid.Nil {
		return invalid("onboarding_profile", "user_id", "required")
	}
	if !p.Sentiment.Valid() {
		return invalid("onboarding_profile", "sentiment", "unknown value "+string(p.Sentiment))
	}
	if len(strings.TrimSpace(p.DreamMilestone)) > 500 {
		return invalid("onboarding_profile", "dream_milestone", "at most 500 characters")
	}
	return nil
}
