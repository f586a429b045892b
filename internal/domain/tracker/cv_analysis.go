package tracker

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ScorerInternal   = "internal"
	MinJobDescLength = 50
)

type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

type Suggestion struct {
	Keyword  string             `json:"keyword"`
	Priority SuggestionPriority `json:"priority"`
	Text     string             `json:"text"`
}

// CvAnalysis survives deletion of its application with the link nulled.
type CvAnalysis struct {
	Model
	UserID          uuid.UUID                       `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User                           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ApplicationID   *uuid.UUID                      `gorm:"type:uuid;index" json:"application_id,omitempty"`
	Application     *Application                    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	JobDescription  string                          `gorm:"column:job_description;not null" json:"job_description"`
	ATSScore        int                             `gorm:"column:ats_score;not null" json:"ats_score"`
	MatchedKeywords datatypes.JSONSlice[string]     `gorm:"column:matched_keywords" json:"matched_keywords"`
	MissingKeywords datatypes.JSONSlice[string]     `gorm:"column:missing_keywords" json:"missing_keywords"`
	Suggestions     datatypes.JSONSlice[Suggestion] `gorm:"column:suggestions" json:"suggestions"`
	APIUsed         string                          `gorm:"column:api_used;not null" json:"api_used"`
}

func (CvAnalysis) TableName() string { return "cv_analysis" }

func ValidateCvAnalysis(a *CvAnalysis) error {
	if a == nil || a.UserID == uuid.Nil {
		return invalid("cv_analysis", "user_id", "required")
	}
	if len(strings.TrimSpace(a.JobDescription)) < MinJobDescLength {
		return invalid("cv_analysis", "job_description", "at least 50 characters")
	}
	if a.ATSScore < 0 || a.ATSScore > 100 {
		return invalid("cv_analysis", "ats_score", "outside 0..100")
	}
	if a.APIUsed == "" {
		a.APIUsed = ScorerInternal
	}
	for _, s := range a.Suggestions {
		switch s.Priority {
		case PriorityHigh, PriorityMedium, PriorityLow:
		default:
			return invalid("cv_analysis", "suggestions", "unknown priority "+string(s.Priority))
		}
	}
	return nil
}
