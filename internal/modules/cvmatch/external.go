package cvmatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

// ExternalScorer delegates scoring to another service. Name is recorded as
// the provenance of results it produces.
type ExternalScorer interface {
	Name() string
	Score(ctx context.Context, resume, jobDescription string) (ExternalResult, error)
}

type ExternalResult struct {
	Score       int                  `json:"score"`
	Matched     []string             `json:"matched_keywords"`
	Missing     []string             `json:"missing_keywords"`
	Suggestions []tracker.Suggestion `json:"suggestions"`
}

var ErrInvalidExternalResult = errors.New("invalid external scorer result")

func validateExternal(r ExternalResult) error {
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("%w: score %d outside 0..100", ErrInvalidExternalResult, r.Score)
	}
	seen := make(map[string]struct{}, len(r.Matched))
	for _, m := range r.Matched {
		seen[strings.ToLower(m)] = struct{}{}
	}
	for _, m := range r.Missing {
		if _, dup := seen[strings.ToLower(m)]; dup {
			return fmt.Errorf("%w: %q both matched and missing", ErrInvalidExternalResult, m)
		}
	}
	for _, s := range r.Suggestions {
		switch s.Priority {
		case tracker.PriorityHigh, tracker.PriorityMedium, tracker.PriorityLow:
		default:
			return fmt.Errorf("%w: suggestion priority %q", ErrInvalidExternalResult, s.Priority)
		}
	}
	return nil
}
