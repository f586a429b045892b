package cvmatch

import (
	"fmt"
	"math"
	"strings"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
)

type Result struct {
	Score       int
	Matched     []string
	Missing     []string
	Suggestions []tracker.Suggestion
	APIUsed     string
}

// Scorer is the internal keyword-overlap scorer.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg.withDefaults()}
}

func (s *Scorer) Config() Config { return s.cfg }

// Score compares a résumé against a job description. Matched and Missing
// partition the job description keywords and keep their weight order.
func (s *Scorer) Score(resume, jobDescription string) Result {
	kws := ExtractKeywords(jobDescription, s.cfg)
	res := Result{APIUsed: tracker.ScorerInternal, Matched: []string{}, Missing: []string{}}
	if len(kws) == 0 {
		return res
	}
	ix := newResumeIndex(resume, s.cfg)
	var missing []Keyword
	for _, kw := range kws {
		if ix.matches(kw) {
			res.Matched = append(res.Matched, kw.Term)
		} else {
			res.Missing = append(res.Missing, kw.Term)
			missing = append(missing, kw)
		}
	}
	res.Score = clampScore(int(math.Round(100 * float64(len(res.Matched)) / float64(len(kws)))))
	res.Suggestions = suggest(missing, s.cfg.TopSuggestions)
	return res
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

type resumeIndex struct {
	cfg    Config
	keys   map[string]struct{}
	sorted []string
	folded string
}

func newResumeIndex(resume string, cfg Config) *resumeIndex {
	ix := &resumeIndex{cfg: cfg, keys: map[string]struct{}{}}
	for _, tok := range Tokenize(resume, cfg) {
		if _, ok := ix.keys[tok.Key]; ok {
			continue
		}
		ix.keys[tok.Key] = struct{}{}
		ix.sorted = append(ix.sorted, tok.Key)
	}
	if cfg.Substring {
		ix.folded = fold(resume)
	}
	return ix
}

func (ix *resumeIndex) matches(kw Keyword) bool {
	if _, ok := ix.keys[kw.Key]; ok {
		return true
	}
	if ix.cfg.MaxEditDistance > 0 && len([]rune(kw.Key)) >= ix.cfg.MinFuzzyLength {
		for _, k := range ix.sorted {
			if withinDistance(kw.Key, k, ix.cfg.MaxEditDistance) {
				return true
			}
		}
	}
	if ix.cfg.Substring && len([]rune(kw.Key)) >= ix.cfg.MinSubstringLength {
		return strings.Contains(ix.folded, kw.Key)
	}
	return false
}

// suggest turns the heaviest missing keywords into advice. The top third is
// high priority, the next third medium, the rest low.
func suggest(missing []Keyword, top int) []tracker.Suggestion {
	if len(missing) > top {
		missing = missing[:top]
	}
	n := len(missing)
	out := make([]tracker.Suggestion, 0, n)
	for i, kw := range missing {
		var (
			p    tracker.SuggestionPriority
			text string
		)
		switch i * 3 / n {
		case 0:
			p = tracker.PriorityHigh
			text = fmt.Sprintf("Add %q to your résumé; the job description mentions it %s.", kw.Term, times(kw.Weight))
		case 1:
			p = tracker.PriorityMedium
			text = fmt.Sprintf("Mention your experience with %q in a project or role description.", kw.Term)
		default:
			p = tracker.PriorityLow
			text = fmt.Sprintf("Consider listing %q in your skills section if it applies.", kw.Term)
		}
		out = append(out, tracker.Suggestion{Keyword: kw.Term, Priority: p, Text: text})
	}
	return out
}

func times(n int) string {
	if n == 1 {
		return "once"
	}
	return fmt.Sprintf("%d times", n)
}
