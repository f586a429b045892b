package cvmatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

var ErrJobDescriptionTooShort = errors.New("job description too short")

// Analyzer picks the external scorer when configured and falls back to the
// internal one on error, timeout or an invalid answer. Fallback is never an
// error for the caller; APIUsed tells which path produced the result.
type Analyzer struct {
	log      *logger.Logger
	internal *Scorer
	external ExternalScorer
	timeout  time.Duration
}

func NewAnalyzer(log *logger.Logger, cfg Config, external ExternalScorer) *Analyzer {
	cfg = cfg.withDefaults()
	return &Analyzer{
		log:      log.With("service", "CvAnalyzer"),
		internal: NewScorer(cfg),
		external: external,
		timeout:  cfg.ExternalTimeout,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, resume, jobDescription string) (Result, error) {
	if len(strings.TrimSpace(jobDescription)) < tracker.MinJobDescLength {
		return Result{}, fmt.Errorf("%w: need %d characters", ErrJobDescriptionTooShort, tracker.MinJobDescLength)
	}
	ctx, span := otel.Tracer("jobtrail/cvmatch").Start(ctx, "cvmatch.Analyze")
	defer span.End()

	if a.external != nil {
		res, err := a.callExternal(ctx, resume, jobDescription)
		if err == nil {
			span.SetAttributes(attribute.String("cv.api_used", res.APIUsed), attribute.Int("cv.score", res.Score))
			return res, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "external scorer failed")
		a.log.Warn("external scorer failed; using internal scorer", "scorer", a.external.Name(), "error", err)
	}
	res := a.internal.Score(resume, jobDescription)
	span.SetAttributes(attribute.String("cv.api_used", res.APIUsed), attribute.Int("cv.score", res.Score))
	return res, nil
}

// callExternal bounds the call even when the implementation ignores ctx.
func (a *Analyzer) callExternal(ctx context.Context, resume, jd string) (Result, error) {
	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type answer struct {
		r   ExternalResult
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		r, err := a.external.Score(cctx, resume, jd)
		ch <- answer{r, err}
	}()

	select {
	case <-cctx.Done():
		return Result{}, fmt.Errorf("external scorer %s: %w", a.external.Name(), cctx.Err())
	case ans := <-ch:
		if ans.err != nil {
			return Result{}, fmt.Errorf("external scorer %s: %w", a.external.Name(), ans.err)
		}
		if err := validateExternal(ans.r); err != nil {
			return Result{}, err
		}
		res := Result{
			Score:       ans.r.Score,
			Matched:     nonNil(ans.r.Matched),
			Missing:     nonNil(ans.r.Missing),
			Suggestions: ans.r.Suggestions,
			APIUsed:     a.external.Name(),
		}
		if res.Suggestions == nil {
			res.Suggestions = []tracker.Suggestion{}
		}
		return res, nil
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
