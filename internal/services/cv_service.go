package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/modules/cvmatch"
	"github.com/yungbote/jobtrail-backend/internal/observability"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type CvAnalysisRequest struct {
	UserID         uuid.UUID
	ApplicationID  *uuid.UUID
	ResumeText     string
	JobDescription string
}

type CvService interface {
	RequestCvAnalysis(ctx context.Context, req CvAnalysisRequest) (*tracker.CvAnalysis, error)
}

type cvService struct {
	log      *logger.Logger
	analyzer *cvmatch.Analyzer
	agg      domainagg.CvAggregate
	metrics  *observability.Metrics
}

func NewCvService(baseLog *logger.Logger, analyzer *cvmatch.Analyzer, agg domainagg.CvAggregate, metrics *observability.Metrics) CvService {
	return &cvService{
		log:      baseLog.With("service", "CvService"),
		analyzer: analyzer,
		agg:      agg,
		metrics:  metrics,
	}
}

func (s *cvService) RequestCvAnalysis(ctx context.Context, req CvAnalysisRequest) (*tracker.CvAnalysis, error) {
	const op = "services.RequestCvAnalysis"
	if req.UserID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing resume text", nil)
	}
	if req.ApplicationID != nil && *req.ApplicationID == uuid.Nil {
		req.ApplicationID = nil
	}

	ctx, span := observability.Tracer("jobtrail/services").Start(ctx, "cv.RequestAnalysis")
	defer span.End()

	res, err := s.analyzer.Analyze(ctx, req.ResumeText, req.JobDescription)
	if errors.Is(err, cvmatch.ErrJobDescriptionTooShort) {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}
	if err != nil {
		span.RecordError(err)
		return nil, domainagg.Wrap(domainagg.CodeExternal, op, err)
	}
	s.metrics.IncCvScorer(res.APIUsed)

	row := &tracker.CvAnalysis{
		UserID:          req.UserID,
		ApplicationID:   req.ApplicationID,
		JobDescription:  strings.TrimSpace(req.JobDescription),
		ATSScore:        res.Score,
		MatchedKeywords: datatypes.JSONSlice[string](res.Matched),
		MissingKeywords: datatypes.JSONSlice[string](res.Missing),
		Suggestions:     datatypes.JSONSlice[tracker.Suggestion](res.Suggestions),
		APIUsed:         res.APIUsed,
	}
	if err := s.agg.RecordAnalysis(ctx, row); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.log.Info("cv analysis recorded", "user_id", req.UserID, "score", row.ATSScore, "api_used", row.APIUsed)
	return row, nil
}
