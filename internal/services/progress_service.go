package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/observability"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

// EventRequest is the external shape of submit_event.
type EventRequest struct {
	UserID         uuid.UUID
	Kind           string
	Payload        tracker.EventPayload
	EventDate      time.Time
	IdempotencyKey string
	Backfill       bool
}

type ProgressService interface {
	SubmitEvent(ctx context.Context, req EventRequest) (domainagg.ProgressDelta, error)
	GetProgressSnapshot(ctx context.Context, userID uuid.UUID) (domainagg.ProgressSnapshot, error)
	CreateUser(ctx context.Context, in domainagg.CreateUserInput) (domainagg.CreateUserResult, error)
	RunReminders(ctx context.Context, userID uuid.UUID, now time.Time) ([]tracker.Notification, error)
}

type progressService struct {
	log     *logger.Logger
	agg     domainagg.ProgressAggregate
	metrics *observability.Metrics
}

func NewProgressService(baseLog *logger.Logger, agg domainagg.ProgressAggregate, metrics *observability.Metrics) ProgressService {
	return &progressService{
		log:     baseLog.With("service", "ProgressService"),
		agg:     agg,
		metrics: metrics,
	}
}

// ValidateEventRequest rejects malformed input before anything is written.
func ValidateEventRequest(req EventRequest) error {
	const op = "services.SubmitEvent"
	if req.UserID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	kind := tracker.EventKind(strings.TrimSpace(req.Kind))
	if !kind.Valid() {
		return domainagg.NewError(domainagg.CodeValidation, op, "unknown event kind "+req.Kind, nil)
	}
	if req.EventDate.IsZero() {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing event_date", nil)
	}
	p := req.Payload
	switch kind {
	case tracker.EventApplicationCreated, tracker.EventApplicationStatusChanged:
		if p.ApplicationID == nil || *p.ApplicationID == uuid.Nil {
			return domainagg.NewError(domainagg.CodeValidation, op, "payload.application_id required", nil)
		}
		if kind == tracker.EventApplicationStatusChanged && !p.Status.Valid() {
			return domainagg.NewError(domainagg.CodeValidation, op, "payload.status invalid: "+string(p.Status), nil)
		}
	case tracker.EventOutreachSent:
		if p.OutreachID == nil || *p.OutreachID == uuid.Nil {
			return domainagg.NewError(domainagg.CodeValidation, op, "payload.outreach_id required", nil)
		}
	}
	return nil
}

func (s *progressService) SubmitEvent(ctx context.Context, req EventRequest) (domainagg.ProgressDelta, error) {
	ctx, span := observability.Tracer("jobtrail/services").Start(ctx, "progress.SubmitEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event.kind", req.Kind), attribute.Bool("event.backfill", req.Backfill))

	if err := ValidateEventRequest(req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return domainagg.ProgressDelta{}, err
	}
	delta, err := s.agg.SubmitEvent(ctx, domainagg.SubmitEventInput{
		UserID:         req.UserID,
		Kind:           tracker.EventKind(strings.TrimSpace(req.Kind)),
		Payload:        req.Payload,
		EventDate:      req.EventDate,
		IdempotencyKey: strings.TrimSpace(req.IdempotencyKey),
		Backfill:       req.Backfill,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
		s.log.Warn("submit event failed", "user_id", req.UserID, "kind", req.Kind, "code", domainagg.CodeOf(err), "error", err)
		return domainagg.ProgressDelta{}, err
	}
	for _, n := range delta.NewNotifications {
		s.metrics.IncNotification(string(n.Type))
	}
	span.SetAttributes(
		attribute.Bool("progress.duplicate", delta.Duplicate),
		attribute.Bool("progress.goal_reached", delta.GoalReached),
		attribute.Int("progress.new_quests", len(delta.NewQuests)),
	)
	s.log.Debug("event applied",
		"user_id", req.UserID,
		"kind", req.Kind,
		"duplicate", delta.Duplicate,
		"streak", delta.Streak.CurrentStreak,
		"new_quests", len(delta.NewQuests),
	)
	return delta, nil
}

func (s *progressService) GetProgressSnapshot(ctx context.Context, userID uuid.UUID) (domainagg.ProgressSnapshot, error) {
	ctx, span := observability.Tracer("jobtrail/services").Start(ctx, "progress.Snapshot")
	defer span.End()
	snap, err := s.agg.Snapshot(ctx, userID)
	if err != nil {
		span.RecordError(err)
	}
	return snap, err
}

func (s *progressService) CreateUser(ctx context.Context, in domainagg.CreateUserInput) (domainagg.CreateUserResult, error) {
	if strings.TrimSpace(in.Email) == "" {
		return domainagg.CreateUserResult{}, domainagg.NewError(domainagg.CodeValidation, "services.CreateUser", "missing email", nil)
	}
	return s.agg.CreateUser(ctx, in)
}

func (s *progressService) RunReminders(ctx context.Context, userID uuid.UUID, now time.Time) ([]tracker.Notification, error) {
	ctx, span := observability.Tracer("jobtrail/services").Start(ctx, "progress.RunReminders")
	defer span.End()
	out, err := s.agg.RunReminders(ctx, userID, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, n := range out {
		s.metrics.IncNotification(string(n.Type))
	}
	return out, nil
}
