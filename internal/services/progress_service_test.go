package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/jobtrail-backend/internal/domain/aggregates"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type spyProgressAggregate struct {
	submitted []domainagg.SubmitEventInput
	delta     domainagg.ProgressDelta
}

func (s *spyProgressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func (s *spyProgressAggregate) CreateUser(context.Context, domainagg.CreateUserInput) (domainagg.CreateUserResult, error) {
	return domainagg.CreateUserResult{}, nil
}

func (s *spyProgressAggregate) SubmitEvent(_ context.Context, in domainagg.SubmitEventInput) (domainagg.ProgressDelta, error) {
	s.submitted = append(s.submitted, in)
	return s.delta, nil
}

func (s *spyProgressAggregate) Snapshot(context.Context, uuid.UUID) (domainagg.ProgressSnapshot, error) {
	return domainagg.ProgressSnapshot{}, nil
}

func (s *spyProgressAggregate) RunReminders(context.Context, uuid.UUID, time.Time) ([]tracker.Notification, error) {
	return nil, nil
}

func TestSubmitEvent_ValidatesBeforeWrite(t *testing.T) {
	appID := uuid.New()
	userID := uuid.New()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bad := map[string]EventRequest{
		"missing user":   {Kind: string(tracker.EventApplicationCreated), Payload: tracker.EventPayload{ApplicationID: &appID}, EventDate: day},
		"unknown kind":   {UserID: userID, Kind: "Hired", EventDate: day},
		"missing date":   {UserID: userID, Kind: string(tracker.EventApplicationCreated), Payload: tracker.EventPayload{ApplicationID: &appID}},
		"missing app id": {UserID: userID, Kind: string(tracker.EventApplicationCreated), EventDate: day},
		"bad status":     {UserID: userID, Kind: string(tracker.EventApplicationStatusChanged), Payload: tracker.EventPayload{ApplicationID: &appID, Status: "Ghosted"}, EventDate: day},
		"missing reach":  {UserID: userID, Kind: string(tracker.EventOutreachSent), EventDate: day},
	}
	for name, req := range bad {
		spy := &spyProgressAggregate{}
		svc := NewProgressService(logger.Nop(), spy, nil)
		_, err := svc.SubmitEvent(context.Background(), req)
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("%s: expected validation error, got=%v", name, err)
		}
		if len(spy.submitted) != 0 {
			t.Fatalf("%s: aggregate called for invalid input", name)
		}
	}
}

func TestSubmitEvent_PassesThroughValidRequest(t *testing.T) {
	appID := uuid.New()
	spy := &spyProgressAggregate{delta: domainagg.ProgressDelta{
		GoalReached:      true,
		NewNotifications: []tracker.Notification{{Type: tracker.NotifyGoalReminder}},
	}}
	svc := NewProgressService(logger.Nop(), spy, nil)

	delta, err := svc.SubmitEvent(context.Background(), EventRequest{
		UserID:         uuid.New(),
		Kind:           " " + string(tracker.EventApplicationStatusChanged) + " ",
		Payload:        tracker.EventPayload{ApplicationID: &appID, Status: tracker.StatusInterview},
		EventDate:      time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
		IdempotencyKey: " k1 ",
		Backfill:       true,
	})
	if err != nil {
		t.Fatalf("SubmitEvent: %v", err)
	}
	if !delta.GoalReached {
		t.Fatalf("delta not returned")
	}
	if len(spy.submitted) != 1 {
		t.Fatalf("submitted: want=1 got=%d", len(spy.submitted))
	}
	in := spy.submitted[0]
	if in.Kind != tracker.EventApplicationStatusChanged || in.IdempotencyKey != "k1" || !in.Backfill {
		t.Fatalf("unexpected input: %+v", in)
	}
}
