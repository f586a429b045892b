package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/jobs/runtime"
)

type ReminderRunner interface {
	RunReminders(ctx context.Context, userID uuid.UUID, now time.Time) ([]tracker.Notification, error)
}

// ReminderSweep runs the reminder pass for the job's owner.
type ReminderSweep struct {
	Progress ReminderRunner
}

func (h *ReminderSweep) Type() string { return domainjobs.TypeReminderSweep }

func (h *ReminderSweep) Run(jc *runtime.Context) error {
	created, err := h.Progress.RunReminders(jc.Ctx, jc.Job.OwnerUserID, jc.Now())
	if err != nil {
		return err
	}
	if len(created) > 0 {
		jc.Log.Debug("reminders dispatched", "count", len(created))
	}
	return nil
}
