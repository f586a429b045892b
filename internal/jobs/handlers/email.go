package handlers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/jobtrail-backend/internal/data/repos"
	domainjobs "github.com/yungbote/jobtrail-backend/internal/domain/jobs"
	"github.com/yungbote/jobtrail-backend/internal/domain/tracker"
	"github.com/yungbote/jobtrail-backend/internal/jobs/runtime"
	"github.com/yungbote/jobtrail-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrail-backend/internal/platform/sendgrid"
)

// NotificationEmail delivers notifications queued by an event transaction.
// A send failure fails the run and the worker retries it; the notifications
// themselves are already committed.
type NotificationEmail struct {
	Users         repos.UserRepo
	Notifications repos.NotificationRepo
	Mail          sendgrid.Client
}

func (h *NotificationEmail) Type() string { return domainjobs.TypeNotificationEmail }

func (h *NotificationEmail) Run(jc *runtime.Context) error {
	var payload domainjobs.NotificationEmailPayload
	if err := jc.DecodePayload(&payload); err != nil {
		return err
	}
	dbc := dbctx.Context{Ctx: jc.Ctx}
	u, err := h.Users.GetByID(dbc, jc.Job.OwnerUserID)
	if err != nil {
		return err
	}
	if u == nil || !u.NotificationPrefs.Data().EmailEnabled {
		jc.Log.Debug("email delivery skipped", "reason", "disabled or no user")
		return nil
	}

	rows, err := h.Notifications.ListUnemailed(dbc, u.ID, payload.NotificationIDs)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	subject, text := compose(rows)
	res, err := h.Mail.Send(jc.Ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: u.Email, Name: u.DisplayName}},
		Subject:    subject,
		Text:       text,
		Categories: []string{"notification"},
		CustomArgs: map[string]string{"job_id": jc.Job.ID.String()},
	})
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, n := range rows {
		ids = append(ids, n.ID)
	}
	if err := h.Notifications.MarkEmailed(dbc, ids, jc.Now()); err != nil {
		return err
	}
	msgID := ""
	if res != nil {
		msgID = res.MessageID
	}
	jc.Log.Info("notification email sent", "count", len(ids), "message_id", msgID)
	return nil
}

func compose(rows []*tracker.Notification) (subject, text string) {
	if len(rows) == 1 {
		return rows[0].Title, rows[0].Message
	}
	var b strings.Builder
	for _, n := range rows {
		fmt.Fprintf(&b, "%s\n%s\n\n", n.Title, n.Message)
	}
	return fmt.Sprintf("You have %d new updates", len(rows)), strings.TrimSpace(b.String())
}
