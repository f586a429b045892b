package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
	"github.com/yungbote/jobtrail-backend/internal/platform/sendgrid"
)

// LogMailer stands in for SendGrid when no API key is configured.
type LogMailer struct {
	Log *logger.Logger
}

func (m LogMailer) Send(_ context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	to := make([]string, 0, len(req.To))
	for _, a := range req.To {
		to = append(to, a.Email)
	}
	m.Log.Info("email (log only)", "to", to, "subject", req.Subject)
	return &sendgrid.SendEmailResult{StatusCode: 202, MessageID: "log-" + uuid.NewString()}, nil
}
