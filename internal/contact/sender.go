package contact

import (
	"context"

	"github.com/soilminds/soilminds-backend/pkg/logger"
)

// Email is one outbound message.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers contact emails. The default deployment has no SMTP
// credentials, so delivery is pluggable and falls back to logging.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// LogSender records the email instead of sending it.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender returns a sender that only logs.
func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logger: logg}
}

func (s *LogSender) Send(ctx context.Context, email Email) error {
	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"to":      email.To,
		"subject": email.Subject,
	}), "email logged, not sent: no credentials configured")
	return nil
}
