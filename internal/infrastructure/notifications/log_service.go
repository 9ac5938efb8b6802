package notifications

import (
	"context"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
)

// LogService writes messages to the log instead of sending them. Used in
// development and when no provider is configured.
type LogService struct {
	log logging.Logger
}

func NewLogService(log logging.Logger) domain.NotificationService {
	return &LogService{log: log}
}

func (s *LogService) SendSMS(ctx context.Context, to, message string) error {
	s.log.Info(ctx, "sms not sent, logging only", "to", to, "message", message)
	return nil
}
