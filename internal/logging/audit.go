package logging

import (
	"context"

	"github.com/you/foodauth/domain"
)

// AuditLogger writes audit events as structured log lines on the "audit"
// channel. Failed events go out at warn level.
type AuditLogger struct {
	log Logger
}

func NewAuditLogger(log Logger) *AuditLogger {
	return &AuditLogger{log: log.With("channel", "audit")}
}

var _ domain.AuditLogger = (*AuditLogger)(nil)

func (a *AuditLogger) LogEvent(ctx context.Context, ev *domain.AuditEvent) {
	if ev == nil {
		return
	}

	args := []any{
		"event", string(ev.EventType),
		"success", ev.Success,
		"at", ev.Timestamp,
	}
	if ev.UserID != 0 {
		args = append(args, "user_id", ev.UserID)
	}
	if ev.Username != "" {
		args = append(args, "username", ev.Username)
	}
	if ev.Phone != "" {
		args = append(args, "phone", MaskPhone(ev.Phone))
	}
	if ev.ErrorMsg != "" {
		args = append(args, "error", ev.ErrorMsg)
	}
	for k, v := range ev.Metadata {
		args = append(args, k, v)
	}

	if ev.Success {
		a.log.Info(ctx, "audit event", args...)
		return
	}
	a.log.Warn(ctx, "audit event", args...)
}

// MaskPhone keeps the last four digits.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	masked := make([]byte, len(phone))
	for i := range phone {
		if i < len(phone)-4 {
			masked[i] = '*'
		} else {
			masked[i] = phone[i]
		}
	}
	return string(masked)
}
