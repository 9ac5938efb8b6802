package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// OTP events
	OTPRequestEvent      AuditEventType = "OTP_REQUESTED"
	OTPDeliveryFailEvent AuditEventType = "OTP_DELIVERY_FAILED"
	OTPVerifyEvent       AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailEvent   AuditEventType = "OTP_VERIFICATION_FAILED"

	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	TokenRejectedEvent    AuditEventType = "TOKEN_REJECTED"

	// Authorization events
	AccessDeniedEvent AuditEventType = "ACCESS_DENIED"
	RolesChangedEvent AuditEventType = "ROLES_CHANGED"
)

// AuditEvent represents a security-relevant event
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    uint                   `json:"user_id,omitempty"`
	Username  string                 `json:"username,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError marks the event failed
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithUsername sets the username field
func (e *AuditEvent) WithUsername(username string) *AuditEvent {
	e.Username = username
	return e
}

// WithPhone sets the phone field
func (e *AuditEvent) WithPhone(phone string) *AuditEvent {
	e.Phone = phone
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
