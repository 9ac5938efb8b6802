package mocks

import (
	"context"
	"sync"

	"github.com/you/foodauth/domain"
)

// SentSMS is one recorded message
type SentSMS struct {
	To      string
	Message string
}

// MockNotificationService implements domain.NotificationService interface for
// testing. Every call is recorded in Sent.
type MockNotificationService struct {
	SendSMSFunc func(ctx context.Context, to, message string) error

	mu   sync.Mutex
	Sent []SentSMS
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS sends an SMS message
func (m *MockNotificationService) SendSMS(ctx context.Context, to, message string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentSMS{To: to, Message: message})
	m.mu.Unlock()

	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(ctx, to, message)
	}
	// Default behavior: success (no actual SMS sent in tests)
	return nil
}

// Last returns the most recent message, or false if none was sent
func (m *MockNotificationService) Last() (SentSMS, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentSMS{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
