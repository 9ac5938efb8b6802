package mocks

import (
	"context"
	"sync"

	"github.com/you/foodauth/domain"
)

// MockAuditLogger records audit events for assertions
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Types returns the recorded event types in order
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.EventType
	}
	return out
}

var _ domain.AuditLogger = (*MockAuditLogger)(nil)
