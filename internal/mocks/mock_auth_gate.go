package mocks

import (
	"context"

	"github.com/you/foodauth/domain"
)

// MockAuthGate implements domain.AuthGate for testing. Tokens map to users
// through the Users field by default.
type MockAuthGate struct {
	ResolveFunc     func(ctx context.Context, token string) (*domain.User, error)
	RequireRoleFunc func(user *domain.User, roles ...domain.Role) (*domain.User, error)

	Users map[string]*domain.User
}

func NewMockAuthGate() *MockAuthGate {
	return &MockAuthGate{Users: make(map[string]*domain.User)}
}

func (m *MockAuthGate) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, token)
	}
	if u, ok := m.Users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (m *MockAuthGate) RequireRole(user *domain.User, roles ...domain.Role) (*domain.User, error) {
	if m.RequireRoleFunc != nil {
		return m.RequireRoleFunc(user, roles...)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if len(roles) == 0 || user.HasAnyRole(roles...) {
		return user, nil
	}
	return nil, domain.ErrForbidden
}

var _ domain.AuthGate = (*MockAuthGate)(nil)
