package mocks

import (
	"context"

	"github.com/you/foodauth/domain"
)

// MockUserAdminService implements domain.UserAdminService for testing
type MockUserAdminService struct {
	ListFunc      func(ctx context.Context, offset, limit int) ([]*domain.User, int64, error)
	GetFunc       func(ctx context.Context, id uint) (*domain.User, error)
	SetRolesFunc  func(ctx context.Context, id uint, roles domain.RoleSet) (*domain.User, error)
	SetStatusFunc func(ctx context.Context, id uint, status domain.UserStatus) (*domain.User, error)
}

func NewMockUserAdminService() *MockUserAdminService {
	return &MockUserAdminService{}
}

func (m *MockUserAdminService) List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, offset, limit)
	}
	return []*domain.User{}, 0, nil
}

func (m *MockUserAdminService) Get(ctx context.Context, id uint) (*domain.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserAdminService) SetRoles(ctx context.Context, id uint, roles domain.RoleSet) (*domain.User, error) {
	if m.SetRolesFunc != nil {
		return m.SetRolesFunc(ctx, id, roles)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserAdminService) SetStatus(ctx context.Context, id uint, status domain.UserStatus) (*domain.User, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil, domain.ErrUserNotFound
}

var _ domain.UserAdminService = (*MockUserAdminService)(nil)
