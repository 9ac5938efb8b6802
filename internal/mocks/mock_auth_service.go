package mocks

import (
	"context"
	"time"

	"github.com/you/foodauth/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	LoginFunc         func(ctx context.Context, identifier, password string) (*domain.AuthResult, error)
	LoginWithOTPFunc  func(ctx context.Context, phone, code string) (*domain.AuthResult, error)
	UpdateProfileFunc func(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	// Default behavior: return a fresh user
	return &domain.User{
		ID:           1,
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: "hashed_" + req.Password,
		Role:         domain.RoleUser,
		Roles:        domain.NewRoleSet(domain.RoleUser),
		Status:       domain.StatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// Login authenticates with a password
func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return nil, domain.ErrInvalidCredentials
}

// LoginWithOTP authenticates with a one-time code
func (m *MockAuthService) LoginWithOTP(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	if m.LoginWithOTPFunc != nil {
		return m.LoginWithOTPFunc(ctx, phone, code)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, upd)
	}
	return nil, domain.ErrUserNotFound
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
