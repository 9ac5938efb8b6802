package mocks

import (
	"context"
	"time"

	"github.com/you/foodauth/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	SendFunc   func(ctx context.Context, phone string) (*domain.OTPChallenge, error)
	VerifyFunc func(ctx context.Context, phone, code string) (bool, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Send(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone)
	}
	return &domain.OTPChallenge{Phone: phone, Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}, nil
}

func (m *MockOTPService) Verify(ctx context.Context, phone, code string) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, phone, code)
	}
	// Default behavior: accept "123456"
	return code == "123456", nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
