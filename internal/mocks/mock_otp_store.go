package mocks

import (
	"context"

	"github.com/you/foodauth/domain"
)

// MockOTPStore implements domain.OTPStore interface for testing
type MockOTPStore struct {
	SaveFunc    func(ctx context.Context, c *domain.OTPChallenge) error
	ConsumeFunc func(ctx context.Context, phone, code string) (bool, error)
	DeleteFunc  func(ctx context.Context, phone, code string) error
}

func NewMockOTPStore() *MockOTPStore {
	return &MockOTPStore{}
}

func (m *MockOTPStore) Save(ctx context.Context, c *domain.OTPChallenge) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	return nil
}

func (m *MockOTPStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, phone, code)
	}
	// Default behavior: no live challenge
	return false, nil
}

func (m *MockOTPStore) Delete(ctx context.Context, phone, code string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, phone, code)
	}
	return nil
}

var _ domain.OTPStore = (*MockOTPStore)(nil)
