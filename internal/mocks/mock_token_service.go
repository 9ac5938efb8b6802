package mocks

import (
	"strings"
	"time"

	"github.com/you/foodauth/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens look like "token:<kind>:<value>".
type MockTokenService struct {
	IssueFunc      func(subject domain.Subject, ttl time.Duration) (string, error)
	VerifyFunc     func(token string) (*domain.TokenClaims, error)
	DefaultTTLFunc func() time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Issue(subject domain.Subject, ttl time.Duration) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(subject, ttl)
	}
	return "token:" + string(subject.Kind) + ":" + subject.Value, nil
}

func (m *MockTokenService) Verify(token string) (*domain.TokenClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "token" {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{
		Subject:   domain.Subject{Kind: domain.SubjectKind(parts[1]), Value: parts[2]},
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *MockTokenService) DefaultTTL() time.Duration {
	if m.DefaultTTLFunc != nil {
		return m.DefaultTTLFunc()
	}
	return time.Hour
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
