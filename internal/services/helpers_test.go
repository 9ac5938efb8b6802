package services

import (
	"testing"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
	"github.com/you/foodauth/internal/mocks"
)

type authDeps struct {
	userRepo    *mocks.MockUserRepository
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	otpSvc      *mocks.MockOTPService
	audit       *mocks.MockAuditLogger
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T) (*AuthServiceImpl, *authDeps) {
	t.Helper()

	d := &authDeps{
		userRepo:    mocks.NewMockUserRepository(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		otpSvc:      mocks.NewMockOTPService(),
		audit:       mocks.NewMockAuditLogger(),
	}
	svc := NewAuthService(d.userRepo, d.passwordSvc, d.tokenSvc, d.otpSvc, d.audit, logging.Nop())
	return svc.(*AuthServiceImpl), d
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           1,
		Username:     "alice",
		Email:        "a@x.com",
		Phone:        "+15550001111",
		PasswordHash: "hashed_s3cret!",
		Role:         domain.RoleUser,
		Roles:        domain.NewRoleSet(domain.RoleUser),
		Status:       domain.StatusActive,
	}
}
