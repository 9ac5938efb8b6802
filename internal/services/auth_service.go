package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
	"github.com/you/foodauth/internal/validation"
)

// registration rules; the HTTP layer binds the same shape
type registerInput struct {
	Username  string `validate:"required,min=3,max=64"`
	Email     string `validate:"required,email,max=255"`
	Password  string `validate:"required,max=72"`
	Phone     string `validate:"omitempty,phone"`
	FirstName string `validate:"max=100"`
	LastName  string `validate:"max=100"`
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	audit       domain.AuditLogger
	log         logging.Logger
	validate    *validator.Validate
	now         func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	audit domain.AuditLogger,
	log logging.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		audit:       audit,
		log:         log.With("component", "auth"),
		validate:    validation.New(),
		now:         time.Now,
	}
}

// Register implements domain.AuthService. New accounts always start as
// plain users.
func (s *AuthServiceImpl) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	in := registerInput{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  req.Password,
		Phone:     strings.TrimSpace(req.Phone),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, in.Username, in.Email, in.Phone); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwordSvc.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hashedPassword,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         domain.RoleUser,
		Roles:        domain.NewRoleSet(domain.RoleUser),
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// the store's unique indexes decide races the pre-check missed
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).WithUsername(user.Username))
	return user, nil
}

type uniqueCheck struct {
	field string
	find  func() (*domain.User, error)
}

func (s *AuthServiceImpl) ensureUnique(ctx context.Context, username, email, phone string) error {
	checks := []uniqueCheck{
		{"username", func() (*domain.User, error) { return s.userRepo.FindByUsername(ctx, username) }},
		{"email", func() (*domain.User, error) { return s.userRepo.FindByEmail(ctx, email) }},
	}
	if phone != "" {
		checks = append(checks, uniqueCheck{"phone", func() (*domain.User, error) { return s.userRepo.FindByPhone(ctx, phone) }})
	}

	for _, c := range checks {
		_, err := c.find()
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s already registered", domain.ErrUserAlreadyExists, c.field)
		case errors.Is(err, domain.ErrUserNotFound):
		default:
			return fmt.Errorf("failed to check %s: %w", c.field, err)
		}
	}
	return nil
}

// Login implements domain.AuthService. identifier is a username or an email.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		s.loginFailed(ctx, identifier, "unknown user")
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.loginFailed(ctx, identifier, "bad password")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.loginFailed(ctx, identifier, "inactive")
		return nil, domain.ErrUserInactive
	}

	return s.issue(ctx, user, domain.Subject{Kind: domain.SubjectUsername, Value: user.Username}, "password")
}

// LoginWithOTP implements domain.AuthService. An unknown phone is an
// authentication failure; a wrong or expired code is a bad request.
func (s *AuthServiceImpl) LoginWithOTP(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	phone = strings.TrimSpace(phone)

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).
			WithPhone(phone).
			WithMetadata("method", "otp").
			WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.otpSvc.Verify(ctx, phone, code)
	if err != nil {
		return nil, fmt.Errorf("failed to verify otp: %w", err)
	}
	if !ok {
		return nil, domain.ErrOTPInvalid
	}

	if !user.IsActive() {
		return nil, domain.ErrUserInactive
	}

	return s.issue(ctx, user, domain.Subject{Kind: domain.SubjectPhone, Value: user.Phone}, "otp")
}

func (s *AuthServiceImpl) issue(ctx context.Context, user *domain.User, sub domain.Subject, method string) (*domain.AuthResult, error) {
	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		// a missed timestamp must not block the login
		s.log.Warn(ctx, "could not record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.tokenSvc.Issue(sub, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).
		WithUsername(user.Username).
		WithMetadata("method", method))

	return &domain.AuthResult{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.tokenSvc.DefaultTTL().Seconds()),
	}, nil
}

func (s *AuthServiceImpl) loginFailed(ctx context.Context, identifier, reason string) {
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).
		WithUsername(identifier).
		WithMetadata("method", "password").
		WithMetadata("reason", reason).
		WithError(domain.ErrInvalidCredentials))
}

// UpdateProfile implements domain.AuthService. An empty phone clears it.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uint, upd domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if len(user.FirstName) > 100 || len(user.LastName) > 100 {
		return nil, fmt.Errorf("%w: names must be at most 100 characters", domain.ErrValidation)
	}

	if upd.Phone != nil {
		phone := strings.TrimSpace(*upd.Phone)
		if phone != "" && !validation.ValidPhone(phone) {
			return nil, fmt.Errorf("%w: phone must be a phone number like +15551234567", domain.ErrValidation)
		}
		if phone != "" && phone != user.Phone {
			other, err := s.userRepo.FindByPhone(ctx, phone)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, fmt.Errorf("%w: phone already registered", domain.ErrUserAlreadyExists)
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return nil, fmt.Errorf("failed to check phone: %w", err)
			}
		}
		user.Phone = phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
