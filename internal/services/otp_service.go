package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
	"github.com/you/foodauth/internal/validation"
)

// OTPServiceImpl implements domain.OTPService on top of an OTPStore
type OTPServiceImpl struct {
	store           domain.OTPStore
	notificationSvc domain.NotificationService
	audit           domain.AuditLogger
	log             logging.Logger
	config          OTPConfig
	now             func() time.Time
	random          io.Reader
}

type OTPConfig struct {
	Length int
	TTL    time.Duration
	// FailOnDeliveryError makes Send fail, and drop the challenge, when the
	// SMS could not be delivered. Off by default so codes stay usable in
	// development without a provider.
	FailOnDeliveryError bool
}

// NewOTPService creates a new OTP service
func NewOTPService(
	store domain.OTPStore,
	notificationSvc domain.NotificationService,
	config OTPConfig,
	audit domain.AuditLogger,
	log logging.Logger,
) domain.OTPService {
	if config.Length <= 0 {
		config.Length = 6
	}
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	return &OTPServiceImpl{
		store:           store,
		notificationSvc: notificationSvc,
		audit:           audit,
		log:             log.With("component", "otp"),
		config:          config,
		now:             time.Now,
		random:          rand.Reader,
	}
}

// Send implements domain.OTPService
func (s *OTPServiceImpl) Send(ctx context.Context, phone string) (*domain.OTPChallenge, error) {
	phone = strings.TrimSpace(phone)
	if !validation.ValidPhone(phone) {
		return nil, fmt.Errorf("%w: phone must be a phone number like +15551234567", domain.ErrValidation)
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	challenge := &domain.OTPChallenge{
		Phone:     phone,
		Code:      code,
		ExpiresAt: s.now().Add(s.config.TTL),
	}
	if err := s.store.Save(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	minutes := int(s.config.TTL.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	message := fmt.Sprintf("Your OTP is %s. Valid for %d minutes.", code, minutes)

	if err := s.notificationSvc.SendSMS(ctx, phone, message); err != nil {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPDeliveryFailEvent, 0).WithPhone(phone).WithError(err))
		if s.config.FailOnDeliveryError {
			if delErr := s.store.Delete(ctx, phone, code); delErr != nil {
				s.log.Error(ctx, "could not drop undelivered otp", "error", delErr)
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrOTPDelivery, err)
		}
		s.log.Warn(ctx, "sms delivery failed, otp kept", "phone", logging.MaskPhone(phone), "error", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, 0).WithPhone(phone))
	return challenge, nil
}

// Verify implements domain.OTPService
func (s *OTPServiceImpl) Verify(ctx context.Context, phone, code string) (bool, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return false, nil
	}

	ok, err := s.store.Consume(ctx, phone, code)
	if err != nil {
		return false, fmt.Errorf("failed to check OTP: %w", err)
	}

	ev := domain.NewAuditEvent(domain.OTPVerifyEvent, 0).WithPhone(phone)
	if !ok {
		ev = domain.NewAuditEvent(domain.OTPVerifyFailEvent, 0).WithPhone(phone).WithError(domain.ErrOTPInvalid)
	}
	s.audit.LogEvent(ctx, ev)
	return ok, nil
}

// generateCode draws uniformly from [10^(n-1), 10^n - 1], so codes never
// start with zero.
func (s *OTPServiceImpl) generateCode() (string, error) {
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s.config.Length-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))

	n, err := rand.Int(s.random, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, low).String(), nil
}
