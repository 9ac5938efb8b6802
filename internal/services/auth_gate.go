package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
)

// AuthGateImpl implements domain.AuthGate
type AuthGateImpl struct {
	tokenSvc domain.TokenService
	userRepo domain.UserRepository
	audit    domain.AuditLogger
	log      logging.Logger
}

func NewAuthGate(tokenSvc domain.TokenService, userRepo domain.UserRepository, audit domain.AuditLogger, log logging.Logger) domain.AuthGate {
	return &AuthGateImpl{
		tokenSvc: tokenSvc,
		userRepo: userRepo,
		audit:    audit,
		log:      log.With("component", "gate"),
	}
}

// Resolve implements domain.AuthGate. Every failure is reported as
// domain.ErrUnauthenticated wrapping the cause.
func (g *AuthGateImpl) Resolve(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}

	claims, err := g.tokenSvc.Verify(token)
	if err != nil {
		g.log.Debug(ctx, "token rejected", "reason", err)
		g.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRejectedEvent, 0).WithError(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	var user *domain.User
	switch claims.Subject.Kind {
	case domain.SubjectPhone:
		user, err = g.userRepo.FindByPhone(ctx, claims.Subject.Value)
	default:
		user, err = g.userRepo.FindByUsername(ctx, claims.Subject.Value)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			g.log.Error(ctx, "user lookup failed", "error", err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	if !user.IsActive() {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrUserInactive)
	}
	return user, nil
}

// RequireRole implements domain.AuthGate. No roles means any
// authenticated user.
func (g *AuthGateImpl) RequireRole(user *domain.User, roles ...domain.Role) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if len(roles) == 0 || user.HasAnyRole(roles...) {
		return user, nil
	}
	return nil, domain.ErrForbidden
}
