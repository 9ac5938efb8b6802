package services

import (
	"context"
	"fmt"

	"github.com/you/foodauth/domain"
)

const maxPageSize = 100

// UserAdminServiceImpl implements domain.UserAdminService
type UserAdminServiceImpl struct {
	userRepo domain.UserRepository
	audit    domain.AuditLogger
}

func NewUserAdminService(userRepo domain.UserRepository, audit domain.AuditLogger) domain.UserAdminService {
	return &UserAdminServiceImpl{userRepo: userRepo, audit: audit}
}

// List pages through users ordered by id. limit is clamped to 1..100.
func (s *UserAdminServiceImpl) List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	return s.userRepo.List(ctx, offset, limit)
}

func (s *UserAdminServiceImpl) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// SetRoles replaces the role set. The primary role follows it: admin when
// present, user otherwise.
func (s *UserAdminServiceImpl) SetRoles(ctx context.Context, id uint, roles domain.RoleSet) (*domain.User, error) {
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: at least one role is required", domain.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := user.Roles.Strings()
	user.Roles = roles.Clone()
	user.Role = domain.RoleUser
	if roles.Has(domain.RoleAdmin) {
		user.Role = domain.RoleAdmin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.RolesChangedEvent, user.ID).
		WithUsername(user.Username).
		WithMetadata("before", before).
		WithMetadata("after", user.Roles.Strings()))
	return user, nil
}

func (s *UserAdminServiceImpl) SetStatus(ctx context.Context, id uint, status domain.UserStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
