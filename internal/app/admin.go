package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/validation"
)

// AdminAccount describes the administrator account created by authctl
type AdminAccount struct {
	Username string `validate:"required,min=3,max=64"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,max=72"`
	Phone    string `validate:"omitempty,phone"`
}

// EnsureAdmin creates the admin account unless the username is taken. It
// reports whether a user was created; an existing account is returned
// unchanged.
func EnsureAdmin(ctx context.Context, users domain.UserRepository, passwords domain.PasswordService, acct AdminAccount) (*domain.User, bool, error) {
	acct.Username = strings.TrimSpace(acct.Username)
	acct.Email = strings.ToLower(strings.TrimSpace(acct.Email))
	acct.Phone = strings.TrimSpace(acct.Phone)

	if err := validation.Struct(validation.New(), acct); err != nil {
		return nil, false, err
	}

	existing, err := users.FindByUsername(ctx, acct.Username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := passwords.Hash(acct.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		Username:      acct.Username,
		Email:         acct.Email,
		Phone:         acct.Phone,
		PasswordHash:  hash,
		FirstName:     "Admin",
		LastName:      "User",
		Role:          domain.RoleAdmin,
		Roles:         domain.NewRoleSet(domain.RoleAdmin, domain.RoleUser),
		Status:        domain.StatusActive,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

// DBReport summarises what check-db found
type DBReport struct {
	Driver   string
	Users    int64
	Policies int
}

// CheckDB verifies the stores are reachable and counts what they hold
func (c *Container) CheckDB(ctx context.Context) (*DBReport, error) {
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("database ping: %w", err)
		}
	}

	users, err := c.UserRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	policies, err := c.PolicySvc.GetPolicies()
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return &DBReport{Driver: c.Config.DBDriver, Users: users, Policies: len(policies)}, nil
}
