package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/infrastructure/auth"
	"github.com/you/foodauth/internal/infrastructure/repositories"
	"github.com/you/foodauth/internal/logging"
)

func TestEnsureAdmin(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	passwords := auth.NewPasswordService(4)
	ctx := context.Background()
	acct := AdminAccount{Username: "admin", Email: "Admin@Example.com", Password: "admin123"}

	admin, created, err := EnsureAdmin(ctx, repo, passwords, acct)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, []string{"admin", "user"}, admin.Roles.Strings())
	assert.True(t, passwords.Verify(admin.PasswordHash, "admin123"))

	again, created, err := EnsureAdmin(ctx, repo, passwords, acct)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnsureAdmin_Validation(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	_, _, err := EnsureAdmin(context.Background(), repo, auth.NewPasswordService(4), AdminAccount{Username: "admin", Email: "nope", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestContainer_CheckDB(t *testing.T) {
	c, err := NewContainer(baseConfig(), logging.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, _, err = EnsureAdmin(context.Background(), c.UserRepo, c.PasswordSvc, AdminAccount{Username: "admin", Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)

	report, err := c.CheckDB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "memory", report.Driver)
	assert.Equal(t, int64(1), report.Users)
	assert.Equal(t, len(auth.DefaultPolicies), report.Policies)
}
