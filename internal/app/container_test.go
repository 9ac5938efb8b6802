package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/foodauth/internal/config"
	"github.com/you/foodauth/internal/infrastructure/repositories"
	"github.com/you/foodauth/internal/logging"
)

func baseConfig() *config.Config {
	return &config.Config{
		Port:        "0",
		GinMode:     "test",
		DBDriver:    config.DriverMemory,
		OTP_Store:   config.StoreMemory,
		SMSProvider: config.SMSLog,
		JWTSecret:   "test-secret-0123456789",
		JWTIssuer:   "foodauth",
		AccessTTL:   time.Hour,
		OTP_TTL:     5 * time.Minute,
		OTP_Length:  6,
		BcryptCost:  4,
		LogLevel:    "error",
		LogFormat:   "json",
	}
}

func TestNewContainer_Memory(t *testing.T) {
	c, err := NewContainer(baseConfig(), logging.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Redis)
	assert.IsType(t, &repositories.MemoryUserRepository{}, c.UserRepo)
	assert.IsType(t, &repositories.MemoryOTPStore{}, c.OTPStore)

	policies, err := c.PolicySvc.GetPolicies()
	require.NoError(t, err)
	assert.NotEmpty(t, policies)

	r, err := c.Router()
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestNewContainer_SQLiteAndRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := baseConfig()
	cfg.DBDriver = config.DriverSQLite
	cfg.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	cfg.TablePrefix = "fa_"
	cfg.OTP_Store = config.StoreRedis
	cfg.RedisAddr = mr.Addr()

	c, err := NewContainer(cfg, logging.Nop())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.DB)
	require.NotNil(t, c.Redis)
	assert.IsType(t, &repositories.RedisOTPStore{}, c.OTPStore)
	assert.True(t, c.DB.Migrator().HasTable("fa_users"))

	policies, err := c.PolicySvc.GetPolicies()
	require.NoError(t, err)
	assert.NotEmpty(t, policies)

	_, err = c.OTPSvc.Send(context.Background(), "+15550001111")
	require.NoError(t, err)
	assert.True(t, mr.Exists("otp:+15550001111"))
}

func TestNewContainer_RedisUnreachable(t *testing.T) {
	cfg := baseConfig()
	cfg.OTP_Store = config.StoreRedis
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := NewContainer(cfg, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
