package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/config"
	httpx "github.com/you/foodauth/internal/http"
	"github.com/you/foodauth/internal/http/handlers"
	"github.com/you/foodauth/internal/http/middleware"
	"github.com/you/foodauth/internal/infrastructure/auth"
	"github.com/you/foodauth/internal/infrastructure/database"
	"github.com/you/foodauth/internal/infrastructure/notifications"
	"github.com/you/foodauth/internal/infrastructure/repositories"
	"github.com/you/foodauth/internal/logging"
	"github.com/you/foodauth/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Log    logging.Logger

	// Infrastructure. DB is nil with the memory driver, Redis is nil with
	// the memory OTP store.
	DB     *gorm.DB
	Redis  *database.RedisClient
	Casbin *auth.CasbinService

	// Repositories
	UserRepo     domain.UserRepository
	LocationRepo domain.LocationRepository
	OTPStore     domain.OTPStore

	// Services
	Audit           domain.AuditLogger
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	AuthGate        domain.AuthGate
	AdminSvc        domain.UserAdminService
	LocationSvc     domain.LocationService
	PolicySvc       domain.PolicyService
}

// NewContainer creates and initializes all dependencies. Store selection
// happens here, once.
func NewContainer(cfg *config.Config, log logging.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initDatabase(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPolicies(); err != nil {
		c.Close()
		return nil, err
	}
	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase() error {
	if c.Config.DBDriver == config.DriverMemory {
		c.Log.Warn(context.Background(), "using in-memory stores; data is lost on restart")
		return nil
	}

	db, err := database.Open(c.Config.DBDriver, c.Config.DSN, c.Config.TablePrefix)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	c.DB = db

	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	return nil
}

func (c *Container) initRedis() error {
	if c.Config.OTP_Store != config.StoreRedis {
		return nil
	}

	c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Redis.Ping(ctx); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.Config.RedisAddr, err)
	}
	return nil
}

func (c *Container) initPolicies() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.TablePrefix)
	if err != nil {
		return err
	}
	c.Casbin = cas

	seeded, err := cas.SeedDefaults()
	if err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	if seeded {
		c.Log.Info(context.Background(), "casbin: seeded default policies", "count", len(auth.DefaultPolicies))
	}
	return nil
}

func (c *Container) initRepositories() {
	if c.DB != nil {
		c.UserRepo = repositories.NewUserRepository(c.DB)
		c.LocationRepo = repositories.NewLocationRepository(c.DB)
	} else {
		c.UserRepo = repositories.NewMemoryUserRepository()
		c.LocationRepo = repositories.NewMemoryLocationRepository()
	}

	if c.Redis != nil {
		c.OTPStore = repositories.NewRedisOTPStore(c.Redis.Client)
	} else {
		c.OTPStore = repositories.NewMemoryOTPStore()
	}
}

func (c *Container) newNotificationService() domain.NotificationService {
	cfg := c.Config
	switch cfg.SMSProvider {
	case config.SMSHTTP:
		return notifications.NewHTTPSMSService(cfg.SMSGatewayURL, cfg.SMSAPIKey, cfg.SMSSenderID, cfg.SMSTimeout)
	case config.SMSLog:
		return notifications.NewLogService(c.Log)
	default:
		return notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Log)
	}
}

func (c *Container) initServices() {
	cfg := c.Config

	c.Audit = logging.NewAuditLogger(c.Log)
	c.PasswordSvc = auth.NewPasswordService(cfg.BcryptCost)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	c.NotificationSvc = c.newNotificationService()

	c.OTPSvc = services.NewOTPService(c.OTPStore, c.NotificationSvc, services.OTPConfig{
		Length:              cfg.OTP_Length,
		TTL:                 cfg.OTP_TTL,
		FailOnDeliveryError: cfg.OTP_FailOnDeliveryErr,
	}, c.Audit, c.Log)

	c.AuthSvc = services.NewAuthService(c.UserRepo, c.PasswordSvc, c.TokenSvc, c.OTPSvc, c.Audit, c.Log)
	c.AuthGate = services.NewAuthGate(c.TokenSvc, c.UserRepo, c.Audit, c.Log)
	c.AdminSvc = services.NewUserAdminService(c.UserRepo, c.Audit)
	c.LocationSvc = services.NewLocationService(c.LocationRepo)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}

// Router builds the HTTP engine over the container's services
func (c *Container) Router() (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	h := httpx.Handlers{
		Auth:     handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc, c.Log),
		Admin:    handlers.NewAdminHandlers(c.AdminSvc, c.Log),
		Policy:   handlers.NewPolicyHandlers(c.PolicySvc, c.Log),
		Location: handlers.NewLocationHandlers(c.LocationSvc, c.Log),
	}
	authMW := middleware.NewAuthMW(c.AuthGate, c.Audit, c.Log)
	policyMW := middleware.NewPolicyMW(c.PolicySvc, c.Audit, c.Log)

	return httpx.BuildRouter(h, authMW, policyMW, c.Log), nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
