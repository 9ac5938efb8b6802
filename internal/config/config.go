package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port" env:"APP_PORT"`
	GinMode string `yaml:"gin_mode" env:"GIN_MODE"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver" env:"DATABASE_DRIVER"`
	DSN         string `yaml:"dsn" env:"DATABASE_DSN"`
	TablePrefix string `yaml:"table_prefix" env:"DATABASE_TABLE_PREFIX"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret" env:"JWT_SECRET"`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER"`
	AccessTTL string `yaml:"access_ttl" env:"JWT_ACCESS_TTL"`
}

type OTPConfig struct {
	TTL                 string `yaml:"ttl" env:"OTP_TTL"`
	Length              int    `yaml:"length" env:"OTP_LENGTH"`
	Store               string `yaml:"store" env:"OTP_STORE"`
	FailOnDeliveryError bool   `yaml:"fail_on_delivery_error" env:"OTP_FAIL_ON_DELIVERY_ERROR"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `yaml:"from_number" env:"TWILIO_FROM_NUMBER"`
}

// SMSConfig selects the delivery channel. The http provider posts to a
// generic SMS gateway.
type SMSConfig struct {
	Provider   string `yaml:"provider" env:"SMS_PROVIDER"`
	GatewayURL string `yaml:"gateway_url" env:"SMS_GATEWAY_URL"`
	APIKey     string `yaml:"api_key" env:"SMS_API_KEY"`
	SenderID   string `yaml:"sender_id" env:"SMS_SENDER_ID"`
	Timeout    string `yaml:"timeout" env:"SMS_TIMEOUT"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	SMS      SMSConfig      `yaml:"sms"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
}

type Config struct {
	Port                  string
	GinMode               string
	DBDriver              string
	DSN                   string
	TablePrefix           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	JWTSecret             string
	JWTIssuer             string
	AccessTTL             time.Duration
	OTP_TTL               time.Duration
	OTP_Length            int
	OTP_Store             string
	OTP_FailOnDeliveryErr bool
	TwilioSID             string
	TwilioToken           string
	TwilioFrom            string
	SMSProvider           string
	SMSGatewayURL         string
	SMSAPIKey             string
	SMSSenderID           string
	SMSTimeout            time.Duration
	BcryptCost            int
	LogLevel              string
	LogFormat             string
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	StoreRedis  = "redis"
	StoreMemory = "memory"

	SMSTwilio = "twilio"
	SMSHTTP   = "http"
	SMSLog    = "log"
)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads CONFIG_PATH (default config/config.yml), then applies .env and
// environment overrides.
func Load() (*Config, error) {
	return LoadFrom(envOr("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	// .env is optional; variables already in the environment win
	_ = godotenv.Load()

	file := defaultConfigFile()
	if err := loadConfigFile(path, file); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := env.Parse(file); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}

	cfg, err := fromFile(file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfigFile() *ConfigFile {
	return &ConfigFile{
		App:      AppConfig{Port: 8080, GinMode: "release"},
		Database: DatabaseConfig{Driver: DriverPostgres},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		JWT:      JWTConfig{Issuer: "foodauth", AccessTTL: "60m"},
		OTP:      OTPConfig{TTL: "5m", Length: 6, Store: StoreRedis},
		SMS:      SMSConfig{Provider: SMSTwilio, Timeout: "10s"},
		Security: SecurityConfig{BcryptCost: 10},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

func fromFile(f *ConfigFile) (*Config, error) {
	accTTL, err := time.ParseDuration(f.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(f.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	smsTimeout, err := time.ParseDuration(f.SMS.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid SMS timeout: %w", err)
	}

	return &Config{
		Port:                  fmt.Sprintf("%d", f.App.Port),
		GinMode:               f.App.GinMode,
		DBDriver:              strings.ToLower(f.Database.Driver),
		DSN:                   f.Database.DSN,
		TablePrefix:           f.Database.TablePrefix,
		RedisAddr:             f.Redis.Addr,
		RedisPassword:         f.Redis.Password,
		RedisDB:               f.Redis.DB,
		JWTSecret:             f.JWT.Secret,
		JWTIssuer:             f.JWT.Issuer,
		AccessTTL:             accTTL,
		OTP_TTL:               otpTTL,
		OTP_Length:            f.OTP.Length,
		OTP_Store:             strings.ToLower(f.OTP.Store),
		OTP_FailOnDeliveryErr: f.OTP.FailOnDeliveryError,
		TwilioSID:             f.Twilio.AccountSID,
		TwilioToken:           f.Twilio.AuthToken,
		TwilioFrom:            f.Twilio.FromNumber,
		SMSProvider:           strings.ToLower(f.SMS.Provider),
		SMSGatewayURL:         f.SMS.GatewayURL,
		SMSAPIKey:             f.SMS.APIKey,
		SMSSenderID:           f.SMS.SenderID,
		SMSTimeout:            smsTimeout,
		BcryptCost:            f.Security.BcryptCost,
		LogLevel:              f.Log.Level,
		LogFormat:             f.Log.Format,
	}, nil
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []string

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Sprintf("unknown gin mode %q", c.GinMode))
	}

	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
		if c.DSN == "" {
			errs = append(errs, "database dsn is required for driver "+c.DBDriver)
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("unknown database driver %q", c.DBDriver))
	}

	switch c.OTP_Store {
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, "redis addr is required for the redis otp store")
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Sprintf("unknown otp store %q", c.OTP_Store))
	}

	switch c.SMSProvider {
	case SMSTwilio, SMSLog:
	case SMSHTTP:
		if c.SMSGatewayURL == "" {
			errs = append(errs, "sms gateway_url is required for the http provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown sms provider %q", c.SMSProvider))
	}

	if c.JWTSecret == "" {
		errs = append(errs, "jwt secret is required")
	} else if c.GinMode != "debug" && c.GinMode != "test" && len(c.JWTSecret) < 16 {
		errs = append(errs, "jwt secret must be at least 16 chars outside debug mode")
	}
	if c.AccessTTL <= 0 {
		errs = append(errs, "jwt access_ttl must be positive")
	}
	if c.OTP_TTL <= 0 {
		errs = append(errs, "otp ttl must be positive")
	}
	if c.OTP_Length < 4 || c.OTP_Length > 9 {
		errs = append(errs, "otp length must be between 4 and 9")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func loadConfigFile(path string, into *ConfigFile) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, into); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}

	return nil
}
