package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations. Implementations must
// reject duplicate usernames, emails and phones atomically with
// ErrUserAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	Update(ctx context.Context, user *User) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, offset, limit int) ([]*User, int64, error)
	Count(ctx context.Context) (int64, error)
}

// LocationRepository defines location data access operations
type LocationRepository interface {
	Create(ctx context.Context, loc *Location) error
	ListByUser(ctx context.Context, userID uint) ([]*Location, error)
}

// OTPStore holds at most one live challenge per phone
type OTPStore interface {
	// Save stores c, replacing any challenge for the same phone
	Save(ctx context.Context, c *OTPChallenge) error
	// Consume evicts the challenge and returns true when code matches a live
	// challenge. Expired challenges are evicted and reported as false. A
	// mismatch leaves the challenge in place.
	Consume(ctx context.Context, phone, code string) (bool, error)
	// Delete removes the challenge for phone while it still holds code; a
	// newer challenge saved in between is left alone
	Delete(ctx context.Context, phone, code string) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	LoginWithOTP(ctx context.Context, phone, code string) (*AuthResult, error)
	UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*User, error)
}

// UserAdminService defines user management for administrators
type UserAdminService interface {
	List(ctx context.Context, offset, limit int) ([]*User, int64, error)
	Get(ctx context.Context, id uint) (*User, error)
	SetRoles(ctx context.Context, id uint, roles RoleSet) (*User, error)
	SetStatus(ctx context.Context, id uint, status UserStatus) (*User, error)
}

// AuthGate resolves bearer tokens to users and enforces roles
type AuthGate interface {
	Resolve(ctx context.Context, token string) (*User, error)
	RequireRole(user *User, roles ...Role) (*User, error)
}

// OTPService defines OTP operations
type OTPService interface {
	Send(ctx context.Context, phone string) (*OTPChallenge, error)
	Verify(ctx context.Context, phone, code string) (bool, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	Issue(subject Subject, ttl time.Duration) (string, error)
	Verify(token string) (*TokenClaims, error)
	DefaultTTL() time.Duration
}

// NotificationService delivers text messages to phones
type NotificationService interface {
	SendSMS(ctx context.Context, to, message string) error
}

// LocationService defines location logging
type LocationService interface {
	Record(ctx context.Context, userID uint, latitude, longitude float64) (*Location, error)
	List(ctx context.Context, userID uint) ([]*Location, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(sub, obj, act string) error
	RemovePolicy(sub, obj, act string) error
	CheckPermission(sub, obj, act string) (bool, error)
	CheckAnyRole(roles []Role, obj, act string) (bool, error)
	GetPolicies() ([][]string, error)
}

// TokenClaims represents verified token claims
type TokenClaims struct {
	Subject   Subject
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}
