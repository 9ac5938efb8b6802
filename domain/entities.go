package domain

import "time"

// UserStatus is the lifecycle state of an account
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
	StatusDisabled  UserStatus = "disabled"
)

// Valid reports whether s is a known status
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusDisabled:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	ID            uint
	Username      string
	Email         string
	Phone         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          Role
	Roles         RoleSet
	Status        UserStatus
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLoginAt   *time.Time
}

// IsActive reports whether the account may authenticate
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasAnyRole reports whether the user holds one of roles, either in the
// role set or as the primary role.
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r || u.Roles.Has(r) {
			return true
		}
	}
	return false
}

// PublicUser is the user view returned to clients. It never carries the
// password hash.
type PublicUser struct {
	ID            uint       `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone_number,omitempty"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	Role          Role       `json:"role"`
	Roles         RoleSet    `json:"roles"`
	Status        UserStatus `json:"status"`
	EmailVerified bool       `json:"is_email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLoginAt   *time.Time `json:"last_login"`
}

// Public returns the client-facing view of u
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Phone:         u.Phone,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		Roles:         u.Roles.Clone(),
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		LastLoginAt:   u.LastLoginAt,
	}
}

// RegisterRequest carries the fields accepted at registration
type RegisterRequest struct {
	Username  string
	Email     string
	Password  string
	Phone     string
	FirstName string
	LastName  string
}

// ProfileUpdate carries optional profile changes. Nil fields are left alone.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User        *User
	AccessToken string
	ExpiresIn   int64
}

// SubjectKind tells which unique field a token subject refers to
type SubjectKind string

const (
	SubjectUsername SubjectKind = "username"
	SubjectPhone    SubjectKind = "phone"
)

// Subject is the identity a token is bound to
type Subject struct {
	Kind  SubjectKind
	Value string
}

// OTPChallenge is a live one-time code bound to a phone number
type OTPChallenge struct {
	Phone     string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its expiry at now
func (c *OTPChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Location is a single position report from a user
type Location struct {
	ID         uint
	UserID     uint
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
}
