package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/you/foodauth/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags).
// Phone is nullable so several users may have none.
type DBUser struct {
	ID            uint           `gorm:"primaryKey"`
	Username      string         `gorm:"uniqueIndex;size:64;not null"`
	Email         string         `gorm:"uniqueIndex;size:255;not null"`
	Phone         *string        `gorm:"uniqueIndex;size:32"`
	PasswordHash  string         `gorm:"column:hashed_password;not null"`
	FirstName     string         `gorm:"size:100"`
	LastName      string         `gorm:"size:100"`
	Role          string         `gorm:"index;size:32;not null"`
	Roles         datatypes.JSON `gorm:"not null"`
	Status        string         `gorm:"index;size:16;not null"`
	EmailVerified bool           `gorm:"column:is_email_verified"`
	CreatedAt     time.Time      `gorm:"index"`
	UpdatedAt     time.Time
	LastLoginAt   *time.Time `gorm:"column:last_login"`
}

// TableName returns the table name for GORM, honouring the configured prefix
func (DBUser) TableName(namer schema.Namer) string {
	return namer.TableName("users")
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser, err := r.domainToDB(user)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: %s", domain.ErrUserAlreadyExists, user.Username)
		}
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if phone == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "phone = ?", phone)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// Update implements domain.UserRepository. Every column except id and
// created_at is overwritten.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser, err := r.domainToDB(user)
	if err != nil {
		return err
	}
	dbUser.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&DBUser{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(dbUser)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return fmt.Errorf("%w: %s", domain.ErrUserAlreadyExists, user.Username)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// TouchLastLogin implements domain.UserRepository
func (r *UserRepositoryImpl) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("last_login", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List implements domain.UserRepository
func (r *UserRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&DBUser{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []DBUser
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		u, err := r.dbToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}

// Count implements domain.UserRepository
func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Count(&n).Error
	return n, err
}

// isDuplicate recognises unique violations. The database is opened with
// TranslateError, so every supported driver reports gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) (*DBUser, error) {
	roles, err := json.Marshal(user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roles: %w", err)
	}

	var phone *string
	if user.Phone != "" {
		p := user.Phone
		phone = &p
	}

	return &DBUser{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		Phone:         phone,
		PasswordHash:  user.PasswordHash,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Role:          string(user.Role),
		Roles:         datatypes.JSON(roles),
		Status:        string(user.Status),
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
		LastLoginAt:   user.LastLoginAt,
	}, nil
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) (*domain.User, error) {
	roles := domain.NewRoleSet()
	if len(dbUser.Roles) > 0 {
		if err := json.Unmarshal(dbUser.Roles, &roles); err != nil {
			return nil, fmt.Errorf("user %d: bad roles column: %w", dbUser.ID, err)
		}
	}

	var phone string
	if dbUser.Phone != nil {
		phone = *dbUser.Phone
	}

	return &domain.User{
		ID:            dbUser.ID,
		Username:      dbUser.Username,
		Email:         dbUser.Email,
		Phone:         phone,
		PasswordHash:  dbUser.PasswordHash,
		FirstName:     dbUser.FirstName,
		LastName:      dbUser.LastName,
		Role:          domain.Role(dbUser.Role),
		Roles:         roles,
		Status:        domain.UserStatus(dbUser.Status),
		EmailVerified: dbUser.EmailVerified,
		CreatedAt:     dbUser.CreatedAt,
		UpdatedAt:     dbUser.UpdatedAt,
		LastLoginAt:   dbUser.LastLoginAt,
	}, nil
}
