package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/you/foodauth/domain"
)

// MemoryUserRepository keeps users in process memory. It backs the
// "memory" database driver and tests.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]*domain.User
	now    func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		nextID: 1,
		users:  make(map[uint]*domain.User),
		now:    time.Now,
	}
}

var _ domain.UserRepository = (*MemoryUserRepository)(nil)

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Roles = u.Roles.Clone()
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

// conflictLocked reports a uniqueness clash with any user other than skip
func (r *MemoryUserRepository) conflictLocked(u *domain.User, skip uint) error {
	for id, other := range r.users {
		if id == skip {
			continue
		}
		switch {
		case other.Username == u.Username:
			return fmt.Errorf("%w: username %s", domain.ErrUserAlreadyExists, u.Username)
		case other.Email == u.Email:
			return fmt.Errorf("%w: email %s", domain.ErrUserAlreadyExists, u.Email)
		case u.Phone != "" && other.Phone == u.Phone:
			return fmt.Errorf("%w: phone %s", domain.ErrUserAlreadyExists, u.Phone)
		}
	}
	return nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.conflictLocked(user, 0); err != nil {
		return err
	}

	now := r.now()
	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	if phone == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.find(func(u *domain.User) bool { return u.Phone == phone })
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if err := r.conflictLocked(user, user.ID); err != nil {
		return err
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.now()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context, offset, limit int) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return []*domain.User{}, total, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneUser(r.users[id]))
	}
	return out, total, nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}
