package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/you/foodauth/domain"
)

type MemoryLocationRepository struct {
	mu     sync.Mutex
	nextID uint
	rows   []domain.Location
}

func NewMemoryLocationRepository() *MemoryLocationRepository {
	return &MemoryLocationRepository{nextID: 1}
}

var _ domain.LocationRepository = (*MemoryLocationRepository)(nil)

func (r *MemoryLocationRepository) Create(_ context.Context, loc *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, *loc)
	return nil
}

// ListByUser returns the user's locations, newest first
func (r *MemoryLocationRepository) ListByUser(_ context.Context, userID uint) ([]*domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Location, 0)
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			l := r.rows[i]
			out = append(out, &l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}
