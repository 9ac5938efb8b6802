package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/you/foodauth/domain"
)

type LocationServiceImpl struct {
	repo domain.LocationRepository
	now  func() time.Time
}

func NewLocationService(repo domain.LocationRepository) domain.LocationService {
	return &LocationServiceImpl{repo: repo, now: time.Now}
}

// Record stores a position for userID. Latitude must be within [-90, 90]
// and longitude within [-180, 180].
func (s *LocationServiceImpl) Record(ctx context.Context, userID uint, latitude, longitude float64) (*domain.Location, error) {
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrInvalidCoordinate)
	}
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrInvalidCoordinate)
	}

	loc := &domain.Location{
		UserID:     userID,
		Latitude:   latitude,
		Longitude:  longitude,
		RecordedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to store location: %w", err)
	}
	return loc, nil
}

func (s *LocationServiceImpl) List(ctx context.Context, userID uint) ([]*domain.Location, error) {
	return s.repo.ListByUser(ctx, userID)
}
