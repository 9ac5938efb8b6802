package mocks

import (
	"context"
	"time"

	"github.com/you/foodauth/domain"
)

// MockLocationService implements domain.LocationService for testing
type MockLocationService struct {
	RecordFunc func(ctx context.Context, userID uint, latitude, longitude float64) (*domain.Location, error)
	ListFunc   func(ctx context.Context, userID uint) ([]*domain.Location, error)
}

func NewMockLocationService() *MockLocationService {
	return &MockLocationService{}
}

func (m *MockLocationService) Record(ctx context.Context, userID uint, latitude, longitude float64) (*domain.Location, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, userID, latitude, longitude)
	}
	return &domain.Location{ID: 1, UserID: userID, Latitude: latitude, Longitude: longitude, RecordedAt: time.Now()}, nil
}

func (m *MockLocationService) List(ctx context.Context, userID uint) ([]*domain.Location, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*domain.Location{}, nil
}

var _ domain.LocationService = (*MockLocationService)(nil)
