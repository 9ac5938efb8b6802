package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/you/foodauth/domain"
)

type LocationRepositoryImpl struct {
	db *gorm.DB
}

type DBLocation struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null"`
	Latitude   float64   `gorm:"not null"`
	Longitude  float64   `gorm:"not null"`
	RecordedAt time.Time `gorm:"index"`
}

func (DBLocation) TableName(namer schema.Namer) string {
	return namer.TableName("locations")
}

func NewLocationRepository(db *gorm.DB) domain.LocationRepository {
	return &LocationRepositoryImpl{db: db}
}

func (r *LocationRepositoryImpl) Create(ctx context.Context, loc *domain.Location) error {
	row := &DBLocation{
		UserID:     loc.UserID,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		RecordedAt: loc.RecordedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	loc.ID = row.ID
	return nil
}

// ListByUser returns the user's locations, newest first
func (r *LocationRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.Location, error) {
	var rows []DBLocation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Location, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.Location{
			ID:         row.ID,
			UserID:     row.UserID,
			Latitude:   row.Latitude,
			Longitude:  row.Longitude,
			RecordedAt: row.RecordedAt,
		})
	}
	return out, nil
}
