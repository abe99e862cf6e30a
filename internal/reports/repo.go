package reports

import (
	"context"

	"gorm.io/gorm"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
)

// Repository reads the reading history a report aggregates over.
type Repository interface {
	ListForUser(ctx context.Context, userID uint, fieldID *uint) ([]models.SensorReading, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListForUser returns the user's readings oldest first, optionally limited to
// one field, each with its field attached.
func (r *repositoryImpl) ListForUser(ctx context.Context, userID uint, fieldID *uint) ([]models.SensorReading, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SensorReading{}).
		Preload("Field").
		Where("user_id = ?", userID)
	if fieldID != nil {
		query = query.Where("field_id = ?", *fieldID)
	}

	var list []models.SensorReading
	if err := query.Order("timestamp ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
