package fields

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
)

// Repository exposes persistence helpers for fields and their readings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, field *models.Field) error
	GetByID(ctx context.Context, id uint) (*models.Field, error)
	ListByUser(ctx context.Context, userID uint) ([]models.FieldWithCount, error)
	Update(ctx context.Context, field *models.Field) error
	DeleteWithReadings(ctx context.Context, id uint) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a field repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, field *models.Field) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// GetByID returns (nil, nil) when no field matches.
func (r *repositoryImpl) GetByID(ctx context.Context, id uint) (*models.Field, error) {
	var field models.Field
	err := r.db.WithContext(ctx).First(&field, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &field, nil
}

// ListByUser returns the user's fields in creation order, each annotated with
// its reading count.
func (r *repositoryImpl) ListByUser(ctx context.Context, userID uint) ([]models.FieldWithCount, error) {
	var list []models.Field
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []models.FieldWithCount{}, nil
	}

	ids := make([]uint, 0, len(list))
	for _, field := range list {
		ids = append(ids, field.ID)
	}

	type countRow struct {
		FieldID uint
		Total   int64
	}
	var rows []countRow
	err = r.db.WithContext(ctx).
		Model(&models.SensorReading{}).
		Select("field_id, COUNT(*) AS total").
		Where("field_id IN ?", ids).
		Group("field_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.FieldID] = row.Total
	}

	out := make([]models.FieldWithCount, 0, len(list))
	for _, field := range list {
		out = append(out, models.FieldWithCount{Field: field, ReadingCount: counts[field.ID]})
	}
	return out, nil
}

func (r *repositoryImpl) Update(ctx context.Context, field *models.Field) error {
	return r.db.WithContext(ctx).Save(field).Error
}

// DeleteWithReadings removes the field's readings first, then the field, so
// no orphaned readings survive.
func (r *repositoryImpl) DeleteWithReadings(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&models.SensorReading{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Field{}, id).Error
	})
}
