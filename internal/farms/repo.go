package farms

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
)

// Repository exposes persistence helpers for farms.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, farm *models.Farm) error
	GetByID(ctx context.Context, id uint) (*models.Farm, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Farm, error)
	MarkCompleted(ctx context.Context, id uint) error
	CreateField(ctx context.Context, field *models.Field) error
	DeleteCascade(ctx context.Context, id uint) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a farm repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, farm *models.Farm) error {
	return r.db.WithContext(ctx).Create(farm).Error
}

// GetByID returns the farm with its fields in creation order, or (nil, nil)
// when no farm matches.
func (r *repositoryImpl) GetByID(ctx context.Context, id uint) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&farm, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farm, nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uint) ([]models.Farm, error) {
	var list []models.Farm
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repositoryImpl) MarkCompleted(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Farm{}).
		Where("id = ?", id).
		Update("completed", true).Error
}

func (r *repositoryImpl) CreateField(ctx context.Context, field *models.Field) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// DeleteCascade removes a farm's readings, then its fields, then the farm
// itself, each step in one transaction. The schema has no ON DELETE CASCADE
// so the order matters.
func (r *repositoryImpl) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fieldIDs []uint
		err := tx.Model(&models.Field{}).
			Where("farm_id = ?", id).
			Pluck("id", &fieldIDs).Error
		if err != nil {
			return err
		}
		if len(fieldIDs) > 0 {
			if err := tx.Where("field_id IN ?", fieldIDs).Delete(&models.SensorReading{}).Error; err != nil {
				return err
			}
			if err := tx.Where("farm_id = ?", id).Delete(&models.Field{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Farm{}, id).Error
	})
}
