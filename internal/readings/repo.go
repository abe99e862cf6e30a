package readings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
)

// Repository exposes the persistence surface reading generation and queries
// need: farms and fields for the rotation, readings for storage.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FarmByID(ctx context.Context, id uint) (*models.Farm, error)
	FieldsByUser(ctx context.Context, userID uint) ([]models.Field, error)
	CreateFarm(ctx context.Context, farm *models.Farm) error
	CreateField(ctx context.Context, field *models.Field) error
	LastReading(ctx context.Context, userID uint, farmID *uint) (*models.SensorReading, error)
	CreateReading(ctx context.Context, reading *models.SensorReading) error
	Latest(ctx context.Context, fieldID, farmID *uint) (*models.SensorReading, error)
	List(ctx context.Context, query ListQuery) ([]models.SensorReading, int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a readings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// FarmByID returns the farm with its fields in creation order, or (nil, nil)
// when no farm matches.
func (r *repositoryImpl) FarmByID(ctx context.Context, id uint) (*models.Farm, error) {
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

// FieldsByUser returns the rotation order: every field of the user, oldest first.
func (r *repositoryImpl) FieldsByUser(ctx context.Context, userID uint) ([]models.Field, error) {
	var list []models.Field
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repositoryImpl) CreateFarm(ctx context.Context, farm *models.Farm) error {
	return r.db.WithContext(ctx).Create(farm).Error
}

func (r *repositoryImpl) CreateField(ctx context.Context, field *models.Field) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// LastReading returns the user's newest reading, optionally restricted to
// fields of one farm, or (nil, nil) when there is none.
func (r *repositoryImpl) LastReading(ctx context.Context, userID uint, farmID *uint) (*models.SensorReading, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SensorReading{}).
		Where("user_id = ?", userID)
	if farmID != nil {
		query = query.Where("field_id IN (?)",
			r.db.Model(&models.Field{}).Select("id").Where("farm_id = ?", *farmID))
	}

	var reading models.SensorReading
	err := query.Order("timestamp DESC").First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *repositoryImpl) CreateReading(ctx context.Context, reading *models.SensorReading) error {
	return r.db.WithContext(ctx).Create(reading).Error
}

// Latest returns the newest reading matching the optional field/farm filter,
// with its field attached, or (nil, nil) when nothing matches. A field filter
// wins over a farm filter.
func (r *repositoryImpl) Latest(ctx context.Context, fieldID, farmID *uint) (*models.SensorReading, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SensorReading{}).
		Preload("Field")
	query = applyScopeFilter(r.db, query, fieldID, farmID)

	var reading models.SensorReading
	err := query.Order("timestamp DESC").First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

// List returns one timeline page in timestamp order plus the unpaged total.
func (r *repositoryImpl) List(ctx context.Context, query ListQuery) ([]models.SensorReading, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.SensorReading{})
	base = applyScopeFilter(r.db, base, query.FieldID, query.FarmID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.SensorReading
	err := base.Session(&gorm.Session{}).
		Preload("Field").
		Order("timestamp ASC").
		Limit(query.Limit).
		Offset(query.Skip).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func applyScopeFilter(db, query *gorm.DB, fieldID, farmID *uint) *gorm.DB {
	if fieldID != nil {
		return query.Where("field_id = ?", *fieldID)
	}
	if farmID != nil {
		return query.Where("field_id IN (?)",
			db.Model(&models.Field{}).Select("id").Where("farm_id = ?", *farmID))
	}
	return query
}
