package contact

import (
	"context"

	"gorm.io/gorm"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
)

// Repository persists contact form submissions.
type Repository interface {
	Create(ctx context.Context, contact *models.Contact) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Contact, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a contact repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Contact, error) {
	var list []models.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
