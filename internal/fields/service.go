package fields

import (
	"context"
	"strings"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
)

// Service defines field management operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Field, error)
	List(ctx context.Context, userID uint) ([]models.FieldWithCount, error)
	Update(ctx context.Context, params UpdateParams) (*models.Field, error)
	Delete(ctx context.Context, fieldID uint) error
}

// ServiceParams wires the fields service dependencies.
type ServiceParams struct {
	Repo Repository
}

type service struct {
	repo Repository
}

// NewService wires field dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "field repository required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.Field, error) {
	name := strings.TrimSpace(params.Name)
	if params.UserID == 0 || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "User ID and field name are required")
	}

	field := &models.Field{
		Name:   name,
		UserID: params.UserID,
		FarmID: params.FarmID,
	}
	if location := strings.TrimSpace(params.Location); location != "" {
		field.Location = &location
	}
	if err := s.repo.Create(ctx, field); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create field")
	}
	return field, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]models.FieldWithCount, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "User ID is required")
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fields")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, params UpdateParams) (*models.Field, error) {
	name := strings.TrimSpace(params.Name)
	if params.FieldID == 0 || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Field ID and name are required")
	}

	field, err := s.repo.GetByID(ctx, params.FieldID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up field")
	}
	if field == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Field not found")
	}

	field.Name = name
	field.Location = nil
	if location := strings.TrimSpace(params.Location); location != "" {
		field.Location = &location
	}
	if err := s.repo.Update(ctx, field); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update field")
	}
	return field, nil
}

func (s *service) Delete(ctx context.Context, fieldID uint) error {
	if fieldID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Field ID is required")
	}
	field, err := s.repo.GetByID(ctx, fieldID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up field")
	}
	if field == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Field not found")
	}
	if err := s.repo.DeleteWithReadings(ctx, fieldID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete field")
	}
	return nil
}
