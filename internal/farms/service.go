package farms

import (
	"context"
	"strings"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
)

// DefaultUserProvider resolves the provisioned dashboard account. The farm
// endpoints are unauthenticated and always act on that account.
type DefaultUserProvider interface {
	EnsureDefaultUser(ctx context.Context) (*models.User, error)
}

// Service defines farm lifecycle operations.
type Service interface {
	List(ctx context.Context) ([]models.Farm, error)
	Create(ctx context.Context, params CreateParams) (*models.Farm, error)
	Complete(ctx context.Context, farmID, userID uint) (*models.Farm, error)
	AddField(ctx context.Context, params AddFieldParams) (*models.Field, error)
	Delete(ctx context.Context, farmID uint) error
}

// ServiceParams wires the farms service dependencies.
type ServiceParams struct {
	Repo        Repository
	DefaultUser DefaultUserProvider
}

type service struct {
	repo        Repository
	defaultUser DefaultUserProvider
}

// NewService wires farm dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "farm repository required")
	}
	if params.DefaultUser == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "default user provider required")
	}
	return &service{repo: params.Repo, defaultUser: params.DefaultUser}, nil
}

func (s *service) List(ctx context.Context) ([]models.Farm, error) {
	owner, err := s.defaultUser.EnsureDefaultUser(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farms")
	}
	return list, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.Farm, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Farm name is required")
	}
	owner, err := s.defaultUser.EnsureDefaultUser(ctx)
	if err != nil {
		return nil, err
	}

	farm := &models.Farm{
		Name:     name,
		Location: strings.TrimSpace(params.Location),
		UserID:   owner.ID,
	}
	if err := s.repo.Create(ctx, farm); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farm")
	}
	return farm, nil
}

// Complete marks the farm as done with sampling. One-way: there is no
// un-complete operation.
func (s *service) Complete(ctx context.Context, farmID, userID uint) (*models.Farm, error) {
	if farmID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Farm ID is required")
	}
	farm, err := s.repo.GetByID(ctx, farmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up farm")
	}
	if farm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Farm not found")
	}
	if userID != 0 && farm.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Farm belongs to another user")
	}
	if err := s.repo.MarkCompleted(ctx, farmID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark farm completed")
	}
	farm.Completed = true
	return farm, nil
}

func (s *service) AddField(ctx context.Context, params AddFieldParams) (*models.Field, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Field name required")
	}
	farm, err := s.repo.GetByID(ctx, params.FarmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up farm")
	}
	if farm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Farm not found")
	}

	location := strings.TrimSpace(params.Location)
	field := &models.Field{
		Name:     name,
		Location: &location,
		UserID:   farm.UserID,
		FarmID:   &farm.ID,
	}
	if err := s.repo.CreateField(ctx, field); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create field")
	}
	return field, nil
}

func (s *service) Delete(ctx context.Context, farmID uint) error {
	if farmID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Farm ID is required")
	}
	farm, err := s.repo.GetByID(ctx, farmID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up farm")
	}
	if farm == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Farm not found")
	}
	if err := s.repo.DeleteCascade(ctx, farmID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete farm")
	}
	return nil
}
