package auth

import (
	"context"
	"strings"

	"github.com/soilminds/soilminds-backend/pkg/config"
	"github.com/soilminds/soilminds-backend/pkg/db"
	"github.com/soilminds/soilminds-backend/pkg/db/models"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
	"github.com/soilminds/soilminds-backend/pkg/security"
)

// The sampling simulator and farm endpoints operate on behalf of this
// provisioned account when no explicit user is given.
const (
	defaultUserEmail    = "admin@farm.local"
	defaultUserName     = "Admin"
	defaultUserPassword = "admin123"
)

const minPasswordLength = 6

// FieldCreator is the slice of the fields repository signup needs to
// auto-provision the default field.
type FieldCreator interface {
	Create(ctx context.Context, field *models.Field) error
}

// Service defines account operations.
type Service interface {
	Signup(ctx context.Context, params SignupParams) (*models.PublicUser, error)
	Login(ctx context.Context, params LoginParams) (*models.PublicUser, error)
	GetUser(ctx context.Context, id uint) (*models.PublicUser, error)
	EnsureDefaultUser(ctx context.Context) (*models.User, error)
}

// ServiceParams wires the auth service dependencies.
type ServiceParams struct {
	UserRepo       Repository
	FieldRepo      FieldCreator
	PasswordConfig config.PasswordConfig
}

type service struct {
	users    Repository
	fields   FieldCreator
	password config.PasswordConfig
}

// NewService wires auth dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	if params.FieldRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "field repository required")
	}
	return &service{
		users:    params.UserRepo,
		fields:   params.FieldRepo,
		password: params.PasswordConfig,
	}, nil
}

func (s *service) Signup(ctx context.Context, params SignupParams) (*models.PublicUser, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if name == "" || email == "" || params.Password == "" || params.ConfirmPassword == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "All fields are required")
	}
	if params.Password != params.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Passwords do not match")
	}
	if len(params.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Password must be at least 6 characters")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up user")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email already registered")
	}

	hash, err := security.HashPassword(params.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		// Two signups racing on the same email both pass the lookup above;
		// the unique index catches the loser.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	// Every fresh account starts with one sampling location.
	location := "Farm 1"
	field := &models.Field{Name: "Default Field", Location: &location, UserID: user.ID}
	if err := s.fields.Create(ctx, field); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default field")
	}

	view := user.Public()
	return &view, nil
}

func (s *service) Login(ctx context.Context, params LoginParams) (*models.PublicUser, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" || params.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	}

	ok, err := security.VerifyPassword(params.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	}

	view := user.Public()
	return &view, nil
}

func (s *service) GetUser(ctx context.Context, id uint) (*models.PublicUser, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}
	view := user.Public()
	return &view, nil
}

// EnsureDefaultUser returns the provisioned account, creating it on first use.
func (s *service) EnsureDefaultUser(ctx context.Context) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, defaultUserEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up default user")
	}
	if user != nil {
		return user, nil
	}

	hash, err := security.HashPassword(defaultUserPassword, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash default password")
	}
	user = &models.User{Name: defaultUserName, Email: defaultUserEmail, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default user")
	}
	return user, nil
}
