package auth

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/soilminds/soilminds-backend/pkg/config"
	"github.com/soilminds/soilminds-backend/pkg/db/models"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
)

type stubUserRepo struct {
	users  map[string]*models.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*models.User{}, nextID: 1}
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.Email] = user
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users[email], nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type stubFieldCreator struct {
	created []*models.Field
}

func (s *stubFieldCreator) Create(ctx context.Context, field *models.Field) error {
	field.ID = uint(len(s.created) + 1)
	s.created = append(s.created, field)
	return nil
}

func newTestService(t *testing.T) (Service, *stubUserRepo, *stubFieldCreator) {
	t.Helper()
	users := newStubUserRepo()
	fields := &stubFieldCreator{}
	svc, err := NewService(ServiceParams{
		UserRepo:       users,
		FieldRepo:      fields,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, users, fields
}

func TestSignupCreatesUserAndDefaultField(t *testing.T) {
	svc, users, fields := newTestService(t)

	user, err := svc.Signup(context.Background(), SignupParams{
		Name:            "Alice",
		Email:           "Alice@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	stored := users.users["alice@example.com"]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "secret1" || stored.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}
	if len(fields.created) != 1 {
		t.Fatalf("expected one default field, got %d", len(fields.created))
	}
	field := fields.created[0]
	if field.Name != "Default Field" || field.Location == nil || *field.Location != "Farm 1" {
		t.Fatalf("unexpected default field: %+v", field)
	}
	if field.UserID != stored.ID {
		t.Fatal("default field not bound to new user")
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []struct {
		name    string
		params  SignupParams
		message string
	}{
		{
			name:    "missing fields",
			params:  SignupParams{Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret1"},
			message: "All fields are required",
		},
		{
			name:    "mismatched passwords",
			params:  SignupParams{Name: "A", Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret2"},
			message: "Passwords do not match",
		},
		{
			name:    "short password",
			params:  SignupParams{Name: "A", Email: "a@b.c", Password: "abc", ConfirmPassword: "abc"},
			message: "Password must be at least 6 characters",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.params)
			if err == nil {
				t.Fatal("expected error")
			}
			appErr := pkgerrors.As(err)
			if appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if appErr.Message() != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, appErr.Message())
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	params := SignupParams{Name: "A", Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret1"}
	if _, err := svc.Signup(context.Background(), params); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), params)
	if err == nil {
		t.Fatal("expected duplicate email error")
	}
	if pkgerrors.As(err).Message() != "Email already registered" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	params := SignupParams{Name: "A", Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret1"}
	if _, err := svc.Signup(context.Background(), params); err != nil {
		t.Fatalf("signup: %v", err)
	}

	user, err := svc.Login(context.Background(), LoginParams{Email: "a@b.c", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "a@b.c" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Login(context.Background(), LoginParams{Email: "a@b.c", Password: "wrong"}); err == nil {
		t.Fatal("expected bad password to fail")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginParams{Email: "missing@b.c", Password: "secret1"}); err == nil {
		t.Fatal("expected unknown email to fail")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetUser(context.Background(), 42)
	if err == nil {
		t.Fatal("expected not found")
	}
	appErr := pkgerrors.As(err)
	if appErr.Code() != pkgerrors.CodeNotFound || appErr.Message() != "User not found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureDefaultUserIdempotent(t *testing.T) {
	svc, users, _ := newTestService(t)

	first, err := svc.EnsureDefaultUser(context.Background())
	if err != nil {
		t.Fatalf("ensure default user: %v", err)
	}
	if first.Email != "admin@farm.local" || first.Name != "Admin" {
		t.Fatalf("unexpected default user: %+v", first)
	}

	second, err := svc.EnsureDefaultUser(context.Background())
	if err != nil {
		t.Fatalf("ensure default user again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected existing default user to be reused")
	}
	if len(users.users) != 1 {
		t.Fatalf("expected a single user, got %d", len(users.users))
	}
}
