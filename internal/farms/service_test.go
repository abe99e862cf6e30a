package farms

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
)

type stubRepo struct {
	farms     map[uint]*models.Farm
	nextID    uint
	fields    []*models.Field
	completed []uint
	cascaded  []uint
}

func newStubRepo() *stubRepo {
	return &stubRepo{farms: map[uint]*models.Farm{}, nextID: 1}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, farm *models.Farm) error {
	farm.ID = s.nextID
	s.nextID++
	copied := *farm
	s.farms[farm.ID] = &copied
	return nil
}

func (s *stubRepo) GetByID(ctx context.Context, id uint) (*models.Farm, error) {
	farm, ok := s.farms[id]
	if !ok {
		return nil, nil
	}
	copied := *farm
	return &copied, nil
}

func (s *stubRepo) ListByUser(ctx context.Context, userID uint) ([]models.Farm, error) {
	var out []models.Farm
	for id := uint(1); id < s.nextID; id++ {
		farm, ok := s.farms[id]
		if !ok || farm.UserID != userID {
			continue
		}
		out = append(out, *farm)
	}
	return out, nil
}

func (s *stubRepo) MarkCompleted(ctx context.Context, id uint) error {
	if farm, ok := s.farms[id]; ok {
		farm.Completed = true
	}
	s.completed = append(s.completed, id)
	return nil
}

func (s *stubRepo) CreateField(ctx context.Context, field *models.Field) error {
	field.ID = uint(len(s.fields) + 1)
	s.fields = append(s.fields, field)
	return nil
}

func (s *stubRepo) DeleteCascade(ctx context.Context, id uint) error {
	delete(s.farms, id)
	s.cascaded = append(s.cascaded, id)
	return nil
}

type stubDefaultUser struct {
	user  models.User
	calls int
}

func (s *stubDefaultUser) EnsureDefaultUser(ctx context.Context) (*models.User, error) {
	s.calls++
	return &s.user, nil
}

func newTestService(t *testing.T) (Service, *stubRepo, *stubDefaultUser) {
	t.Helper()
	repo := newStubRepo()
	owner := &stubDefaultUser{user: models.User{ID: 1, Name: "Admin", Email: "admin@farm.local"}}
	svc, err := NewService(ServiceParams{Repo: repo, DefaultUser: owner})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, owner
}

func TestCreateRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateParams{Location: "Valley"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := pkgerrors.As(err)
	if appErr.Code() != pkgerrors.CodeValidation || appErr.Message() != "Farm name is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateBindsDefaultUser(t *testing.T) {
	svc, repo, owner := newTestService(t)
	farm, err := svc.Create(context.Background(), CreateParams{Name: "Green Acres"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if farm.UserID != owner.user.ID {
		t.Fatalf("expected owner %d, got %d", owner.user.ID, farm.UserID)
	}
	if farm.Location != "" {
		t.Fatalf("expected empty location default, got %q", farm.Location)
	}
	if len(repo.farms) != 1 {
		t.Fatalf("expected one farm, got %d", len(repo.farms))
	}
}

func TestListEnsuresDefaultUser(t *testing.T) {
	svc, _, owner := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateParams{Name: "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "A" {
		t.Fatalf("unexpected farms: %+v", list)
	}
	if owner.calls < 2 {
		t.Fatalf("expected default user resolution on every call, got %d", owner.calls)
	}
}

func TestCompleteChecksOwnership(t *testing.T) {
	svc, repo, _ := newTestService(t)
	farm, err := svc.Create(context.Background(), CreateParams{Name: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Complete(context.Background(), farm.ID, 99); err == nil {
		t.Fatal("expected forbidden for foreign user")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.completed) != 0 {
		t.Fatal("completion must not persist on ownership failure")
	}

	done, err := svc.Complete(context.Background(), farm.ID, farm.UserID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.Completed {
		t.Fatal("expected completed farm")
	}
	if !repo.farms[farm.ID].Completed {
		t.Fatal("completion not persisted")
	}
}

func TestCompleteUnknownFarm(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Complete(context.Background(), 42, 1)
	if err == nil {
		t.Fatal("expected not found")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddFieldInheritsFarmOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)
	farm, err := svc.Create(context.Background(), CreateParams{Name: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	field, err := svc.AddField(context.Background(), AddFieldParams{FarmID: farm.ID, Name: "East"})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	if field.UserID != farm.UserID {
		t.Fatal("field owner must match farm owner")
	}
	if field.FarmID == nil || *field.FarmID != farm.ID {
		t.Fatal("field not bound to farm")
	}
	if field.Location == nil || *field.Location != "" {
		t.Fatalf("expected empty-string location default, got %v", field.Location)
	}
	if len(repo.fields) != 1 {
		t.Fatalf("expected one field, got %d", len(repo.fields))
	}

	if _, err := svc.AddField(context.Background(), AddFieldParams{FarmID: 99, Name: "X"}); err == nil {
		t.Fatal("expected not found for unknown farm")
	}
	if _, err := svc.AddField(context.Background(), AddFieldParams{FarmID: farm.ID}); err == nil {
		t.Fatal("expected validation error without name")
	}
}

func TestDeleteCascades(t *testing.T) {
	svc, repo, _ := newTestService(t)
	farm, err := svc.Create(context.Background(), CreateParams{Name: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), farm.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.cascaded) != 1 || repo.cascaded[0] != farm.ID {
		t.Fatalf("unexpected cascade calls: %v", repo.cascaded)
	}
	if err := svc.Delete(context.Background(), farm.ID); err == nil {
		t.Fatal("expected not found on second delete")
	}
}
