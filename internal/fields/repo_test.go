package fields

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/soilminds/soilminds-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = gdb.AutoMigrate(&models.User{}, &models.Farm{}, &models.Field{}, &models.SensorReading{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestRepositoryListByUserCountsReadings(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := models.Field{Name: "a", UserID: 1, CreatedAt: base}
	b := models.Field{Name: "b", UserID: 1, CreatedAt: base.Add(time.Minute)}
	other := models.Field{Name: "other", UserID: 2, CreatedAt: base}
	for _, f := range []*models.Field{&a, &b, &other} {
		if err := gdb.Create(f).Error; err != nil {
			t.Fatalf("seed field: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		r := models.SensorReading{FieldID: a.ID, UserID: 1}
		if err := gdb.Create(&r).Error; err != nil {
			t.Fatalf("seed reading: %v", err)
		}
	}
	r := models.SensorReading{FieldID: other.ID, UserID: 2}
	if err := gdb.Create(&r).Error; err != nil {
		t.Fatalf("seed reading: %v", err)
	}

	list, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(list))
	}
	if list[0].Name != "a" || list[0].ReadingCount != 3 {
		t.Fatalf("unexpected first row: %+v", list[0])
	}
	if list[1].Name != "b" || list[1].ReadingCount != 0 {
		t.Fatalf("unexpected second row: %+v", list[1])
	}

	empty, err := repo.ListByUser(ctx, 99)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestRepositoryDeleteWithReadings(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	field := models.Field{Name: "a", UserID: 1}
	if err := repo.Create(ctx, &field); err != nil {
		t.Fatalf("create: %v", err)
	}
	neighbor := models.Field{Name: "b", UserID: 1}
	if err := repo.Create(ctx, &neighbor); err != nil {
		t.Fatalf("create neighbor: %v", err)
	}
	for _, fid := range []uint{field.ID, neighbor.ID} {
		r := models.SensorReading{FieldID: fid, UserID: 1}
		if err := gdb.Create(&r).Error; err != nil {
			t.Fatalf("seed reading: %v", err)
		}
	}

	if err := repo.DeleteWithReadings(ctx, field.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var fieldCount, readingCount int64
	gdb.Model(&models.Field{}).Count(&fieldCount)
	gdb.Model(&models.SensorReading{}).Count(&readingCount)
	if fieldCount != 1 || readingCount != 1 {
		t.Fatalf("unexpected survivors: fields=%d readings=%d", fieldCount, readingCount)
	}

	got, err := repo.GetByID(ctx, field.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("deleted field still present")
	}
}

func TestRepositoryUpdatePersistsLocation(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	location := "Hillside"
	field := models.Field{Name: "a", UserID: 1, Location: &location}
	if err := repo.Create(ctx, &field); err != nil {
		t.Fatalf("create: %v", err)
	}

	field.Name = "renamed"
	field.Location = nil
	if err := repo.Update(ctx, &field); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, field.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "renamed" || got.Location != nil {
		t.Fatalf("update not persisted: %+v", got)
	}
}
