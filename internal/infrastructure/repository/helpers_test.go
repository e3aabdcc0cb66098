package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"howtoplatform/internal/domain"
)

// newTestDB returns a migrated in-memory SQLite database with foreign keys on.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection keeps every statement on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := NewRoleRepository(db).Seed(context.Background()); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint, username string, role domain.RoleID) {
	t.Helper()
	row := UserGorm{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		RoleID:       uint(role),
	}
	if err := db.Omit("Role").Create(&row).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

func seedCategory(t *testing.T, db *gorm.DB, id uint, name string, owner *uint) {
	t.Helper()
	row := CategoryGorm{ID: id, Name: name, UserID: owner}
	if err := db.Omit("User").Create(&row).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model any, lessonID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where("lesson_id = ?", lessonID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
