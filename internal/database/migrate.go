package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"howtoplatform/internal/infrastructure/repository"
)

// Migrate creates or updates every table and seeds the fixed roles.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(repository.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := repository.NewRoleRepository(db).Seed(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}
