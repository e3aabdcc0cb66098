package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"howtoplatform/internal/domain"
)

// isDuplicate reports a unique-constraint violation. Dialects that do not
// translate their errors are matched on the driver message.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func isForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}

// txFailed wraps storage failures raised inside a transaction. Errors that
// already belong to the domain taxonomy pass through unchanged.
func txFailed(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range []error{
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrReferenceNotFound,
		domain.ErrValidation,
		domain.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, err)
}

// exists reports whether a row with id is present in model's table.
func exists(tx *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
