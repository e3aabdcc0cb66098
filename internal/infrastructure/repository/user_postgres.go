package repository

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"howtoplatform/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	row := &UserGorm{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		RoleID:       uint(user.RoleID),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkAccountUnique(tx, 0, &user.Email, &user.Username); err != nil {
			return err
		}
		if err := tx.Omit("Role").Create(row).Error; err != nil {
			if isDuplicate(err) {
				return domain.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return txFailed(err)
	}

	*user = *row.toDomain()
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row UserGorm
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var row UserGorm
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var rows []UserGorm
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row UserGorm, _ int) domain.User {
		return *row.toDomain()
	}), nil
}

// Update applies the non-nil fields of patch and returns the stored account.
func (r *UserRepository) Update(ctx context.Context, id uint, patch domain.AccountPatch) (*domain.User, error) {
	var out *domain.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := exists(tx, &UserGorm{}, id); err != nil {
			return err
		} else if !ok {
			return domain.ErrUserNotFound
		}
		if err := checkAccountUnique(tx, id, patch.Email, patch.Username); err != nil {
			return err
		}

		updates := map[string]any{"updated_at": time.Now()}
		if patch.Username != nil {
			updates["username"] = *patch.Username
		}
		if patch.Email != nil {
			updates["email"] = *patch.Email
		}
		if patch.PasswordHash != nil {
			updates["password_hash"] = *patch.PasswordHash
		}
		if err := tx.Model(&UserGorm{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return domain.ErrConflict
			}
			return err
		}

		var row UserGorm
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		out = row.toDomain()
		return nil
	})
	if err != nil {
		return nil, txFailed(err)
	}
	return out, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role domain.RoleID) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&UserGorm{}).Where("id = ?", id).Update("role_id", uint(role))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the account; foreign keys cascade to everything it owns.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&UserGorm{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// checkAccountUnique reports which unique field is already used by another
// account than id.
func checkAccountUnique(tx *gorm.DB, id uint, email, username *string) error {
	var n int64
	if email != nil {
		if err := tx.Model(&UserGorm{}).Where("email = ? AND id <> ?", *email, id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrEmailTaken
		}
	}
	if username != nil {
		if err := tx.Model(&UserGorm{}).Where("username = ? AND id <> ?", *username, id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrUsernameTaken
		}
	}
	return nil
}

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var rows []RoleGorm
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row RoleGorm, _ int) domain.Role {
		return domain.Role{ID: domain.RoleID(row.ID), Name: row.Name}
	}), nil
}

// Seed inserts the fixed role rows, leaving existing ones alone.
func (r *RoleRepository) Seed(ctx context.Context) error {
	rows := lo.Map(domain.Roles(), func(role domain.Role, _ int) RoleGorm {
		return RoleGorm{ID: uint(role.ID), Name: role.Name}
	})
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
