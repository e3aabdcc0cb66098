package repository

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"howtoplatform/internal/domain"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	row := &CategoryGorm{Name: c.Name, Description: c.Description, UserID: c.UserID}
	if err := r.db.WithContext(ctx).Omit("User").Create(row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrCategoryNameTaken
		}
		return err
	}
	*c = *row.toDomain()
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*domain.Category, error) {
	var row CategoryGorm
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var rows []CategoryGorm
	if err := r.db.WithContext(ctx).Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row CategoryGorm, _ int) domain.Category {
		return *row.toDomain()
	}), nil
}

func (r *CategoryRepository) Update(ctx context.Context, id uint, patch domain.CategoryPatch) (*domain.Category, error) {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&CategoryGorm{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			if isDuplicate(res.Error) {
				return nil, domain.ErrCategoryNameTaken
			}
			return nil, res.Error
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the category; its lessons go with it through the foreign key.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&CategoryGorm{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
