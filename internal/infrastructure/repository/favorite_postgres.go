package repository

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"howtoplatform/internal/domain"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add inserts the (user, lesson) pair. The composite primary key makes a
// concurrent duplicate fail with ErrAlreadyExists instead of a second row.
func (r *FavoriteRepository) Add(ctx context.Context, userID, lessonID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &UserGorm{}, userID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUserNotFound
		}
		if ok, err = exists(tx, &LessonGorm{}, lessonID); err != nil {
			return err
		} else if !ok {
			return domain.ErrLessonNotFound
		}

		err = tx.Omit("User", "Lesson").Create(&FavoriteGorm{UserID: userID, LessonID: lessonID}).Error
		switch {
		case err == nil:
			return nil
		case isDuplicate(err):
			return domain.ErrAlreadyExists
		case isForeignKey(err):
			return domain.ErrLessonNotFound
		default:
			return err
		}
	})
	return txFailed(err)
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, lessonID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&FavoriteGorm{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

// ListByUser returns the lessons userID favorited, most recent first. Drafts
// are included only when userID wrote them.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Lesson, error) {
	var rows []LessonGorm
	err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.lesson_id = lessons.id").
		Where("favorites.user_id = ?", userID).
		Where("lessons.is_published = ? OR lessons.user_id = ?", true, userID).
		Preload("Category").
		Preload("User").
		Order("favorites.created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row LessonGorm, _ int) domain.Lesson {
		return *row.toDomain()
	}), nil
}

// Count returns how many times the pair is stored; it is at most one.
func (r *FavoriteRepository) Count(ctx context.Context, userID, lessonID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&FavoriteGorm{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Count(&n).Error
	return n, err
}
