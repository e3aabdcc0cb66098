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

type LessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Create inserts the lesson, its materials and its steps in one transaction
// and returns the hydrated aggregate.
func (r *LessonRepository) Create(ctx context.Context, d domain.LessonDraft) (*domain.Lesson, error) {
	var out *domain.Lesson

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, &d.CategoryID, &d.UserID); err != nil {
			return err
		}

		row := LessonGorm{
			Title:       d.Title,
			Description: d.Description,
			IsPublished: d.IsPublished,
			CategoryID:  d.CategoryID,
			UserID:      d.UserID,
		}
		if d.Media != nil {
			row.MediaURL, row.MediaAlt = d.Media.URL, d.Media.Alt
		}

		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return lessonWriteError(err)
		}
		if err := insertMaterials(tx, row.ID, d.Materials); err != nil {
			return err
		}
		if err := insertSteps(tx, row.ID, d.Steps); err != nil {
			return err
		}

		var err error
		out, err = loadLesson(tx, row.ID)
		return err
	})
	if err != nil {
		return nil, txFailed(err)
	}
	return out, nil
}

// Replace patches the lesson scalars present in rep and fully replaces every
// supplied child collection. Nothing is written unless all of it succeeds.
func (r *LessonRepository) Replace(ctx context.Context, id uint, rep domain.LessonReplacement) (*domain.Lesson, error) {
	var out *domain.Lesson

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row LessonGorm
		if err := tx.Select("id").First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLessonNotFound
			}
			return err
		}

		p := rep.Patch
		if err := checkReferences(tx, p.CategoryID, p.UserID); err != nil {
			return err
		}

		updates := map[string]any{"updated_at": time.Now()}
		if p.Title != nil {
			updates["title"] = *p.Title
		}
		if p.Description != nil {
			updates["description"] = *p.Description
		}
		if p.MediaURL != nil {
			updates["media_url"] = *p.MediaURL
		}
		if p.MediaAlt != nil {
			updates["media_alt"] = *p.MediaAlt
		}
		if p.IsPublished != nil {
			updates["is_published"] = *p.IsPublished
		}
		if p.CategoryID != nil {
			updates["category_id"] = *p.CategoryID
		}
		if p.UserID != nil {
			updates["user_id"] = *p.UserID
		}
		if err := tx.Model(&LessonGorm{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return lessonWriteError(err)
		}

		if rep.Materials != nil {
			if err := tx.Where("lesson_id = ?", id).Delete(&MaterialGorm{}).Error; err != nil {
				return err
			}
			if err := insertMaterials(tx, id, *rep.Materials); err != nil {
				return err
			}
		}

		if rep.Steps != nil {
			if err := tx.Where("lesson_id = ?", id).Delete(&StepGorm{}).Error; err != nil {
				return err
			}
			if err := insertSteps(tx, id, *rep.Steps); err != nil {
				return err
			}
		}

		var err error
		out, err = loadLesson(tx, id)
		return err
	})
	if err != nil {
		return nil, txFailed(err)
	}
	return out, nil
}

// SetPublished toggles the draft flag only.
func (r *LessonRepository) SetPublished(ctx context.Context, id uint, published bool) (*domain.Lesson, error) {
	return r.Replace(ctx, id, domain.LessonReplacement{
		Patch: domain.LessonPatch{IsPublished: &published},
	})
}

// Delete removes the lesson with its steps, materials and favorites. Topics
// that referenced it are detached.
func (r *LessonRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&FavoriteGorm{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&StepGorm{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&MaterialGorm{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&TopicGorm{}).Where("lesson_id = ?", id).Update("lesson_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&LessonGorm{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrLessonNotFound
		}
		return nil
	})
	return txFailed(err)
}

func (r *LessonRepository) GetByID(ctx context.Context, id uint) (*domain.Lesson, error) {
	return loadLesson(r.db.WithContext(ctx), id)
}

// Ownership reads only what authorization needs, always from the database.
func (r *LessonRepository) Ownership(ctx context.Context, id uint) (*domain.LessonOwnership, error) {
	var row LessonGorm
	err := r.db.WithContext(ctx).Select("id", "user_id", "is_published").First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, err
	}
	return &domain.LessonOwnership{ID: row.ID, UserID: row.UserID, IsPublished: row.IsPublished}, nil
}

// List returns lessons without their child collections, newest first.
func (r *LessonRepository) List(ctx context.Context, f domain.LessonFilter) ([]domain.Lesson, error) {
	query := r.db.WithContext(ctx).Model(&LessonGorm{}).Preload("Category").Preload("User")
	if f.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if f.CategoryID != 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.CategoryOwnerID != 0 {
		query = query.Where("category_id IN (?)",
			r.db.Model(&CategoryGorm{}).Select("id").Where("user_id = ?", f.CategoryOwnerID))
	}

	var rows []LessonGorm
	if err := query.Order("created_at desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row LessonGorm, _ int) domain.Lesson {
		return *row.toDomain()
	}), nil
}

func loadLesson(db *gorm.DB, id uint) (*domain.Lesson, error) {
	var row LessonGorm
	err := db.
		Preload("Category").
		Preload("User").
		Preload("Materials", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order asc")
		}).
		First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

// checkReferences resolves optional category and author ids to
// ReferenceErrors so callers learn which field is wrong.
func checkReferences(tx *gorm.DB, categoryID, userID *uint) error {
	if categoryID != nil {
		ok, err := exists(tx, &CategoryGorm{}, *categoryID)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.ReferenceError{Field: "category_id"}
		}
	}
	if userID != nil {
		ok, err := exists(tx, &UserGorm{}, *userID)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.ReferenceError{Field: "user_id"}
		}
	}
	return nil
}

func insertMaterials(tx *gorm.DB, lessonID uint, drafts []domain.MaterialDraft) error {
	if len(drafts) == 0 {
		return nil
	}
	rows := lo.Map(drafts, func(m domain.MaterialDraft, _ int) MaterialGorm {
		return MaterialGorm{LessonID: lessonID, Name: m.Name, Quantity: max(m.Quantity, 1)}
	})
	return tx.Create(&rows).Error
}

// insertSteps numbers the drafts 1..n in submission order.
func insertSteps(tx *gorm.DB, lessonID uint, drafts []domain.StepDraft) error {
	if len(drafts) == 0 {
		return nil
	}
	rows := lo.Map(drafts, func(s domain.StepDraft, i int) StepGorm {
		row := StepGorm{
			LessonID:    lessonID,
			StepOrder:   i + 1,
			Title:       s.Title,
			Description: s.Description,
		}
		if s.Media != nil {
			row.MediaURL, row.MediaAlt = s.Media.URL, s.Media.Alt
		}
		return row
	})
	return tx.Create(&rows).Error
}

func lessonWriteError(err error) error {
	switch {
	case isDuplicate(err):
		return domain.ErrTitleTaken
	case isForeignKey(err):
		return &domain.ReferenceError{Field: "category_id"}
	default:
		return err
	}
}
