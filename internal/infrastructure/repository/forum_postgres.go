package repository

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"howtoplatform/internal/domain"
)

type ForumRepository struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) *ForumRepository {
	return &ForumRepository{db: db}
}

func (r *ForumRepository) CreateTopic(ctx context.Context, t *domain.Topic) error {
	row := &TopicGorm{Title: t.Title, Body: t.Body, UserID: t.UserID, LessonID: t.LessonID}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.LessonID != nil {
			ok, err := exists(tx, &LessonGorm{}, *t.LessonID)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.ReferenceError{Field: "lesson_id"}
			}
		}
		return tx.Omit("User", "Lesson", "Replies").Create(row).Error
	})
	if err != nil {
		return txFailed(err)
	}

	created, err := r.GetTopic(ctx, row.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// GetTopic returns the topic with its replies in posting order.
func (r *ForumRepository) GetTopic(ctx context.Context, id uint) (*domain.Topic, error) {
	var row TopicGorm
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc").Order("id asc")
		}).
		Preload("Replies.User").
		First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTopicNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ForumRepository) ListTopics(ctx context.Context, lessonID uint) ([]domain.Topic, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if lessonID != 0 {
		query = query.Where("lesson_id = ?", lessonID)
	}

	var rows []TopicGorm
	if err := query.Order("created_at desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row TopicGorm, _ int) domain.Topic {
		return *row.toDomain()
	}), nil
}

// TopicOwner returns the author of topic id.
func (r *ForumRepository) TopicOwner(ctx context.Context, id uint) (uint, error) {
	var row TopicGorm
	if err := r.db.WithContext(ctx).Select("id", "user_id").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrTopicNotFound
		}
		return 0, err
	}
	return row.UserID, nil
}

func (r *ForumRepository) UpdateTopic(ctx context.Context, id uint, patch domain.TopicPatch) (*domain.Topic, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Body != nil {
		updates["body"] = *patch.Body
	}

	res := r.db.WithContext(ctx).Model(&TopicGorm{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrTopicNotFound
	}
	return r.GetTopic(ctx, id)
}

// DeleteTopic removes the topic and its replies.
func (r *ForumRepository) DeleteTopic(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&ReplyGorm{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&TopicGorm{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrTopicNotFound
		}
		return nil
	})
	return txFailed(err)
}

func (r *ForumRepository) CreateReply(ctx context.Context, reply *domain.Reply) error {
	row := &ReplyGorm{Body: reply.Body, TopicID: reply.TopicID, UserID: reply.UserID}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &TopicGorm{}, reply.TopicID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTopicNotFound
		}
		return tx.Omit("User").Create(row).Error
	})
	if err != nil {
		return txFailed(err)
	}

	created, err := r.getReply(ctx, row.ID)
	if err != nil {
		return err
	}
	*reply = *created
	return nil
}

// ReplyOwner returns the author of reply id.
func (r *ForumRepository) ReplyOwner(ctx context.Context, id uint) (uint, error) {
	var row ReplyGorm
	if err := r.db.WithContext(ctx).Select("id", "user_id").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrReplyNotFound
		}
		return 0, err
	}
	return row.UserID, nil
}

func (r *ForumRepository) UpdateReply(ctx context.Context, id uint, body string) (*domain.Reply, error) {
	res := r.db.WithContext(ctx).Model(&ReplyGorm{}).Where("id = ?", id).
		Updates(map[string]any{"body": body, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrReplyNotFound
	}
	return r.getReply(ctx, id)
}

func (r *ForumRepository) DeleteReply(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&ReplyGorm{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrReplyNotFound
	}
	return nil
}

func (r *ForumRepository) getReply(ctx context.Context, id uint) (*domain.Reply, error) {
	var row ReplyGorm
	if err := r.db.WithContext(ctx).Preload("User").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReplyNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}
