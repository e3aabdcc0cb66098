package repository

import (
	"time"

	"github.com/samber/lo"

	"howtoplatform/internal/domain"
)

// GORM models. Domain types stay free of storage tags; each model maps itself
// with toDomain.

type RoleGorm struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"uniqueIndex;not null;size:50"`
}

func (RoleGorm) TableName() string {
	return "roles"
}

type UserGorm struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null;size:50"`
	Email        string    `gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string    `gorm:"not null"`
	RoleID       uint      `gorm:"not null;default:3;index"`
	Role         *RoleGorm `gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserGorm) TableName() string {
	return "users"
}

func (u *UserGorm) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		RoleID:       domain.RoleID(u.RoleID),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (u *UserGorm) toAuthor() *domain.Author {
	if u == nil {
		return nil
	}
	return &domain.Author{ID: u.ID, Username: u.Username}
}

type CategoryGorm struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null;size:100"`
	Description string    `gorm:"type:text"`
	UserID      *uint     `gorm:"index"`
	User        *UserGorm `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (CategoryGorm) TableName() string {
	return "categories"
}

func (c *CategoryGorm) toDomain() *domain.Category {
	if c == nil {
		return nil
	}
	return &domain.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		UserID:      c.UserID,
	}
}

type LessonGorm struct {
	ID          uint          `gorm:"primaryKey"`
	Title       string        `gorm:"uniqueIndex;not null;size:255"`
	Description string        `gorm:"type:text;not null"`
	MediaURL    string        `gorm:"size:2048"`
	MediaAlt    string        `gorm:"size:255"`
	IsPublished bool          `gorm:"not null;default:false;index"`
	CategoryID  uint          `gorm:"not null;index"`
	Category    *CategoryGorm `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	UserID      uint          `gorm:"not null;index"`
	User        *UserGorm     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Materials []MaterialGorm `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
	Steps     []StepGorm     `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LessonGorm) TableName() string {
	return "lessons"
}

func (l *LessonGorm) toDomain() *domain.Lesson {
	return &domain.Lesson{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Media:       media(l.MediaURL, l.MediaAlt),
		IsPublished: l.IsPublished,
		CategoryID:  l.CategoryID,
		UserID:      l.UserID,
		Category:    l.Category.toDomain(),
		Author:      l.User.toAuthor(),
		Materials: lo.Map(l.Materials, func(m MaterialGorm, _ int) domain.Material {
			return domain.Material{ID: m.ID, Name: m.Name, Quantity: m.Quantity}
		}),
		Steps: lo.Map(l.Steps, func(s StepGorm, _ int) domain.Step {
			return domain.Step{
				ID:          s.ID,
				StepOrder:   s.StepOrder,
				Title:       s.Title,
				Description: s.Description,
				Media:       media(s.MediaURL, s.MediaAlt),
			}
		}),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

type StepGorm struct {
	ID          uint   `gorm:"primaryKey"`
	LessonID    uint   `gorm:"not null;uniqueIndex:idx_steps_lesson_order"`
	StepOrder   int    `gorm:"not null;uniqueIndex:idx_steps_lesson_order"`
	Title       string `gorm:"not null;size:255"`
	Description string `gorm:"type:text"`
	MediaURL    string `gorm:"size:2048"`
	MediaAlt    string `gorm:"size:255"`
}

func (StepGorm) TableName() string {
	return "steps"
}

type MaterialGorm struct {
	ID       uint   `gorm:"primaryKey"`
	LessonID uint   `gorm:"not null;index"`
	Name     string `gorm:"not null;size:255"`
	Quantity int    `gorm:"not null;default:1"`
}

func (MaterialGorm) TableName() string {
	return "materials"
}

type FavoriteGorm struct {
	UserID    uint        `gorm:"primaryKey;autoIncrement:false"`
	LessonID  uint        `gorm:"primaryKey;autoIncrement:false;index"`
	User      *UserGorm   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Lesson    *LessonGorm `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (FavoriteGorm) TableName() string {
	return "favorites"
}

type TopicGorm struct {
	ID        uint        `gorm:"primaryKey"`
	Title     string      `gorm:"not null;size:255"`
	Body      string      `gorm:"type:text;not null"`
	UserID    uint        `gorm:"not null;index"`
	User      *UserGorm   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	LessonID  *uint       `gorm:"index"`
	Lesson    *LessonGorm `gorm:"foreignKey:LessonID;constraint:OnDelete:SET NULL"`
	Replies   []ReplyGorm `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TopicGorm) TableName() string {
	return "topics"
}

func (t *TopicGorm) toDomain() *domain.Topic {
	return &domain.Topic{
		ID:       t.ID,
		Title:    t.Title,
		Body:     t.Body,
		UserID:   t.UserID,
		LessonID: t.LessonID,
		Author:   t.User.toAuthor(),
		Replies: lo.Map(t.Replies, func(r ReplyGorm, _ int) domain.Reply {
			return *r.toDomain()
		}),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type ReplyGorm struct {
	ID        uint      `gorm:"primaryKey"`
	Body      string    `gorm:"type:text;not null"`
	TopicID   uint      `gorm:"not null;index"`
	UserID    uint      `gorm:"not null;index"`
	User      *UserGorm `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ReplyGorm) TableName() string {
	return "replies"
}

func (r *ReplyGorm) toDomain() *domain.Reply {
	return &domain.Reply{
		ID:        r.ID,
		Body:      r.Body,
		TopicID:   r.TopicID,
		UserID:    r.UserID,
		Author:    r.User.toAuthor(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Models lists every table in dependency order for AutoMigrate.
func Models() []any {
	return []any{
		&RoleGorm{},
		&UserGorm{},
		&CategoryGorm{},
		&LessonGorm{},
		&StepGorm{},
		&MaterialGorm{},
		&FavoriteGorm{},
		&TopicGorm{},
		&ReplyGorm{},
	}
}

func media(url, alt string) *domain.Media {
	if url == "" {
		return nil
	}
	return &domain.Media{URL: url, Alt: alt}
}
