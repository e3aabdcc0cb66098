package usecase

import (
	"context"

	"howtoplatform/internal/domain"
	"howtoplatform/internal/infrastructure/security"
)

// Storage and infrastructure the use cases depend on. The concrete types live
// in internal/infrastructure; tests substitute stubs.

type LessonStore interface {
	Create(ctx context.Context, d domain.LessonDraft) (*domain.Lesson, error)
	Replace(ctx context.Context, id uint, rep domain.LessonReplacement) (*domain.Lesson, error)
	SetPublished(ctx context.Context, id uint, published bool) (*domain.Lesson, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*domain.Lesson, error)
	Ownership(ctx context.Context, id uint) (*domain.LessonOwnership, error)
	List(ctx context.Context, f domain.LessonFilter) ([]domain.Lesson, error)
}

// LessonCache stores published lessons. Generation is read before loading
// from storage and handed back to Set, which skips the write when an
// Invalidate happened in between.
type LessonCache interface {
	Get(ctx context.Context, id uint) *domain.Lesson
	Generation(ctx context.Context, id uint) int64
	Set(ctx context.Context, l *domain.Lesson, gen int64)
	Invalidate(ctx context.Context, id uint)
}

type FavoriteStore interface {
	Add(ctx context.Context, userID, lessonID uint) error
	Remove(ctx context.Context, userID, lessonID uint) error
	ListByUser(ctx context.Context, userID uint) ([]domain.Lesson, error)
	Count(ctx context.Context, userID, lessonID uint) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id uint, patch domain.AccountPatch) (*domain.User, error)
	UpdateRole(ctx context.Context, id uint, role domain.RoleID) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type RoleStore interface {
	List(ctx context.Context) ([]domain.Role, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id uint) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id uint, patch domain.CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, id uint) error
}

type ForumStore interface {
	CreateTopic(ctx context.Context, t *domain.Topic) error
	GetTopic(ctx context.Context, id uint) (*domain.Topic, error)
	ListTopics(ctx context.Context, lessonID uint) ([]domain.Topic, error)
	TopicOwner(ctx context.Context, id uint) (uint, error)
	UpdateTopic(ctx context.Context, id uint, patch domain.TopicPatch) (*domain.Topic, error)
	DeleteTopic(ctx context.Context, id uint) error
	CreateReply(ctx context.Context, r *domain.Reply) error
	ReplyOwner(ctx context.Context, id uint) (uint, error)
	UpdateReply(ctx context.Context, id uint, body string) (*domain.Reply, error)
	DeleteReply(ctx context.Context, id uint) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Generate(userID uint, role domain.RoleID) (security.TokenPair, error)
	ValidateAccessToken(token string) (domain.Caller, error)
	ValidateRefreshToken(token string) (uint, string, error)
}

type RefreshStore interface {
	SaveRefresh(ctx context.Context, userID uint, jti string) error
	CheckRefresh(ctx context.Context, userID uint, jti string) error
	DeleteRefresh(ctx context.Context, jti string) error
}
