package usecase

import (
	"context"

	"howtoplatform/internal/domain"
)

type stubLessonStore struct {
	createFn       func(ctx context.Context, d domain.LessonDraft) (*domain.Lesson, error)
	replaceFn      func(ctx context.Context, id uint, rep domain.LessonReplacement) (*domain.Lesson, error)
	setPublishedFn func(ctx context.Context, id uint, published bool) (*domain.Lesson, error)
	deleteFn       func(ctx context.Context, id uint) error
	getFn          func(ctx context.Context, id uint) (*domain.Lesson, error)
	ownershipFn    func(ctx context.Context, id uint) (*domain.LessonOwnership, error)
	listFn         func(ctx context.Context, f domain.LessonFilter) ([]domain.Lesson, error)
}

func (s *stubLessonStore) Create(ctx context.Context, d domain.LessonDraft) (*domain.Lesson, error) {
	if s.createFn != nil {
		return s.createFn(ctx, d)
	}
	return nil, nil
}

func (s *stubLessonStore) Replace(ctx context.Context, id uint, rep domain.LessonReplacement) (*domain.Lesson, error) {
	if s.replaceFn != nil {
		return s.replaceFn(ctx, id, rep)
	}
	return nil, nil
}

func (s *stubLessonStore) SetPublished(ctx context.Context, id uint, published bool) (*domain.Lesson, error) {
	if s.setPublishedFn != nil {
		return s.setPublishedFn(ctx, id, published)
	}
	return nil, nil
}

func (s *stubLessonStore) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubLessonStore) GetByID(ctx context.Context, id uint) (*domain.Lesson, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, domain.ErrLessonNotFound
}

func (s *stubLessonStore) Ownership(ctx context.Context, id uint) (*domain.LessonOwnership, error) {
	if s.ownershipFn != nil {
		return s.ownershipFn(ctx, id)
	}
	return nil, domain.ErrLessonNotFound
}

func (s *stubLessonStore) List(ctx context.Context, f domain.LessonFilter) ([]domain.Lesson, error) {
	if s.listFn != nil {
		return s.listFn(ctx, f)
	}
	return nil, nil
}

// ownedBy answers Ownership for a single lesson id.
func ownedBy(lessonID, userID uint, published bool) func(context.Context, uint) (*domain.LessonOwnership, error) {
	return func(_ context.Context, id uint) (*domain.LessonOwnership, error) {
		if id != lessonID {
			return nil, domain.ErrLessonNotFound
		}
		return &domain.LessonOwnership{ID: id, UserID: userID, IsPublished: published}, nil
	}
}

// recordingCache is a map-backed LessonCache with the same generation rule
// as the redis one.
type recordingCache struct {
	stored      map[uint]*domain.Lesson
	generations map[uint]int64
	invalidated []uint
}

func newRecordingCache() *recordingCache {
	return &recordingCache{stored: map[uint]*domain.Lesson{}, generations: map[uint]int64{}}
}

func (c *recordingCache) Get(_ context.Context, id uint) *domain.Lesson {
	return c.stored[id]
}

func (c *recordingCache) Generation(_ context.Context, id uint) int64 {
	return c.generations[id]
}

func (c *recordingCache) Set(_ context.Context, l *domain.Lesson, gen int64) {
	if !l.IsPublished || c.generations[l.ID] != gen {
		return
	}
	c.stored[l.ID] = l
}

func (c *recordingCache) Invalidate(_ context.Context, id uint) {
	delete(c.stored, id)
	c.generations[id]++
	c.invalidated = append(c.invalidated, id)
}

type stubFavoriteStore struct {
	addFn    func(ctx context.Context, userID, lessonID uint) error
	removeFn func(ctx context.Context, userID, lessonID uint) error
	listFn   func(ctx context.Context, userID uint) ([]domain.Lesson, error)
	countFn  func(ctx context.Context, userID, lessonID uint) (int64, error)
}

func (s *stubFavoriteStore) Add(ctx context.Context, userID, lessonID uint) error {
	if s.addFn != nil {
		return s.addFn(ctx, userID, lessonID)
	}
	return nil
}

func (s *stubFavoriteStore) Remove(ctx context.Context, userID, lessonID uint) error {
	if s.removeFn != nil {
		return s.removeFn(ctx, userID, lessonID)
	}
	return nil
}

func (s *stubFavoriteStore) ListByUser(ctx context.Context, userID uint) ([]domain.Lesson, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubFavoriteStore) Count(ctx context.Context, userID, lessonID uint) (int64, error) {
	if s.countFn != nil {
		return s.countFn(ctx, userID, lessonID)
	}
	return 0, nil
}

// memUserStore is a small in-memory UserStore.
type memUserStore struct {
	users  map[uint]*domain.User
	nextID uint
}

func newMemUserStore(users ...domain.User) *memUserStore {
	s := &memUserStore{users: map[uint]*domain.User{}, nextID: 100}
	for i := range users {
		u := users[i]
		s.users[u.ID] = &u
	}
	return s
}

func (s *memUserStore) Create(_ context.Context, user *domain.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memUserStore) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memUserStore) Update(_ context.Context, id uint, patch domain.AccountPatch) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil {
		for _, other := range s.users {
			if other.ID != id && other.Email == *patch.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		u.Email = *patch.Email
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	out := *u
	return &out, nil
}

func (s *memUserStore) UpdateRole(_ context.Context, id uint, role domain.RoleID) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.RoleID = role
	out := *u
	return &out, nil
}

func (s *memUserStore) Delete(_ context.Context, id uint) error {
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type stubRoleStore struct{}

func (stubRoleStore) List(context.Context) ([]domain.Role, error) {
	return domain.Roles(), nil
}
