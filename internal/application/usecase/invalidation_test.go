package usecase

import (
	"context"
	"errors"
	"testing"

	"howtoplatform/internal/authz"
	"howtoplatform/internal/domain"
	"howtoplatform/internal/validation"
)

// catalog joins lessons with their category and author the way the
// database does, and cascades deletes the way its foreign keys do.
type catalog struct {
	lessons    map[uint]*domain.Lesson
	categories *memCategoryStore
	users      *memUserStore
}

func newCatalog() *catalog {
	return &catalog{
		lessons:    map[uint]*domain.Lesson{},
		categories: &memCategoryStore{categories: map[uint]*domain.Category{}},
		users: newMemUserStore(
			domain.User{ID: instructor.ID, Username: "plumber", RoleID: domain.RoleInstructor},
			domain.User{ID: rival.ID, Username: "carpenter", RoleID: domain.RoleInstructor},
		),
	}
}

func (c *catalog) load(l domain.Lesson) domain.Lesson {
	if cat, ok := c.categories.categories[l.CategoryID]; ok {
		joined := *cat
		l.Category = &joined
	}
	if u, ok := c.users.users[l.UserID]; ok {
		l.Author = &domain.Author{ID: u.ID, Username: u.Username}
	}
	return l
}

func (c *catalog) lessonStore() *stubLessonStore {
	return &stubLessonStore{
		getFn: func(_ context.Context, id uint) (*domain.Lesson, error) {
			l, ok := c.lessons[id]
			if !ok {
				return nil, domain.ErrLessonNotFound
			}
			out := c.load(*l)
			return &out, nil
		},
		listFn: func(_ context.Context, f domain.LessonFilter) ([]domain.Lesson, error) {
			var out []domain.Lesson
			for _, l := range c.lessons {
				if f.CategoryID != 0 && l.CategoryID != f.CategoryID {
					continue
				}
				if f.UserID != 0 && l.UserID != f.UserID {
					continue
				}
				if f.CategoryOwnerID != 0 {
					cat, ok := c.categories.categories[l.CategoryID]
					if !ok || cat.UserID == nil || *cat.UserID != f.CategoryOwnerID {
						continue
					}
				}
				if f.PublishedOnly && !l.IsPublished {
					continue
				}
				out = append(out, c.load(*l))
			}
			return out, nil
		},
	}
}

type cascadingCategoryStore struct {
	*memCategoryStore
	c *catalog
}

func (s cascadingCategoryStore) Delete(ctx context.Context, id uint) error {
	if err := s.memCategoryStore.Delete(ctx, id); err != nil {
		return err
	}
	for lid, l := range s.c.lessons {
		if l.CategoryID == id {
			delete(s.c.lessons, lid)
		}
	}
	return nil
}

type cascadingUserStore struct {
	*memUserStore
	c *catalog
}

func (s cascadingUserStore) Delete(ctx context.Context, id uint) error {
	for cid, cat := range s.c.categories.categories {
		if cat.UserID != nil && *cat.UserID == id {
			if err := (cascadingCategoryStore{s.c.categories, s.c}).Delete(ctx, cid); err != nil {
				return err
			}
		}
	}
	for lid, l := range s.c.lessons {
		if l.UserID == id {
			delete(s.c.lessons, lid)
		}
	}
	return s.memUserStore.Delete(ctx, id)
}

type catalogUseCases struct {
	lessons    *LessonUseCase
	categories *CategoryUseCase
	accounts   *AccountUseCase
	cache      *recordingCache
}

func (c *catalog) useCases() catalogUseCases {
	cache := newRecordingCache()
	ls := c.lessonStore()
	gate := authz.NewGate()
	v := validation.New()
	return catalogUseCases{
		lessons:    NewLessonUseCase(ls, cache, gate, v),
		categories: NewCategoryUseCase(cascadingCategoryStore{c.categories, c}, ls, cache, gate, v),
		accounts: NewAccountUseCase(cascadingUserStore{c.users, c}, stubRoleStore{}, ls, cache,
			nil, gate, v),
		cache: cache,
	}
}

func (u catalogUseCases) warm(t *testing.T, ids ...uint) {
	t.Helper()
	for _, id := range ids {
		if _, err := u.lessons.Get(context.Background(), domain.Caller{}, id); err != nil {
			t.Fatalf("Get(%d) error = %v", id, err)
		}
		if _, ok := u.cache.stored[id]; !ok {
			t.Fatalf("lesson %d not cached", id)
		}
	}
}

func TestCategoryUseCase_DeleteDropsCachedLessons(t *testing.T) {
	c := newCatalog()
	uc := c.useCases()
	ctx := context.Background()

	cat, err := uc.categories.Create(ctx, instructor, validation.CategoryPayload{Name: "Woodwork"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	c.lessons[7] = &domain.Lesson{ID: 7, Title: "Hang a shelf", IsPublished: true, CategoryID: cat.ID, UserID: instructor.ID}
	uc.warm(t, 7)

	if err := uc.categories.Delete(ctx, instructor, cat.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := uc.lessons.Get(ctx, domain.Caller{}, 7); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("lesson of a deleted category still served: %v", err)
	}
}

func TestCategoryUseCase_RenameRefreshesCachedLessons(t *testing.T) {
	c := newCatalog()
	uc := c.useCases()
	ctx := context.Background()

	cat, err := uc.categories.Create(ctx, instructor, validation.CategoryPayload{Name: "Woodwork"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	c.lessons[7] = &domain.Lesson{ID: 7, IsPublished: true, CategoryID: cat.ID, UserID: instructor.ID}
	uc.warm(t, 7)

	name := "Joinery"
	if _, err := uc.categories.Update(ctx, instructor, cat.ID, validation.CategoryPatchPayload{Name: &name}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, err := uc.lessons.Get(ctx, domain.Caller{}, 7)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Category == nil || got.Category.Name != "Joinery" {
		t.Fatalf("stale category in lesson: %+v", got.Category)
	}
}

func TestAccountUseCase_DeleteDropsCachedLessons(t *testing.T) {
	c := newCatalog()
	uc := c.useCases()
	ctx := context.Background()

	system, err := uc.categories.Create(ctx, admin, validation.CategoryPayload{Name: "Plumbing"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	owned, err := uc.categories.Create(ctx, instructor, validation.CategoryPayload{Name: "Woodwork"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	c.lessons[7] = &domain.Lesson{ID: 7, IsPublished: true, CategoryID: system.ID, UserID: instructor.ID}
	c.lessons[8] = &domain.Lesson{ID: 8, IsPublished: true, CategoryID: owned.ID, UserID: rival.ID}
	c.lessons[9] = &domain.Lesson{ID: 9, IsPublished: true, CategoryID: system.ID, UserID: rival.ID}
	uc.warm(t, 7, 8, 9)

	if err := uc.accounts.Delete(ctx, admin, instructor.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	tests := []struct {
		name    string
		id      uint
		wantErr error
	}{
		{name: "authored lesson", id: 7, wantErr: domain.ErrLessonNotFound},
		{name: "lesson filed in owned category", id: 8, wantErr: domain.ErrLessonNotFound},
		{name: "unrelated lesson", id: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.lessons.Get(ctx, domain.Caller{}, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Get(%d) error = %v, want %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestAccountUseCase_UsernameChangeRefreshesCachedLessons(t *testing.T) {
	c := newCatalog()
	uc := c.useCases()
	ctx := context.Background()

	c.lessons[7] = &domain.Lesson{ID: 7, IsPublished: true, UserID: instructor.ID}
	uc.warm(t, 7)

	username := "master-plumber"
	if _, err := uc.accounts.Update(ctx, instructor, instructor.ID, validation.AccountPayload{Username: &username}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, err := uc.lessons.Get(ctx, domain.Caller{}, 7)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Author == nil || got.Author.Username != username {
		t.Fatalf("stale author in lesson: %+v", got.Author)
	}
}
