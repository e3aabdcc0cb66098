package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samber/lo"

	"howtoplatform/internal/authz"
	"howtoplatform/internal/domain"
	"howtoplatform/internal/validation"
)

var (
	admin      = domain.Caller{ID: 1, Role: domain.RoleAdministrator}
	instructor = domain.Caller{ID: 5, Role: domain.RoleInstructor}
	rival      = domain.Caller{ID: 6, Role: domain.RoleInstructor}
	member     = domain.Caller{ID: 9, Role: domain.RoleUser}
)

func fixALeakPayload() validation.LessonPayload {
	return validation.LessonPayload{
		Title:       "Fix a leak",
		Description: "Stop the drip",
		CategoryID:  1,
		Materials:   []validation.MaterialPayload{{Name: "wrench", Quantity: lo.ToPtr(1)}},
		Steps:       []validation.StepPayload{{Title: "Shut water"}, {Title: "Replace washer"}},
	}
}

func newLessonUseCase(store *stubLessonStore, cache LessonCache) *LessonUseCase {
	return NewLessonUseCase(store, cache, authz.NewGate(), validation.New())
}

func TestLessonUseCase_Create(t *testing.T) {
	var captured domain.LessonDraft
	store := &stubLessonStore{
		createFn: func(_ context.Context, d domain.LessonDraft) (*domain.Lesson, error) {
			captured = d
			return &domain.Lesson{ID: 10, Title: d.Title, UserID: d.UserID}, nil
		},
	}
	uc := newLessonUseCase(store, nil)

	got, err := uc.Create(context.Background(), instructor, fixALeakPayload())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.ID != 10 {
		t.Fatalf("unexpected lesson %+v", got)
	}
	if captured.UserID != instructor.ID {
		t.Fatalf("expected author to default to caller, got %d", captured.UserID)
	}
	if len(captured.Steps) != 2 || captured.Materials[0].Quantity != 1 {
		t.Fatalf("unexpected draft %+v", captured)
	}
}

func TestLessonUseCase_CreateRejected(t *testing.T) {
	tests := []struct {
		name    string
		caller  domain.Caller
		payload func() validation.LessonPayload
		wantErr error
		reason  string
	}{
		{
			name:    "invalid payload",
			caller:  instructor,
			payload: func() validation.LessonPayload { p := fixALeakPayload(); p.Title = "x"; return p },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "plain user",
			caller:  member,
			payload: fixALeakPayload,
			wantErr: domain.ErrForbidden,
			reason:  string(authz.ReasonRole),
		},
		{
			name:   "instructor writing for someone else",
			caller: instructor,
			payload: func() validation.LessonPayload {
				p := fixALeakPayload()
				p.UserID = lo.ToPtr(uint(6))
				return p
			},
			wantErr: domain.ErrForbidden,
			reason:  string(authz.ReasonOwnership),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			store := &stubLessonStore{
				createFn: func(context.Context, domain.LessonDraft) (*domain.Lesson, error) {
					called = true
					return &domain.Lesson{}, nil
				},
			}

			_, err := newLessonUseCase(store, nil).Create(context.Background(), tt.caller, tt.payload())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.reason != "" && !strings.Contains(err.Error(), tt.reason) {
				t.Fatalf("expected reason %q in %q", tt.reason, err.Error())
			}
			if called {
				t.Fatal("store must not be reached")
			}
		})
	}
}

func TestLessonUseCase_AdminAssignsAuthor(t *testing.T) {
	var captured domain.LessonDraft
	store := &stubLessonStore{
		createFn: func(_ context.Context, d domain.LessonDraft) (*domain.Lesson, error) {
			captured = d
			return &domain.Lesson{ID: 1}, nil
		},
	}

	p := fixALeakPayload()
	p.UserID = lo.ToPtr(uint(5))
	if _, err := newLessonUseCase(store, nil).Create(context.Background(), admin, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if captured.UserID != 5 {
		t.Fatalf("expected author 5, got %d", captured.UserID)
	}
}

func TestLessonUseCase_ReplaceByNonOwner(t *testing.T) {
	replaced := false
	store := &stubLessonStore{
		ownershipFn: ownedBy(42, instructor.ID, true),
		replaceFn: func(context.Context, uint, domain.LessonReplacement) (*domain.Lesson, error) {
			replaced = true
			return &domain.Lesson{}, nil
		},
	}

	steps := []validation.StepPayload{{Title: "Hijack"}}
	_, err := newLessonUseCase(store, nil).Replace(context.Background(), rival, 42, validation.LessonReplacePayload{Steps: &steps})
	if !errors.Is(err, domain.ErrForbidden) || !strings.Contains(err.Error(), string(authz.ReasonOwnership)) {
		t.Fatalf("expected forbidden:ownership, got %v", err)
	}
	if replaced {
		t.Fatal("replace must not run for a denied caller")
	}
}

func TestLessonUseCase_Replace(t *testing.T) {
	var gotRep domain.LessonReplacement
	store := &stubLessonStore{
		ownershipFn: ownedBy(42, instructor.ID, true),
		replaceFn: func(_ context.Context, id uint, rep domain.LessonReplacement) (*domain.Lesson, error) {
			gotRep = rep
			return &domain.Lesson{ID: id}, nil
		},
	}
	cache := newRecordingCache()
	cache.stored[42] = &domain.Lesson{ID: 42, IsPublished: true}
	uc := newLessonUseCase(store, cache)

	steps := []validation.StepPayload{{Title: "New only step"}}
	got, err := uc.Replace(context.Background(), instructor, 42, validation.LessonReplacePayload{Steps: &steps})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("unexpected lesson %+v", got)
	}
	if gotRep.Materials != nil {
		t.Fatal("absent materials must stay nil")
	}
	if gotRep.Steps == nil || len(*gotRep.Steps) != 1 {
		t.Fatalf("unexpected steps %+v", gotRep.Steps)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != 42 {
		t.Fatalf("cache not invalidated: %v", cache.invalidated)
	}

	// An admin may edit any lesson and hand it to another author.
	if _, err := uc.Replace(context.Background(), admin, 42, validation.LessonReplacePayload{UserID: lo.ToPtr(uint(6))}); err != nil {
		t.Fatalf("admin Replace() error = %v", err)
	}
	// The owner may not.
	_, err = uc.Replace(context.Background(), instructor, 42, validation.LessonReplacePayload{UserID: lo.ToPtr(uint(6))})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLessonUseCase_ReplaceOrdering(t *testing.T) {
	ownershipRead := false
	store := &stubLessonStore{
		ownershipFn: func(context.Context, uint) (*domain.LessonOwnership, error) {
			ownershipRead = true
			return nil, domain.ErrLessonNotFound
		},
	}
	uc := newLessonUseCase(store, nil)

	_, err := uc.Replace(context.Background(), instructor, 1, validation.LessonReplacePayload{Title: lo.ToPtr("ab")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ownershipRead {
		t.Fatal("validation must run before anything is read")
	}

	_, err = uc.Replace(context.Background(), instructor, 1, validation.LessonReplacePayload{})
	if !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected lesson not found, got %v", err)
	}
}

func TestLessonUseCase_Delete(t *testing.T) {
	var deleted []uint
	store := &stubLessonStore{
		ownershipFn: ownedBy(7, instructor.ID, false),
		deleteFn: func(_ context.Context, id uint) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	uc := newLessonUseCase(store, nil)

	if err := uc.Delete(context.Background(), rival, 7); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := uc.Delete(context.Background(), instructor, 7); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := uc.Delete(context.Background(), admin, 8); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(deleted) != 1 || deleted[0] != 7 {
		t.Fatalf("unexpected deletes %v", deleted)
	}
}

func TestLessonUseCase_SetPublished(t *testing.T) {
	store := &stubLessonStore{
		ownershipFn: ownedBy(3, instructor.ID, false),
		setPublishedFn: func(_ context.Context, id uint, published bool) (*domain.Lesson, error) {
			return &domain.Lesson{ID: id, IsPublished: published}, nil
		},
	}
	uc := newLessonUseCase(store, nil)

	if _, err := uc.SetPublished(context.Background(), instructor, 3, validation.PublishPayload{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, err := uc.SetPublished(context.Background(), instructor, 3, validation.PublishPayload{IsPublished: lo.ToPtr(true)})
	if err != nil || !got.IsPublished {
		t.Fatalf("SetPublished() = %+v, %v", got, err)
	}
	if _, err := uc.SetPublished(context.Background(), member, 3, validation.PublishPayload{IsPublished: lo.ToPtr(true)}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLessonUseCase_GetHidesDrafts(t *testing.T) {
	lessons := map[uint]*domain.Lesson{
		1: {ID: 1, UserID: instructor.ID, IsPublished: false},
		2: {ID: 2, UserID: instructor.ID, IsPublished: true},
	}
	store := &stubLessonStore{
		getFn: func(_ context.Context, id uint) (*domain.Lesson, error) {
			if l, ok := lessons[id]; ok {
				return l, nil
			}
			return nil, domain.ErrLessonNotFound
		},
	}
	cache := newRecordingCache()
	uc := newLessonUseCase(store, cache)
	ctx := context.Background()

	if _, err := uc.Get(ctx, member, 1); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("draft visible to a stranger: %v", err)
	}
	if _, err := uc.Get(ctx, domain.Caller{}, 1); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("draft visible anonymously: %v", err)
	}
	for _, c := range []domain.Caller{instructor, admin} {
		if _, err := uc.Get(ctx, c, 1); err != nil {
			t.Fatalf("draft hidden from %+v: %v", c, err)
		}
	}
	if _, ok := cache.stored[1]; ok {
		t.Fatal("drafts must not be cached")
	}

	if _, err := uc.Get(ctx, domain.Caller{}, 2); err != nil {
		t.Fatalf("published lesson hidden: %v", err)
	}
	if _, ok := cache.stored[2]; !ok {
		t.Fatal("published lesson not cached")
	}
}

func TestLessonUseCase_ListByAuthor(t *testing.T) {
	var filters []domain.LessonFilter
	store := &stubLessonStore{
		listFn: func(_ context.Context, f domain.LessonFilter) ([]domain.Lesson, error) {
			filters = append(filters, f)
			return nil, nil
		},
	}
	uc := newLessonUseCase(store, nil)
	ctx := context.Background()

	for _, c := range []domain.Caller{instructor, admin, member, {}} {
		if _, err := uc.ListByAuthor(ctx, c, instructor.ID); err != nil {
			t.Fatalf("ListByAuthor() error = %v", err)
		}
	}

	want := []bool{false, false, true, true}
	for i, f := range filters {
		if f.UserID != instructor.ID || f.PublishedOnly != want[i] {
			t.Fatalf("filter %d = %+v, want PublishedOnly=%v", i, f, want[i])
		}
	}
}

func TestLessonUseCase_GetSkipsSnapshotOlderThanInvalidate(t *testing.T) {
	cache := newRecordingCache()
	published := &domain.Lesson{ID: 3, UserID: instructor.ID, IsPublished: true}
	store := &stubLessonStore{
		getFn: func(ctx context.Context, id uint) (*domain.Lesson, error) {
			// An unpublish commits while this read is in flight.
			cache.Invalidate(ctx, id)
			return published, nil
		},
	}
	uc := newLessonUseCase(store, cache)

	if _, err := uc.Get(context.Background(), domain.Caller{}, 3); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, ok := cache.stored[3]; ok {
		t.Fatal("stale published snapshot cached after invalidation")
	}
}
