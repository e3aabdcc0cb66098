package repository

import (
	"context"
	"errors"
	"testing"

	"howtoplatform/internal/domain"
)

func TestFavoriteRepository_AddTwice(t *testing.T) {
	db, lessons := newLessonFixture(t)
	ctx := context.Background()
	seedUser(t, db, 9, "reader", domain.RoleUser)

	lesson, err := lessons.Create(ctx, fixALeak())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	favs := NewFavoriteRepository(db)
	if err := favs.Add(ctx, 9, lesson.ID); err != nil {
		t.Fatalf("first Add: %v", err)
	}

	err = favs.Add(ctx, 9, lesson.ID)
	if !errors.Is(err, domain.ErrAlreadyExists) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	n, err := favs.Count(ctx, 9, lesson.ID)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one pair, got %d", n)
	}
}

func TestFavoriteRepository_AddMissing(t *testing.T) {
	db, lessons := newLessonFixture(t)
	ctx := context.Background()

	lesson, err := lessons.Create(ctx, fixALeak())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	favs := NewFavoriteRepository(db)
	if err := favs.Add(ctx, 42, lesson.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if err := favs.Add(ctx, 5, 42); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected lesson not found, got %v", err)
	}
}

func TestFavoriteRepository_RemoveAndList(t *testing.T) {
	db, lessons := newLessonFixture(t)
	ctx := context.Background()
	seedUser(t, db, 9, "reader", domain.RoleUser)

	pub := fixALeak()
	pub.IsPublished = true
	published, err := lessons.Create(ctx, pub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	hidden := fixALeak()
	hidden.Title = "Secret draft"
	draft, err := lessons.Create(ctx, hidden)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	favs := NewFavoriteRepository(db)
	for _, id := range []uint{published.ID, draft.ID} {
		if err := favs.Add(ctx, 9, id); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	list, err := favs.ListByUser(ctx, 9)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].ID != published.ID {
		t.Fatalf("another author's draft must not be listed: %+v", list)
	}

	if err := favs.Remove(ctx, 9, published.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := favs.Remove(ctx, 9, published.ID); !errors.Is(err, domain.ErrFavoriteNotFound) {
		t.Fatalf("expected favorite not found, got %v", err)
	}
}
