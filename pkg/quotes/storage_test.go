package quotes

import (
	"context"
	"errors"
	"testing"

	"github.com/quotely/signal/pkg/persist"
)

var (
	jobs = Quote{
		ID:         "quote-1",
		Content:    "The only way to do great work is to love what you do.",
		Author:     "Steve Jobs",
		Rating:     5,
		IsFavorite: true,
		Source:     "https://example.com",
	}
	leader = Quote{
		ID:      "quote-2",
		Content: "Innovation distinguishes between a leader and a follower.",
		Author:  "Steve Jobs",
		Rating:  4,
		Source:  "https://example.com",
	}
)

func newStorage(t *testing.T, store persist.Store) *Storage {
	t.Helper()
	s, err := NewStorage(context.Background(), store)
	if err != nil {
		t.Fatalf("NewStorage() error: %v", err)
	}
	return s
}

func TestStorageLoadsExistingQuotes(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStore()
	if err := persist.Save(ctx, store, keyOf(jobs.ID), jobs); err != nil {
		t.Fatal(err)
	}
	if err := persist.Save(ctx, store, keyOf(leader.ID), leader); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, KeyPrefix+"broken", []byte("{")); err != nil {
		t.Fatal(err)
	}

	s := newStorage(t, store)
	if s.Len() != 2 {
		t.Fatalf("expected 2 quotes, got %d", s.Len())
	}
	if q, ok := s.Quote("quote-1"); !ok || q.Author != "Steve Jobs" {
		t.Errorf("Quote(quote-1) = %+v, %v", q, ok)
	}
}

func TestSetQuoteCacheHit(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t, persist.NewMemoryStore())

	first, err := s.SetQuote(ctx, jobs)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Error("first insert should not be a cache hit")
	}

	changed := jobs
	changed.Content = "something else"
	second, err := s.SetQuote(ctx, changed)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Error("second insert should be a cache hit")
	}
	if second.Content != jobs.Content {
		t.Errorf("cache hit must not overwrite, got %q", second.Content)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 quote, got %d", s.Len())
	}
}

func TestSetQuoteAssignsID(t *testing.T) {
	s := newStorage(t, persist.NewMemoryStore())

	q, err := s.SetQuote(context.Background(), Quote{Content: "anonymous"})
	if err != nil {
		t.Fatal(err)
	}
	if q.ID == "" {
		t.Fatal("expected generated id")
	}
	if q.AddedAt.IsZero() {
		t.Error("expected AddedAt to be set")
	}
	if _, ok := s.Quote(q.ID); !ok {
		t.Error("generated id not indexed")
	}
}

func TestSetQuoteRejectsEmptyContent(t *testing.T) {
	s := newStorage(t, persist.NewMemoryStore())
	if _, err := s.SetQuote(context.Background(), Quote{ID: "x", Content: "  "}); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestStorageListAndRandom(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t, persist.NewMemoryStore())

	if _, ok := s.Random(); ok {
		t.Error("Random on empty storage should report false")
	}

	for _, q := range []Quote{jobs, leader} {
		if _, err := s.SetQuote(ctx, q); err != nil {
			t.Fatal(err)
		}
	}

	list := s.List()
	if len(list) != 2 || list[0].ID != "quote-1" || list[1].ID != "quote-2" {
		t.Errorf("List() = %+v", list)
	}

	for i := 0; i < 20; i++ {
		q, ok := s.Random()
		if !ok || (q.ID != "quote-1" && q.ID != "quote-2") {
			t.Fatalf("Random() = %+v, %v", q, ok)
		}
	}
}

func TestStorageRemove(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStore()
	s := newStorage(t, store)
	if _, err := s.SetQuote(ctx, jobs); err != nil {
		t.Fatal(err)
	}

	removed, err := s.Remove(ctx, "quote-1")
	if err != nil || !removed {
		t.Fatalf("Remove() = %v, %v", removed, err)
	}
	removed, err = s.Remove(ctx, "quote-1")
	if err != nil || removed {
		t.Errorf("second Remove() = %v, %v", removed, err)
	}
	if _, err := store.Get(ctx, keyOf("quote-1")); !errors.Is(err, persist.ErrNotFound) {
		t.Errorf("quote still persisted: %v", err)
	}
}

func TestStorageUpdates(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStore()
	s := newStorage(t, store)
	stored, err := s.SetQuote(ctx, leader)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		apply func() (Quote, error)
		check func(Quote) bool
	}{
		{
			name:  "rating",
			apply: func() (Quote, error) { return s.UpdateRating(ctx, "quote-2", 2) },
			check: func(q Quote) bool { return q.Rating == 2 },
		},
		{
			name:  "like",
			apply: func() (Quote, error) { return s.UpdateLike(ctx, "quote-2", true) },
			check: func(q Quote) bool { return q.IsFavorite },
		},
		{
			name: "replace",
			apply: func() (Quote, error) {
				q := leader
				q.Content = "edited"
				return s.UpdateQuote(ctx, q)
			},
			check: func(q Quote) bool { return q.Content == "edited" && q.AddedAt.Equal(stored.AddedAt) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := tt.apply()
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(q) {
				t.Errorf("unexpected result %+v", q)
			}
			saved, err := persist.Load[Quote](ctx, store, keyOf("quote-2"))
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(saved) {
				t.Errorf("persisted quote not updated: %+v", saved)
			}
		})
	}
}

func TestStorageUpdateErrors(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t, persist.NewMemoryStore())

	if _, err := s.UpdateLike(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateRating(ctx, "missing", MaxRating+1); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating, got %v", err)
	}
	if _, err := s.UpdateQuote(ctx, Quote{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
