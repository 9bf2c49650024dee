package quotes

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/quotely/signal/pkg/persist"
)

// KeyPrefix is the store key prefix for quotes.
const KeyPrefix = "quotes/"

// Storage keeps quotes in a persist.Store, one key per quote, with an
// in-memory index for lookups.
type Storage struct {
	store  persist.Store
	logger *slog.Logger

	// mu serializes writes so the index and the store agree.
	mu    sync.Mutex
	index *gocache.Cache
}

// StorageOption configures a Storage.
type StorageOption func(*Storage)

// WithStorageLogger sets the logger.
func WithStorageLogger(logger *slog.Logger) StorageOption {
	return func(s *Storage) {
		s.logger = logger
	}
}

// NewStorage loads every quote under KeyPrefix into the index.
// Entries that fail to decode are logged and skipped.
func NewStorage(ctx context.Context, store persist.Store, opts ...StorageOption) (*Storage, error) {
	s := &Storage{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		index:  gocache.New(gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(s)
	}

	keys, err := store.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	for _, key := range keys {
		q, err := persist.Load[Quote](ctx, store, key)
		if err != nil {
			s.logger.Warn("skipping unreadable quote", "key", key, "error", err)
			continue
		}
		s.index.Set(q.ID, q, gocache.NoExpiration)
	}
	s.logger.Debug("quotes loaded", "count", s.index.ItemCount())
	return s, nil
}

func keyOf(id string) string {
	return KeyPrefix + id
}

// SetQuote stores q. If a quote with the same id is already stored,
// nothing is written and the stored quote is returned with FromCache set.
// A missing id is replaced by a random one.
func (s *Storage) SetQuote(ctx context.Context, q Quote) (Quote, error) {
	if strings.TrimSpace(q.Content) == "" {
		return Quote{}, ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if existing, ok := s.lookup(q.ID); ok {
		s.logger.Debug("cache hit", "id", q.ID)
		existing.FromCache = true
		return existing, nil
	}
	if q.AddedAt.IsZero() {
		q.AddedAt = time.Now().UTC()
	}
	q.FromCache = false
	if err := s.put(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

// Quote returns the quote with id.
func (s *Storage) Quote(id string) (Quote, bool) {
	return s.lookup(id)
}

// Random returns a uniformly chosen quote, or false if there are none.
func (s *Storage) Random() (Quote, bool) {
	all := s.List()
	if len(all) == 0 {
		return Quote{}, false
	}
	return all[rand.IntN(len(all))], true
}

// List returns every quote, oldest first.
func (s *Storage) List() []Quote {
	items := s.index.Items()
	out := make([]Quote, 0, len(items))
	for _, item := range items {
		if q, ok := item.Object.(Quote); ok {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of stored quotes.
func (s *Storage) Len() int {
	return s.index.ItemCount()
}

// Remove deletes the quote with id and reports whether it existed.
func (s *Storage) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(id); !ok {
		return false, nil
	}
	if err := s.store.Delete(ctx, keyOf(id)); err != nil {
		return false, fmt.Errorf("remove quote %q: %w", id, err)
	}
	s.index.Delete(id)
	return true, nil
}

// UpdateQuote replaces the stored quote with the same id.
// ErrNotFound is returned when there is none.
func (s *Storage) UpdateQuote(ctx context.Context, q Quote) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, q.ID, func(cur *Quote) {
		added := cur.AddedAt
		*cur = q
		cur.AddedAt = added
	})
}

// UpdateRating sets the rating of the quote with id.
func (s *Storage) UpdateRating(ctx context.Context, id string, rating int) (Quote, error) {
	if rating < 0 || rating > MaxRating {
		return Quote{}, fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, func(q *Quote) { q.Rating = rating })
}

// UpdateLike sets whether the quote with id is a favorite.
func (s *Storage) UpdateLike(ctx context.Context, id string, favorite bool) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, func(q *Quote) { q.IsFavorite = favorite })
}

// update applies edit to the stored quote with id and writes it back.
// Callers hold mu.
func (s *Storage) update(ctx context.Context, id string, edit func(*Quote)) (Quote, error) {
	q, ok := s.lookup(id)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	edit(&q)
	q.ID = id
	q.FromCache = false
	if err := s.put(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *Storage) put(ctx context.Context, q Quote) error {
	if err := persist.Save(ctx, s.store, keyOf(q.ID), q); err != nil {
		return fmt.Errorf("save quote %q: %w", q.ID, err)
	}
	s.index.Set(q.ID, q, gocache.NoExpiration)
	return nil
}

func (s *Storage) lookup(id string) (Quote, bool) {
	v, ok := s.index.Get(id)
	if !ok {
		return Quote{}, false
	}
	q, ok := v.(Quote)
	return q, ok
}
