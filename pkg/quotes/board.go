package quotes

import (
	"context"
	"fmt"
	"slices"

	"github.com/quotely/signal/pkg/bridge"
	"github.com/quotely/signal/pkg/produce"
	"github.com/quotely/signal/pkg/reactive"
)

// SignalName is the default name of the board signal.
const SignalName = "quotes"

// Board is the live list of quotes. The storage is the source of truth;
// every successful storage write is mirrored into the signal with a
// draft edit, so only the touched quote is reallocated.
type Board struct {
	storage *Storage
	sig     *reactive.Signal[[]Quote]
}

// NewBoard creates a board seeded with the stored quotes.
// opts are passed to the signal; the name defaults to SignalName.
func NewBoard(storage *Storage, opts ...reactive.Option) *Board {
	opts = append([]reactive.Option{reactive.WithName(SignalName)}, opts...)
	return &Board{
		storage: storage,
		sig:     reactive.New(storage.List(), opts...),
	}
}

// Signal returns the board's signal.
func (b *Board) Signal() *reactive.Signal[[]Quote] {
	return b.sig
}

// Storage returns the backing storage.
func (b *Board) Storage() *Storage {
	return b.storage
}

// Add stores q and appends it to the board. A quote whose id is already
// stored is returned with FromCache set and the board is left alone.
func (b *Board) Add(ctx context.Context, q Quote) (Quote, error) {
	stored, err := b.storage.SetQuote(ctx, q)
	if err != nil {
		return Quote{}, err
	}
	if stored.FromCache {
		return stored, nil
	}
	_, err = b.sig.Mutate(produce.Edit(func(list *[]Quote) {
		*list = append(*list, stored)
	}))
	return stored, err
}

// Like marks the quote with id as a favorite or not.
func (b *Board) Like(ctx context.Context, id string, favorite bool) error {
	q, err := b.storage.UpdateLike(ctx, id, favorite)
	if err != nil {
		return err
	}
	return b.replace(q)
}

// Rate sets the rating of the quote with id.
func (b *Board) Rate(ctx context.Context, id string, rating int) error {
	q, err := b.storage.UpdateRating(ctx, id, rating)
	if err != nil {
		return err
	}
	return b.replace(q)
}

// Remove deletes the quote with id from storage and the board.
func (b *Board) Remove(ctx context.Context, id string) error {
	ok, err := b.storage.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	_, err = b.sig.Mutate(produce.Edit(func(list *[]Quote) {
		*list = slices.DeleteFunc(*list, func(q Quote) bool { return q.ID == id })
	}))
	return err
}

// Random returns a random quote from storage.
func (b *Board) Random() (Quote, bool) {
	return b.storage.Random()
}

func (b *Board) replace(q Quote) error {
	_, err := b.sig.Mutate(func(list *[]Quote) error {
		i := slices.IndexFunc(*list, func(cur Quote) bool { return cur.ID == q.ID })
		if i < 0 {
			return fmt.Errorf("%w: %q not on board", ErrNotFound, q.ID)
		}
		(*list)[i] = q
		return nil
	})
	return err
}

// Favorites projects the board onto its favorite quotes.
func Favorites() bridge.Selector[[]Quote, []Quote] {
	return bridge.Map(func(list []Quote) []Quote {
		var out []Quote
		for _, q := range list {
			if q.IsFavorite {
				out = append(out, q)
			}
		}
		return out
	})
}

// Count projects the board onto its length.
func Count() bridge.Selector[[]Quote, int] {
	return bridge.Map(func(list []Quote) int { return len(list) })
}

// ByID projects the board onto a single quote. The zero Quote stands
// for "not on the board".
func ByID(id string) bridge.Selector[[]Quote, Quote] {
	return bridge.Map(func(list []Quote) Quote {
		if i := slices.IndexFunc(list, func(q Quote) bool { return q.ID == id }); i >= 0 {
			return list[i]
		}
		return Quote{}
	})
}
