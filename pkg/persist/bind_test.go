package persist

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quotely/signal/pkg/produce"
	"github.com/quotely/signal/pkg/reactive"
)

type board struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

func TestBindRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "board", []byte(`{"title":"saved","items":["a"]}`)))

	sig := reactive.New(board{Title: "fresh"}, reactive.WithName("board"))
	unbind, err := Bind(ctx, sig, store, "board")
	require.NoError(t, err)
	defer unbind()

	require.Equal(t, board{Title: "saved", Items: []string{"a"}}, sig.Get())
}

func TestBindWritesOnEveryNotification(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sig := reactive.New(board{Title: "t"}, reactive.WithName("board"))
	unbind, err := Bind(ctx, sig, store, "board")
	require.NoError(t, err)

	_, err = store.Get(ctx, "board")
	require.ErrorIs(t, err, ErrNotFound, "nothing is written until the first notification")

	_, err = sig.Mutate(produce.Edit(func(b *board) { b.Items = append(b.Items, "x") }))
	require.NoError(t, err)

	saved, err := Load[board](ctx, store, "board")
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, saved.Items)

	unbind()
	sig.SetValue(board{Title: "after"})

	saved, err = Load[board](ctx, store, "board")
	require.NoError(t, err)
	require.Equal(t, "t", saved.Title, "unbound signal must not write")
}

func TestBindSaveInitial(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sig := reactive.New(board{Title: "seed"})

	unbind, err := Bind(ctx, sig, store, "board", WithSaveInitial())
	require.NoError(t, err)
	defer unbind()

	saved, err := Load[board](ctx, store, "board")
	require.NoError(t, err)
	require.Equal(t, "seed", saved.Title)
}

func TestBindRejectsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "board", []byte(`not json`)))

	sig := reactive.New(board{})
	_, err := Bind(ctx, sig, store, "board")
	require.Error(t, err)
	require.Zero(t, sig.Subscribers())
}

type failingStore struct {
	Store
	puts atomic.Int32
}

func (f *failingStore) Put(context.Context, string, []byte) error {
	f.puts.Add(1)
	return errors.New("disk full")
}

func TestBindWriteFailureDoesNotReachSignal(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: NewMemoryStore()}

	var failures []error
	sig := reactive.New(0, reactive.WithName("count"))
	unbind, err := Bind(ctx, sig, store, "count", WithErrorHandler(func(key string, err error) {
		require.Equal(t, "count", key)
		failures = append(failures, err)
	}))
	require.NoError(t, err)
	defer unbind()

	var seen []int
	sig.Watch(func(v int) { seen = append(seen, v) })

	sig.SetValue(1)
	sig.SetValue(2)

	require.Equal(t, 2, sig.Get())
	require.Equal(t, []int{1, 2}, seen)
	require.Len(t, failures, 2)
	require.EqualValues(t, 2, store.puts.Load())
}

func TestBindSurvivesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore()
	sig := reactive.New("a")

	unbind, err := Bind(ctx, sig, store, "k")
	require.NoError(t, err)
	defer unbind()
	cancel()

	sig.SetValue("b")
	got, err := Load[string](context.Background(), store, "k")
	require.NoError(t, err)
	require.Equal(t, "b", got)
}
