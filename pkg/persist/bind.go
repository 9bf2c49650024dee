package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quotely/signal/pkg/reactive"
)

// BindOption configures Bind.
type BindOption func(*bindConfig)

type bindConfig struct {
	logger      *slog.Logger
	timeout     time.Duration
	onError     func(key string, err error)
	saveInitial bool
}

// WithBindLogger sets the logger for load and save failures.
func WithBindLogger(logger *slog.Logger) BindOption {
	return func(c *bindConfig) {
		c.logger = logger
	}
}

// WithWriteTimeout bounds each snapshot write. The default is 5s.
func WithWriteTimeout(d time.Duration) BindOption {
	return func(c *bindConfig) {
		c.timeout = d
	}
}

// WithErrorHandler is called for every failed snapshot write, after it
// has been logged.
func WithErrorHandler(fn func(key string, err error)) BindOption {
	return func(c *bindConfig) {
		c.onError = fn
	}
}

// WithSaveInitial writes the signal's current value when the store has
// no snapshot for the key yet.
func WithSaveInitial() BindOption {
	return func(c *bindConfig) {
		c.saveInitial = true
	}
}

// Bind connects sig to key in store.
//
// If the store holds a snapshot for key, it is decoded and assigned to the
// signal with SetValue before Bind returns. A snapshot that cannot be read
// or decoded is an error and nothing is subscribed.
//
// After that, every notification writes a JSON snapshot of the new value.
// Write failures are logged and passed to the error handler; they never
// reach the signal or its other subscribers. Writes happen synchronously
// on the writer's goroutine using a context detached from ctx's
// cancellation.
//
// The returned unbind removes the subscription.
func Bind[T any](ctx context.Context, sig *reactive.Signal[T], store Store, key string, opts ...BindOption) (unbind func(), err error) {
	cfg := bindConfig{
		logger:  slog.New(slog.DiscardHandler),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.With("signal", sig.Name(), "key", key)

	data, err := store.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		if cfg.saveInitial {
			if err := Save(ctx, store, key, sig.Get()); err != nil {
				return nil, err
			}
		}
	case err != nil:
		return nil, fmt.Errorf("load %q: %w", key, err)
	default:
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		sig.SetValue(v)
		logger.Debug("snapshot restored", "bytes", len(data))
	}

	base := context.WithoutCancel(ctx)
	cancel := sig.Watch(func(v T) {
		wctx, done := context.WithTimeout(base, cfg.timeout)
		defer done()

		if err := Save(wctx, store, key, v); err != nil {
			logger.Warn("snapshot write failed", "error", err)
			if cfg.onError != nil {
				cfg.onError(key, err)
			}
		}
	})
	return func() { cancel() }, nil
}

// Save encodes v as JSON and stores it under key.
func Save[T any](ctx context.Context, store Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return store.Put(ctx, key, data)
}

// Load decodes the snapshot stored under key.
func Load[T any](ctx context.Context, store Store, key string) (T, error) {
	var v T
	data, err := store.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %q: %w", key, err)
	}
	return v, nil
}
