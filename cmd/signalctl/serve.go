package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/quotely/signal/internal/config"
	"github.com/quotely/signal/internal/errors"
	"github.com/quotely/signal/pkg/inspect"
	"github.com/quotely/signal/pkg/instrument"
	"github.com/quotely/signal/pkg/persist"
	"github.com/quotely/signal/pkg/quotes"
	"github.com/quotely/signal/pkg/reactive"
)

// selectedKey is where the selected quote id is persisted.
const selectedKey = "signals/selected"

func serveCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quotes board and the signal inspector",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg, os.Stderr)

	observers := []reactive.Observer{instrument.Logging(logger)}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if cfg.Metrics.Enabled {
		observers = append(observers, instrument.Prometheus(
			instrument.WithRegistry(promReg),
			instrument.WithNamespace(cfg.Metrics.Namespace),
		))
	}

	if cfg.Tracing.Enabled {
		shutdown, err := setupTracing(cfg.Tracing, os.Stdout)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("tracer shutdown failed", "error", err)
			}
		}()
		observers = append(observers, instrument.Tracing())
	}
	observer := instrument.Multi(observers...)

	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}()

	storage, err := quotes.NewStorage(ctx, store, quotes.WithStorageLogger(logger))
	if err != nil {
		return errors.FromError(err, "P001")
	}
	board := quotes.NewBoard(storage, reactive.WithObserver(observer), reactive.WithLogger(logger))

	selected := reactive.New("", reactive.WithName("selected"), reactive.WithObserver(observer), reactive.WithLogger(logger))
	unbind, err := persist.Bind(ctx, selected, store, selectedKey,
		persist.WithBindLogger(logger),
		persist.WithErrorHandler(func(key string, err error) {
			logger.Error("selected quote not saved", "key", key, "error", errors.FromError(err, "P001").FormatCompact())
		}))
	if err != nil {
		return errors.FromError(err, "P003")
	}
	defer unbind()

	registry := reactive.NewRegistry()
	if err := reactive.Register(registry, board.Signal()); err != nil {
		return errors.FromError(err, "S003")
	}
	if err := reactive.Register(registry, selected); err != nil {
		return errors.FromError(err, "S003")
	}

	timeout, _ := cfg.ShutdownDuration()
	srv := inspect.New(inspect.Config{
		Addr:            cfg.Addr,
		Registry:        registry,
		Gatherer:        promReg,
		Logger:          logger,
		ShutdownTimeout: timeout,
	})

	logger.Info("serving signals",
		"addr", cfg.Addr,
		"store", cfg.Store.Driver,
		"quotes", storage.Len(),
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled)

	if err := srv.ListenAndServe(ctx); err != nil {
		return errors.New("N001").Wrap(err)
	}
	return nil
}
