package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/quotely/signal/internal/config"
	"github.com/quotely/signal/internal/errors"
	"github.com/quotely/signal/pkg/persist"
)

// newLogger builds the process logger from configuration.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openStore opens the configured snapshot store. The returned close func
// is never nil.
func openStore(cfg config.StoreConfig) (persist.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := persist.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, noop, errors.New("P001").Wrap(err)
		}
		return store, store.Close, nil
	case config.DriverS3:
		client := s3.New(s3.Options{
			Region:      cfg.Region,
			Credentials: aws.NewCredentialsCache(envCredentials()),
		})
		return persist.NewS3Store(client, cfg.Bucket, cfg.Prefix), noop, nil
	default:
		return persist.NewMemoryStore(), noop, nil
	}
}

// envCredentials reads the standard AWS_* variables.
func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		creds := aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}
		if !creds.HasKeys() {
			return aws.Credentials{}, errors.Newf(errors.CategoryStorage, "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set for the s3 store")
		}
		return creds, nil
	})
}

// setupTracing installs a global tracer provider that writes spans to w.
// The returned func flushes and stops it.
func setupTracing(cfg config.TracingConfig, w io.Writer) (func(context.Context) error, error) {
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, errors.New("N002").Wrap(err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
