package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quotely/signal/pkg/reactive"
)

// Default tracer name for signal spans.
const defaultTracerName = "github.com/quotely/signal"

// SpanName is the name of the span recorded for each write.
const SpanName = "signal.write"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer.
	TracerName string

	// Provider supplies the tracer. If nil, the global provider is used.
	Provider trace.TracerProvider

	// IncludeSkipped records spans for assignments that were skipped as
	// identical. Disabled by default.
	IncludeSkipped bool
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithIncludeSkipped enables spans for skipped assignments.
func WithIncludeSkipped(include bool) TracingOption {
	return func(c *TracingConfig) {
		c.IncludeSkipped = include
	}
}

// Tracer is a reactive.Observer that records one span per signal write.
// Signals carry no context, so spans are roots; the write's own start
// time and duration are used as the span's timestamps.
type Tracer struct {
	tracer         trace.Tracer
	includeSkipped bool
}

var _ reactive.Observer = (*Tracer)(nil)

// Tracing creates a tracing observer.
func Tracing(opts ...TracingOption) *Tracer {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{tracer: tracer, includeSkipped: config.IncludeSkipped}
}

// Written implements reactive.Observer.
func (t *Tracer) Written(ev reactive.WriteEvent) {
	if ev.Skipped && !t.includeSkipped {
		return
	}

	_, span := t.tracer.Start(context.Background(), SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(ev.Start),
		trace.WithAttributes(
			attribute.String("signal.name", ev.Signal),
			attribute.String("signal.path", string(ev.Path)),
			attribute.Int("signal.subscribers", ev.Notified),
			attribute.Bool("signal.skipped", ev.Skipped),
		),
	)
	if ev.Aborted {
		span.SetStatus(codes.Error, "subscriber panicked")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(ev.Start.Add(ev.Duration)))
}

// MutationFailed implements reactive.Observer.
func (t *Tracer) MutationFailed(signal string, path reactive.WritePath, err error) {
	now := time.Now()
	_, span := t.tracer.Start(context.Background(), SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(now),
		trace.WithAttributes(
			attribute.String("signal.name", signal),
			attribute.String("signal.path", string(path)),
		),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End(trace.WithTimestamp(now))
}

// Subscribed implements reactive.Observer.
func (t *Tracer) Subscribed(string, int) {}

// Unsubscribed implements reactive.Observer.
func (t *Tracer) Unsubscribed(string, int) {}
