package instrument

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quotely/signal/pkg/produce"
	"github.com/quotely/signal/pkg/reactive"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "signal").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for write duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "signal",
		Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a reactive.Observer that records signal activity as
// Prometheus metrics.
//
// Metrics collected:
//   - signal_writes_total: writes by signal and path (mutate, update, assign)
//   - signal_notifications_total: subscriber calls by signal
//   - signal_mutation_errors_total: failed mutators by signal and kind
//   - signal_short_circuits_total: assignments skipped as identical
//   - signal_aborted_writes_total: notification rounds cut short by a panic
//   - signal_subscribers: active subscribers by signal
//   - signal_write_duration_seconds: write duration including fan-out
type Metrics struct {
	writes        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	mutationErrs  *prometheus.CounterVec
	shortCircuits *prometheus.CounterVec
	aborted       *prometheus.CounterVec
	subscribers   *prometheus.GaugeVec
	duration      *prometheus.HistogramVec
}

var _ reactive.Observer = (*Metrics)(nil)

// Prometheus creates a metrics observer. The collectors are registered
// with the configured registry; creating two observers against the same
// registry panics, so share one observer across signals.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of signal writes",
			ConstLabels: config.ConstLabels,
		}, []string{"signal", "path"}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of subscriber notifications",
			ConstLabels: config.ConstLabels,
		}, []string{"signal"}),

		mutationErrs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutation_errors_total",
			Help:        "Total number of failed mutators",
			ConstLabels: config.ConstLabels,
		}, []string{"signal", "kind"}),

		shortCircuits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "short_circuits_total",
			Help:        "Total number of assignments skipped because the value was identical",
			ConstLabels: config.ConstLabels,
		}, []string{"signal"}),

		aborted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "aborted_writes_total",
			Help:        "Total number of notification rounds aborted by a panicking subscriber",
			ConstLabels: config.ConstLabels,
		}, []string{"signal"}),

		subscribers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscribers",
			Help:        "Number of active subscribers",
			ConstLabels: config.ConstLabels,
		}, []string{"signal"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "write_duration_seconds",
			Help:        "Signal write duration in seconds, including notification",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"signal"}),
	}
}

// Written implements reactive.Observer.
func (m *Metrics) Written(ev reactive.WriteEvent) {
	name := labelOf(ev.Signal)
	m.writes.WithLabelValues(name, string(ev.Path)).Inc()
	if ev.Skipped {
		m.shortCircuits.WithLabelValues(name).Inc()
	}
	if ev.Aborted {
		m.aborted.WithLabelValues(name).Inc()
	}
	if ev.Notified > 0 {
		m.notifications.WithLabelValues(name).Add(float64(ev.Notified))
	}
	m.duration.WithLabelValues(name).Observe(ev.Duration.Seconds())
}

// MutationFailed implements reactive.Observer.
func (m *Metrics) MutationFailed(signal string, _ reactive.WritePath, err error) {
	m.mutationErrs.WithLabelValues(labelOf(signal), errorKind(err)).Inc()
}

// Subscribed implements reactive.Observer.
func (m *Metrics) Subscribed(signal string, active int) {
	m.subscribers.WithLabelValues(labelOf(signal)).Set(float64(active))
}

// Unsubscribed implements reactive.Observer.
func (m *Metrics) Unsubscribed(signal string, active int) {
	m.subscribers.WithLabelValues(labelOf(signal)).Set(float64(active))
}

// ObserveDuration records a write measured outside a signal, for callers
// that batch several writes under one timer.
func (m *Metrics) ObserveDuration(signal string, start time.Time) {
	m.duration.WithLabelValues(labelOf(signal)).Observe(time.Since(start).Seconds())
}

// labelOf keeps unnamed signals from producing an empty label value.
func labelOf(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}

// errorKind classifies a mutator failure for the kind label.
func errorKind(err error) string {
	var me *produce.MutationError
	if !errors.As(err, &me) {
		return "other"
	}
	if me.Panicked {
		return "panic"
	}
	return "error"
}
