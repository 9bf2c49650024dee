package instrument

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/quotely/signal/pkg/produce"
	"github.com/quotely/signal/pkg/reactive"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

type counterState struct {
	Count int
}

func TestPrometheusRecordsWrites(t *testing.T) {
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))
	sig := reactive.New(counterState{}, reactive.WithName("counter"), reactive.WithObserver(m))

	cancelA := sig.Watch(func(counterState) {})
	sig.Watch(func(counterState) {})

	if _, err := sig.Mutate(produce.Edit(func(d *counterState) { d.Count++ })); err != nil {
		t.Fatal(err)
	}
	sig.SetValue(counterState{Count: 5})
	sig.SetValue(sig.Get()) // identical, skipped

	if got := metricCounterValue(t, m.writes.WithLabelValues("counter", "mutate")); got != 1 {
		t.Errorf("mutate writes = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.writes.WithLabelValues("counter", "assign")); got != 2 {
		t.Errorf("assign writes = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.notifications.WithLabelValues("counter")); got != 4 {
		t.Errorf("notifications = %v, want 4", got)
	}
	if got := metricCounterValue(t, m.shortCircuits.WithLabelValues("counter")); got != 1 {
		t.Errorf("short circuits = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.duration.WithLabelValues("counter")); got != 3 {
		t.Errorf("duration samples = %d, want 3", got)
	}

	if got := metricGaugeValue(t, m.subscribers.WithLabelValues("counter")); got != 2 {
		t.Errorf("subscribers = %v, want 2", got)
	}
	cancelA()
	if got := metricGaugeValue(t, m.subscribers.WithLabelValues("counter")); got != 1 {
		t.Errorf("subscribers = %v, want 1 after cancel", got)
	}
}

func TestPrometheusMutationErrors(t *testing.T) {
	m := Prometheus(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
	sig := reactive.New(counterState{}, reactive.WithName("counter"), reactive.WithObserver(m))

	_, err := sig.Mutate(func(*counterState) error { return errors.New("nope") })
	if err == nil {
		t.Fatal("expected error")
	}
	_, err = sig.Mutate(produce.Edit(func(*counterState) { panic("boom") }))
	if err == nil {
		t.Fatal("expected error")
	}

	if got := metricCounterValue(t, m.mutationErrs.WithLabelValues("counter", "error")); got != 1 {
		t.Errorf("error kind = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.mutationErrs.WithLabelValues("counter", "panic")); got != 1 {
		t.Errorf("panic kind = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.writes.WithLabelValues("counter", "mutate")); got != 0 {
		t.Errorf("failed mutations counted as writes: %v", got)
	}
}

func TestPrometheusAbortedWrite(t *testing.T) {
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))
	sig := reactive.New(0, reactive.WithObserver(m))
	sig.Subscribe(func(int) { panic("subscriber") })

	func() {
		defer func() { _ = recover() }()
		sig.SetValue(1)
	}()

	if got := metricCounterValue(t, m.aborted.WithLabelValues("unnamed")); got != 1 {
		t.Errorf("aborted = %v, want 1", got)
	}
}

func TestPrometheusRegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithSubsystem("state"), WithConstLabels(prometheus.Labels{"app": "quotes"}))
	m.ObserveDuration("board", time.Now())

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "signal_state_write_duration_seconds" {
			found = true
			labels := f.GetMetric()[0].GetLabel()
			if len(labels) != 2 {
				t.Errorf("labels = %v", labels)
			}
		}
	}
	if !found {
		t.Error("expected signal_state_write_duration_seconds to be registered")
	}
}

func TestPrometheusDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	Prometheus(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	Prometheus(WithRegistry(reg))
}
