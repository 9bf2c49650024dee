// Package instrument provides reactive.Observer implementations that export
// signal activity to Prometheus, OpenTelemetry and log/slog.
//
// Observers are attached per signal:
//
//	obs := instrument.Multi(
//	    instrument.Prometheus(instrument.WithNamespace("quotely")),
//	    instrument.Tracing(),
//	)
//	quotes := reactive.New([]Quote{}, reactive.WithName("quotes"), reactive.WithObserver(obs))
package instrument
