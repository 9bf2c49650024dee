package instrument

import (
	"log/slog"

	"github.com/quotely/signal/pkg/reactive"
)

// Logger is a reactive.Observer that logs every hook.
type Logger struct {
	logger *slog.Logger
}

var _ reactive.Observer = (*Logger)(nil)

// Logging creates an observer that writes writes and subscription changes
// at debug level and mutation failures at warn level.
func Logging(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With("component", "signal")}
}

// Written implements reactive.Observer.
func (l *Logger) Written(ev reactive.WriteEvent) {
	if ev.Aborted {
		l.logger.Warn("notification aborted",
			"signal", ev.Signal,
			"path", ev.Path,
			"duration", ev.Duration)
		return
	}
	l.logger.Debug("signal written",
		"signal", ev.Signal,
		"path", ev.Path,
		"notified", ev.Notified,
		"skipped", ev.Skipped,
		"duration", ev.Duration)
}

// MutationFailed implements reactive.Observer.
func (l *Logger) MutationFailed(signal string, path reactive.WritePath, err error) {
	l.logger.Warn("mutation failed", "signal", signal, "path", path, "error", err)
}

// Subscribed implements reactive.Observer.
func (l *Logger) Subscribed(signal string, active int) {
	l.logger.Debug("subscribed", "signal", signal, "active", active)
}

// Unsubscribed implements reactive.Observer.
func (l *Logger) Unsubscribed(signal string, active int) {
	l.logger.Debug("unsubscribed", "signal", signal, "active", active)
}
