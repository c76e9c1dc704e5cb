// Package notify delivers booking lifecycle notifications to log output,
// websocket subscribers and any other registered sink.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"parking-engine/internal/usecase"
)

// Dispatcher fans a notification out to every sink. All sinks are tried even
// when one fails.
type Dispatcher struct {
	sinks []usecase.NotificationSink
}

func NewDispatcher(sinks ...usecase.NotificationSink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Notify(ctx context.Context, n usecase.Notification) error {
	var failed []error
	for _, sink := range d.sinks {
		if err := sink.Notify(ctx, n); err != nil {
			failed = append(failed, err)
		}
	}
	return errors.Join(failed...)
}

// LogSink writes each notification as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, n usecase.Notification) error {
	s.logger.InfoContext(ctx, "booking notification",
		slog.String("category", n.Category.String()),
		slog.String("ticket", n.Ticket),
		slog.String("user_id", n.UserID.String()),
		slog.String("message", n.Message))
	return nil
}
