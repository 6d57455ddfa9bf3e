package notify

import (
	"context"

	"go.uber.org/zap"

	"medremind-backend/application/ports"
)

// LogSink is a ports.NotificationSink that only logs. It stands in for the
// WebSocket sink when no gateway endpoint is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log-only notification sink
func NewLogSink(logger *zap.Logger) ports.NotificationSink {
	return &LogSink{logger: logger}
}

// Emit logs the reminder
func (s *LogSink) Emit(_ context.Context, n ports.Notification) error {
	s.logger.Info("Reminder",
		zap.String("id", n.ID),
		zap.String("recipient", n.Recipient),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
	)
	return nil
}

// Dismiss logs the dismissal
func (s *LogSink) Dismiss(_ context.Context, recipient, notificationID string) error {
	s.logger.Info("Dismiss reminder",
		zap.String("id", notificationID),
		zap.String("recipient", recipient),
	)
	return nil
}
