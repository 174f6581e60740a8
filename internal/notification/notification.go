package notification

import (
	"context"
	"log/slog"
)

// Event kinds.
const (
	// KindTransfer indicates a wallet-to-wallet transfer.
	KindTransfer = "transfer"
	// KindGoalCompleted indicates a saving goal reached completed status.
	KindGoalCompleted = "goal_completed"
)

// Event describes a notification payload.
type Event struct {
	Kind   string
	UserID string
	Ref    string
	Body   string
}

// Notifier delivers events to downstream systems.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// LoggerNotifier writes events to the structured logger. It stands in for a
// real push/email channel.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Notify writes the event to the structured logger.
func (n *LoggerNotifier) Notify(_ context.Context, event Event) {
	if n == nil || n.logger == nil {
		return
	}
	n.logger.Info("notification",
		slog.String("kind", event.Kind),
		slog.String("user_id", event.UserID),
		slog.String("ref", event.Ref),
		slog.String("body", event.Body),
	)
}
