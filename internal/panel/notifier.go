package panel

import (
	"context"
	"log/slog"
)

// Notifier raises user-visible warnings (the panel's alert).
type Notifier interface {
	Warn(ctx context.Context, sessionID, message string)
}

// LogNotifier writes warnings to the structured log.
type LogNotifier struct{}

func (LogNotifier) Warn(ctx context.Context, sessionID, message string) {
	slog.WarnContext(ctx, "Panel: warning", "session", sessionID, "message", message)
}
