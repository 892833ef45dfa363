package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/talentscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes finished interviews to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each interview via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the session, every collected field and the number of answered
// technical questions. Returns nil (logging does not fail).
func (n *LogNotifier) Notify(_ context.Context, rec model.InterviewRecord) error {
	args := []any{"session", rec.SessionID}
	for _, f := range model.Fields {
		if v := rec.Candidate.Get(f); v != "" {
			args = append(args, string(f), v)
		}
	}
	args = append(args,
		"answers", len(rec.Answers),
		"duration", rec.CompletedAt.Sub(rec.StartedAt).Round(time.Second).String(),
	)
	n.logger.Info("interview completed", args...)
	return nil
}
