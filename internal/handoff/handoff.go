package handoff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/talentscout/internal/interview"
	"github.com/amishk599/talentscout/internal/model"
)

// defaultTimeout bounds archive + notify when the caller gives no deadline.
const defaultTimeout = 30 * time.Second

// Handoff owns the completion pipeline for a finished interview:
// skip empty → archive → notify recruiters.
type Handoff struct {
	store    model.InterviewStore
	notifier model.Notifier
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a hand-off wired with its store and notifier. timeout <= 0
// selects a 30 second bound; a nil logger discards.
func New(store model.InterviewStore, notifier model.Notifier, timeout time.Duration, logger *slog.Logger) *Handoff {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handoff{
		store:    store,
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}
}

// Handle archives and announces rec. Interviews that ended before any field
// was collected are dropped. The archive is written before notifying, so a
// notification failure never loses the record.
func (h *Handoff) Handle(ctx context.Context, rec model.InterviewRecord) error {
	if rec.Candidate.IsEmpty() {
		h.logger.Debug("skipping hand-off for empty interview", "session", rec.SessionID)
		return nil
	}

	if err := h.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("hand-off %s: archiving: %w", rec.SessionID, err)
	}

	if err := h.notifier.Notify(ctx, rec); err != nil {
		return fmt.Errorf("hand-off %s: notifying: %w", rec.SessionID, err)
	}

	h.logger.Info("interview handed off",
		"session", rec.SessionID,
		"fields", rec.Candidate.Filled(),
		"answers", len(rec.Answers),
	)
	return nil
}

// Hook adapts Handle to the session completion callback. The hand-off
// outlives the turn's cancellation but is bounded by its own timeout;
// failures are logged, never surfaced to the candidate.
func (h *Handoff) Hook() interview.CompletionFunc {
	return func(ctx context.Context, rec model.InterviewRecord) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()

		if err := h.Handle(ctx, rec); err != nil {
			h.logger.Error("interview hand-off failed", "session", rec.SessionID, "error", err)
		}
	}
}
