package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/talentscout/internal/llm"
	"github.com/amishk599/talentscout/internal/model"
)

// errAttemptTimeout marks a single attempt that ran out of its own time
// while the caller's context was still live.
var errAttemptTimeout = errors.New("attempt timed out")

// Provider is a decorator that retries transient LLM failures with
// exponential backoff and jitter before giving up.
type Provider struct {
	inner          llm.Provider
	maxRetries     int
	baseDelay      time.Duration
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// NewProvider wraps an llm.Provider with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
// attemptTimeout bounds each call to inner on its own; zero means no bound.
// An attempt that hits it is retried like any other transient failure.
func NewProvider(inner llm.Provider, maxRetries int, baseDelay, attemptTimeout time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provider{
		inner:          inner,
		maxRetries:     maxRetries,
		baseDelay:      baseDelay,
		attemptTimeout: attemptTimeout,
		logger:         logger,
	}
}

// Complete attempts the request, retrying on transient errors.
func (p *Provider) Complete(ctx context.Context, req llm.Request) (string, error) {
	out, err := p.attempt(ctx, req)
	if err == nil {
		return out, nil
	}

	if !isRetryable(err) {
		return "", err
	}

	lastErr := err
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		delay := p.backoffDelay(attempt, lastErr)

		p.logger.Warn("retrying llm call after transient error",
			"attempt", attempt,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		out, err = p.attempt(ctx, req)
		if err == nil {
			return out, nil
		}

		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// attempt makes one call to inner under attemptTimeout.
func (p *Provider) attempt(ctx context.Context, req llm.Request) (string, error) {
	if p.attemptTimeout <= 0 {
		return p.inner.Complete(ctx, req)
	}

	actx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
	defer cancel()

	out, err := p.inner.Complete(actx, req)
	if err != nil && ctx.Err() == nil && actx.Err() != nil {
		return "", fmt.Errorf("%w after %s: %w", errAttemptTimeout, p.attemptTimeout, err)
	}
	return out, err
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After carried by an HTTPError takes precedence.
func (p *Provider) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := p.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, errAttemptTimeout) {
		return true
	}

	// Caller cancelled or its deadline passed: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}

	// Network, DNS, malformed body.
	return true
}
