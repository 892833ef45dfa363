package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/talentscout/internal/llm"
)

// Limiter enforces a minimum delay between consecutive calls to the same
// LLM backend. Every interview session shares one Limiter, so the delay is
// global across sessions rather than per conversation.
type Limiter struct {
	mu       sync.Mutex
	nextSlot map[string]time.Time // key: backend name
	minDelay time.Duration
}

// NewLimiter creates a limiter that spaces calls to the same backend by at
// least minDelay. A zero minDelay disables waiting.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		nextSlot: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until the caller's reserved slot for backend arrives.
// Concurrent callers each reserve a distinct slot, so they are released
// minDelay apart. Returns an error if ctx is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, backend string) error {
	if l.minDelay <= 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	slot := l.nextSlot[backend]
	if slot.Before(now) {
		slot = now
	}
	l.nextSlot[backend] = slot.Add(l.minDelay)
	l.mu.Unlock()

	wait := slot.Sub(now)
	if wait <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", backend, ctx.Err())
	case <-time.After(wait):
	}
	return nil
}

// Provider is a decorator that waits on the shared limiter before
// delegating to the wrapped llm.Provider.
type Provider struct {
	inner   llm.Provider
	limiter *Limiter
	backend string
}

// NewProvider wraps inner with rate limiting under the given backend key.
func NewProvider(inner llm.Provider, limiter *Limiter, backend string) *Provider {
	return &Provider{
		inner:   inner,
		limiter: limiter,
		backend: backend,
	}
}

// Complete waits for the limiter, then delegates.
func (p *Provider) Complete(ctx context.Context, req llm.Request) (string, error) {
	if err := p.limiter.Wait(ctx, p.backend); err != nil {
		return "", err
	}
	return p.inner.Complete(ctx, req)
}
