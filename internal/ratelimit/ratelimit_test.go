package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amishk599/talentscout/internal/llm"
)

func TestWait_SameBackend_EnforcesMinDelay(t *testing.T) {
	limiter := NewLimiter(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentBackends_NoCrossBlocking(t *testing.T) {
	limiter := NewLimiter(200 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "groq"); err != nil {
		t.Fatalf("groq wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "gemini"); err != nil {
		t.Fatalf("gemini wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected gemini wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_ZeroDelayNeverBlocks(t *testing.T) {
	limiter := NewLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := limiter.Wait(ctx, "groq"); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected no waiting with zero delay, got %v", elapsed)
	}
}

func TestWait_ConcurrentCallersGetDistinctSlots(t *testing.T) {
	limiter := NewLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Wait(ctx, "groq"); err != nil {
				t.Errorf("wait: %v", err)
			}
		}()
	}
	wg.Wait()

	// Slots at 0, 50ms, 100ms.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected third caller to wait ~100ms, total %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(5 * time.Second)

	if err := limiter.Wait(context.Background(), "groq"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, "groq"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

type recordingProvider struct {
	called bool
}

func (p *recordingProvider) Complete(_ context.Context, _ llm.Request) (string, error) {
	p.called = true
	return "ok", nil
}

func TestProvider_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewLimiter(100 * time.Millisecond)
	inner := &recordingProvider{}
	provider := NewProvider(inner, limiter, "groq")
	ctx := context.Background()

	if _, err := provider.Complete(ctx, llm.Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !inner.called {
		t.Fatal("inner provider was not called on first call")
	}

	inner.called = false

	start := time.Now()
	if _, err := provider.Complete(ctx, llm.Request{}); err != nil {
		t.Fatalf("second call: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner provider was not called on second call")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second call, got %v", elapsed)
	}
}
