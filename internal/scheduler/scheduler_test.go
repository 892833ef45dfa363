package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func countingTask(name string, calls *atomic.Int32, err error) Task {
	return Task{Name: name, Run: func(_ context.Context) error {
		calls.Add(1)
		return err
	}}
}

func TestRun_CancelReturnsPromptly(t *testing.T) {
	var calls atomic.Int32
	s := NewScheduler(time.Hour, discardLogger(), countingTask("sweep", &calls, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return within 2s after cancel")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("task calls = %d, want 1 immediate run", got)
	}
}

func TestRun_TasksRepeatOnInterval(t *testing.T) {
	var calls atomic.Int32
	s := NewScheduler(50*time.Millisecond, discardLogger(), countingTask("sweep", &calls, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Immediate run plus at least one tick.
	time.Sleep(180 * time.Millisecond)
	cancel()
	<-done

	if got := calls.Load(); got < 2 {
		t.Errorf("task calls = %d, want >= 2", got)
	}
}

func TestRun_FailingTaskDoesNotStopOthers(t *testing.T) {
	var failing, healthy atomic.Int32
	s := NewScheduler(time.Hour, discardLogger(),
		countingTask("archive-prune", &failing, errors.New("disk full")),
		countingTask("sweep", &healthy, nil),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	if failing.Load() != 1 || healthy.Load() != 1 {
		t.Errorf("calls: failing=%d healthy=%d, want 1 each", failing.Load(), healthy.Load())
	}
}
