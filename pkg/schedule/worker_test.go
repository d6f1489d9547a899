package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorker_Validation(t *testing.T) {
	noop := func(ctx context.Context) error { return nil }

	if _, err := NewWorker(WorkerConfig{CronExpr: "not a cron"}, noop, nil); err == nil {
		t.Error("Expected error for invalid cron expression")
	}
	if _, err := NewWorker(WorkerConfig{CronExpr: "0 * * * *", Timezone: "Nowhere/City"}, noop, nil); err == nil {
		t.Error("Expected error for invalid timezone")
	}
	if _, err := NewWorker(WorkerConfig{CronExpr: "0 * * * *", Timezone: "America/New_York"}, noop, nil); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestWorker_StartStop(t *testing.T) {
	var runs atomic.Int32
	var failures atomic.Int32

	worker, err := NewWorker(
		WorkerConfig{Name: "TEST", CronExpr: "@every 1s"},
		func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("lookup failed")
		},
		func(ctx context.Context, err error) {
			failures.Add(1)
		},
	)
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}

	if !worker.NextRun().IsZero() {
		t.Error("Expected zero next run before Start")
	}

	if err := worker.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	// second Start is a no-op
	if err := worker.Start(context.Background()); err != nil {
		t.Fatalf("Second Start failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	worker.Stop()
	worker.Stop()

	if runs.Load() == 0 {
		t.Fatal("Expected the task to run at least once")
	}
	if failures.Load() != runs.Load() {
		t.Errorf("Expected every failed run to reach the error handler, runs=%d failures=%d", runs.Load(), failures.Load())
	}
}

func TestWorker_RunNow(t *testing.T) {
	runErr := errors.New("search index unavailable")
	calls := 0
	var handled error
	worker, err := NewWorker(
		WorkerConfig{CronExpr: "0 0 * * *"},
		func(ctx context.Context) error {
			calls++
			if calls > 1 {
				return runErr
			}
			return nil
		},
		func(ctx context.Context, err error) { handled = err },
	)
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}

	if err := worker.RunNow(context.Background()); err != nil {
		t.Errorf("RunNow returned error: %v", err)
	}
	if handled != nil {
		t.Errorf("Expected no error handler call, got %v", handled)
	}

	if err := worker.RunNow(context.Background()); !errors.Is(err, runErr) {
		t.Errorf("Expected %v, got %v", runErr, err)
	}
	if !errors.Is(handled, runErr) {
		t.Errorf("Expected error handler to receive %v, got %v", runErr, handled)
	}
	if calls != 2 {
		t.Errorf("Expected 2 runs, got %d", calls)
	}
}
