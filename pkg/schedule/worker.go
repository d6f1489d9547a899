package schedule

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is the unit of work run on every tick
type Task func(ctx context.Context) error

// ErrorHandler is called when a scheduled run of the task fails
type ErrorHandler func(ctx context.Context, err error)

// WorkerConfig contains configuration for the worker
type WorkerConfig struct {
	// Name tags log lines
	Name string
	// CronExpr is when the task runs
	CronExpr string
	// Timezone the expression is evaluated in; empty means UTC
	Timezone string
}

// Worker runs a task on a cron schedule. A tick is skipped while the
// previous run is still in progress.
type Worker struct {
	config  WorkerConfig
	task    Task
	onError ErrorHandler
	cron    *cron.Cron
	parser  *CronParser

	// Internal state
	running bool
	cancel  context.CancelFunc
	mu      sync.Mutex
}

// NewWorker creates a new worker. The expression and timezone are validated here.
func NewWorker(config WorkerConfig, task Task, onError ErrorHandler) (*Worker, error) {
	parser := NewCronParser()
	if err := parser.Validate(config.CronExpr); err != nil {
		return nil, err
	}
	loc, err := LoadLocation(config.Timezone)
	if err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = "SCHEDULER"
	}

	logger := cron.PrintfLogger(log.Default())
	return &Worker{
		config:  config,
		task:    task,
		onError: onError,
		parser:  parser,
		cron: cron.New(
			cron.WithParser(parser.parser),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}, nil
}

// Start schedules the task. Runs use a context derived from ctx that is
// cancelled by Stop.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	if _, err := w.cron.AddFunc(w.config.CronExpr, func() { _ = w.runOnce(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule %s: %w", w.config.Name, err)
	}
	w.cancel = cancel
	w.running = true
	w.cron.Start()

	log.Printf("[%s] Started with schedule %q (%s), next run at %s",
		w.config.Name, w.config.CronExpr, w.cron.Location(), w.NextRun().Format(time.RFC3339))
	return nil
}

// Stop cancels in-flight runs and waits for them to return
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	<-w.cron.Stop().Done()
	log.Printf("[%s] Stopped", w.config.Name)
}

// NextRun returns the next scheduled run time, or the zero time when not started
func (w *Worker) NextRun() time.Time {
	entries := w.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunNow runs the task immediately, outside the schedule. Failures are
// logged and passed to the error handler like scheduled runs, and returned.
func (w *Worker) RunNow(ctx context.Context) error {
	log.Printf("[%s] Running immediately", w.config.Name)
	return w.runOnce(ctx)
}

func (w *Worker) runOnce(ctx context.Context) error {
	start := time.Now()
	if err := w.task(ctx); err != nil {
		log.Printf("[%s] Run failed after %v: %v", w.config.Name, time.Since(start), err)
		if w.onError != nil {
			w.onError(ctx, err)
		}
		return err
	}
	log.Printf("[%s] Run completed in %v", w.config.Name, time.Since(start))
	return nil
}
