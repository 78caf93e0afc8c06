package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sharma-sourabh3435/queuectl/internal/config"
	"github.com/sharma-sourabh3435/queuectl/internal/scheduler"
	"github.com/sharma-sourabh3435/queuectl/internal/storage"
	"github.com/sharma-sourabh3435/queuectl/pkg/utils"
)

// Runtime is a single worker process: it registers itself, polls the store
// for eligible jobs, claims one at a time, executes it, and records the
// outcome. Shutdown is cooperative via a single atomic flag.
type Runtime struct {
	id         string
	store      storage.Storage
	cfg        *config.Config
	workersDir string
	logger     *utils.Logger
	executor   *Executor
	shutdown   atomic.Bool
}

// New creates a worker runtime identified by this process's pid.
func New(store storage.Storage, workersDir string, logLevel utils.LogLevel) *Runtime {
	id := strconv.Itoa(os.Getpid())
	logger := utils.NewLogger(fmt.Sprintf("worker-%s", id), logLevel)

	return &Runtime{
		id:         id,
		store:      store,
		cfg:        config.New(store),
		workersDir: workersDir,
		logger:     logger,
		executor:   NewExecutor(logger),
	}
}

// ID returns the worker's identity token (its pid as text).
func (w *Runtime) ID() string {
	return w.id
}

// RequestShutdown asks the main loop to exit at the next safe point.
func (w *Runtime) RequestShutdown() {
	w.shutdown.Store(true)
}

// PidFilePath returns the path of this worker's identity file.
func (w *Runtime) PidFilePath() string {
	return filepath.Join(w.workersDir, fmt.Sprintf("worker.%s.pid", w.id))
}

// Run executes the worker loop until a shutdown is requested. The worker
// registers itself and writes its pid file before the first poll; cleanup
// of both is guaranteed on every exit path, including signal-driven ones.
func (w *Runtime) Run(ctx context.Context) error {
	now := time.Now().Unix()
	if err := w.store.RegisterWorker(ctx, w.id, now); err != nil {
		return err
	}
	if err := os.WriteFile(w.PidFilePath(), []byte(w.id), 0o644); err != nil {
		w.store.UnregisterWorker(ctx, w.id)
		return fmt.Errorf("failed to write pid file: %w", err)
	}

	defer func() {
		if err := w.store.UnregisterWorker(context.Background(), w.id); err != nil {
			w.logger.Error("Failed to unregister: %v", err)
		}
		os.Remove(w.PidFilePath())
		w.logger.Info("Worker %s stopped", w.id)
	}()

	// SIGTERM is the polite stop; the interactive interrupt is ignored so a
	// foreground Ctrl+C in the spawning terminal does not kill workers.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	signal.Ignore(os.Interrupt)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigCh:
			w.logger.Info("Received signal %v, shutting down gracefully", sig)
			w.shutdown.Store(true)
		case <-done:
		}
	}()

	w.logger.Info("Worker %s started", w.id)

	if reclaimed, err := w.reclaimOrphans(ctx); err != nil {
		w.logger.Error("Orphan recovery failed: %v", err)
	} else if reclaimed > 0 {
		w.logger.Info("Reclaimed %d orphaned job(s)", reclaimed)
	}

	for !w.shutdown.Load() {
		pollInterval, err := w.cfg.PollInterval(ctx)
		if err != nil {
			return err
		}
		time.Sleep(pollInterval)

		if w.shutdown.Load() {
			break
		}
		if err := w.ProcessNext(ctx); err != nil {
			// Any store failure is fatal for the loop; job failures are
			// outcomes, not errors.
			return err
		}
	}

	return nil
}

// ProcessNext claims and runs at most one job. A claim that loses a lock
// race or finds nothing eligible is a quiet no-op.
func (w *Runtime) ProcessNext(ctx context.Context) error {
	job, err := w.store.ClaimNext(ctx, w.id, time.Now().Unix())
	if err != nil {
		if storage.IsBusy(err) {
			w.logger.Debug("Store busy, will retry next poll")
			return nil
		}
		return err
	}
	if job == nil {
		return nil
	}

	w.logger.Info("Processing job %s (command: %s)", job.ID, job.Command)

	result, execErr := w.executor.Execute(ctx, job.Command)
	now := time.Now().Unix()

	if execErr == nil && result.ExitCode == 0 {
		if err := w.store.FinalizeSuccess(ctx, job.ID, now); err != nil {
			return err
		}
		w.logger.Info("Job %s completed successfully", job.ID)
		return nil
	}

	lastError := result.ErrorSummary()
	if execErr != nil {
		lastError = execErr.Error()
	}

	backoffBase, err := w.cfg.BackoffBase(ctx)
	if err != nil {
		return err
	}

	decision := scheduler.Decide(job.Attempts+1, job.MaxRetries, backoffBase)
	nextRunAt := now
	if decision.Retry {
		nextRunAt = now + int64(decision.Delay/time.Second)
	}

	if err := w.store.FinalizeFailure(ctx, job.ID, lastError, decision.Retry, nextRunAt, now); err != nil {
		return err
	}

	if decision.Retry {
		w.logger.Info("Job %s failed, retrying in %v (attempt %d)", job.ID, decision.Delay, job.Attempts+1)
	} else {
		w.logger.Info("Job %s reached max retries, moving to DLQ", job.ID)
	}
	return nil
}

// reclaimOrphans resets jobs stuck in processing whose owner died without
// cleanup. The pid-file check is the second liveness signal next to the
// workers table.
func (w *Runtime) reclaimOrphans(ctx context.Context) (int, error) {
	return w.store.ReclaimOrphans(ctx, time.Now().Unix(), func(workerID string) bool {
		_, err := os.Stat(filepath.Join(w.workersDir, fmt.Sprintf("worker.%s.pid", workerID)))
		return err == nil
	})
}
