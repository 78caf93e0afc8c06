package queue

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharma-sourabh3435/queuectl/internal/models"
	"github.com/sharma-sourabh3435/queuectl/internal/storage"
)

func setupService(t *testing.T) (*Service, storage.Storage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewService(store), store
}

func TestEnqueue(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	job, err := service.Enqueue(ctx, `{"id":"job-1","command":"echo hi"}`)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if job.ID != "job-1" {
		t.Errorf("Expected id job-1, got %s", job.ID)
	}
	if job.State != models.StatePending {
		t.Errorf("Expected pending, got %s", job.State)
	}
	if job.MaxRetries != models.DefaultMaxRetries {
		t.Errorf("Expected default max_retries %d, got %d", models.DefaultMaxRetries, job.MaxRetries)
	}
	if job.NextRunAt > time.Now().Unix() {
		t.Errorf("Fresh job should be immediately eligible, next_run_at=%d", job.NextRunAt)
	}

	pending, err := service.List(ctx, models.StatePending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "job-1" {
		t.Errorf("Expected job-1 in pending list, got %+v", pending)
	}
}

func TestEnqueueGeneratesID(t *testing.T) {
	service, _ := setupService(t)

	job, err := service.Enqueue(context.Background(), `{"command":"echo hi"}`)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if job.ID == "" {
		t.Error("Expected a generated id")
	}
}

func TestEnqueueExplicitMaxRetries(t *testing.T) {
	service, _ := setupService(t)

	job, err := service.Enqueue(context.Background(), `{"command":"echo hi","max_retries":7}`)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if job.MaxRetries != 7 {
		t.Errorf("Expected max_retries 7, got %d", job.MaxRetries)
	}

	// Explicit zero is honored, not replaced by the default
	job, err = service.Enqueue(context.Background(), `{"command":"echo hi","max_retries":0}`)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if job.MaxRetries != 0 {
		t.Errorf("Expected max_retries 0, got %d", job.MaxRetries)
	}
}

func TestEnqueueDefaultsFromConfig(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	if err := service.Config().Set(ctx, models.ConfigMaxRetries, "6"); err != nil {
		t.Fatalf("Set config failed: %v", err)
	}

	job, err := service.Enqueue(ctx, `{"command":"echo hi"}`)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if job.MaxRetries != 6 {
		t.Errorf("Expected configured max_retries 6, got %d", job.MaxRetries)
	}
}

func TestEnqueueBadInput(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		spec string
	}{
		{"malformed json", `{not json`},
		{"missing command", `{"id":"x"}`},
		{"unknown field", `{"command":"echo hi","priority":5}`},
		{"negative retries", `{"command":"echo hi","max_retries":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Enqueue(ctx, tt.spec); !errors.Is(err, ErrBadInput) {
				t.Errorf("Expected ErrBadInput, got %v", err)
			}
		})
	}
}

func TestEnqueueDuplicate(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	if _, err := service.Enqueue(ctx, `{"id":"job-1","command":"echo hi"}`); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	_, err := service.Enqueue(ctx, `{"id":"job-1","command":"echo hi"}`)
	if !errors.Is(err, storage.ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
}

func TestListRejectsUnknownState(t *testing.T) {
	service, _ := setupService(t)

	if _, err := service.List(context.Background(), "bogus"); !errors.Is(err, ErrBadInput) {
		t.Errorf("Expected ErrBadInput, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	if _, err := service.Enqueue(ctx, `{"command":"echo hi"}`); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	summary, err := service.Status(ctx, 2)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if summary.ActiveWorkers != 2 {
		t.Errorf("Expected 2 active workers, got %d", summary.ActiveWorkers)
	}
	if summary.Counts[models.StatePending] != 1 {
		t.Errorf("Expected 1 pending, got %d", summary.Counts[models.StatePending])
	}
}

func TestDLQRetry(t *testing.T) {
	service, store := setupService(t)
	ctx := context.Background()
	now := time.Now().Unix()

	if _, err := service.Enqueue(ctx, `{"id":"job-1","command":"false","max_retries":0}`); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if _, err := store.ClaimNext(ctx, "w1", now); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if err := store.FinalizeFailure(ctx, "job-1", "boom", false, now, now); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	dead, err := service.DLQJobs(ctx)
	if err != nil {
		t.Fatalf("DLQJobs failed: %v", err)
	}
	if len(dead) != 1 || dead[0].ID != "job-1" {
		t.Errorf("Expected job-1 in DLQ, got %+v", dead)
	}

	if err := service.RetryDead(ctx, "job-1"); err != nil {
		t.Fatalf("RetryDead failed: %v", err)
	}

	dead, err = service.DLQJobs(ctx)
	if err != nil {
		t.Fatalf("DLQJobs failed: %v", err)
	}
	if len(dead) != 0 {
		t.Errorf("Expected empty DLQ after retry, got %+v", dead)
	}

	if err := service.RetryDead(ctx, "job-1"); !errors.Is(err, storage.ErrNotInDLQ) {
		t.Errorf("Expected ErrNotInDLQ for pending job, got %v", err)
	}
}
