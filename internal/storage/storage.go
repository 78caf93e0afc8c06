package storage

import (
	"context"

	"github.com/sharma-sourabh3435/queuectl/internal/models"
)

// Storage defines the interface for queue persistence.
// All mutating operations are transactional; timestamps are unix seconds.
type Storage interface {
	// Init creates the schema idempotently and seeds config defaults.
	Init(ctx context.Context) error

	// Job operations
	InsertJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, state string) ([]*models.Job, error)
	CountByState(ctx context.Context) (map[string]int, error)

	// ClaimNext atomically marks the oldest eligible pending job as
	// processing on behalf of workerID and returns it. Returns (nil, nil)
	// when no job is eligible.
	ClaimNext(ctx context.Context, workerID string, now int64) (*models.Job, error)

	// FinalizeSuccess completes a processing job.
	FinalizeSuccess(ctx context.Context, id string, now int64) error

	// FinalizeFailure records a failed attempt on a processing job. When
	// retry is true the job returns to pending, eligible at nextRunAt;
	// otherwise it moves to the dead letter queue.
	FinalizeFailure(ctx context.Context, id, lastError string, retry bool, nextRunAt, now int64) error

	// RetryDeadJob moves a dead job back to pending with a clean slate.
	RetryDeadJob(ctx context.Context, id string, now int64) error

	// ReclaimOrphans resets processing jobs whose owner is no longer
	// registered and whose pid file is gone, returning how many were reset.
	ReclaimOrphans(ctx context.Context, now int64, ownerAlive func(workerID string) bool) (int, error)

	// Worker operations
	RegisterWorker(ctx context.Context, workerID string, now int64) error
	UnregisterWorker(ctx context.Context, workerID string) error
	ListWorkers(ctx context.Context) ([]*models.WorkerInfo, error)

	// Config operations
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Database management
	Close() error
}
