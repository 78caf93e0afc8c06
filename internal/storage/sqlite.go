package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sharma-sourabh3435/queuectl/internal/models"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (and if necessary creates) the queue database.
// WAL keeps readers concurrent with the single writer; _txlock=immediate
// makes every write transaction take the write lock up front, which is what
// guarantees that two workers cannot claim the same job.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection per process; cross-process concurrency is SQLite's job.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.Init(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// Init creates the schema idempotently and seeds config defaults
func (s *SQLiteStorage) Init(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		max_retries INTEGER NOT NULL DEFAULT 3,
		next_run_at INTEGER NOT NULL,
		last_error TEXT,
		owner TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_state_next_run ON jobs(state, next_run_at);

	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workers (
		worker_id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	seed := `INSERT OR IGNORE INTO config (key, value) VALUES (?, ?)`
	defaults := map[string]int{
		models.ConfigMaxRetries:   models.DefaultMaxRetries,
		models.ConfigBackoffBase:  models.DefaultBackoffBase,
		models.ConfigPollInterval: models.DefaultPollInterval,
	}
	for key, value := range defaults {
		if _, err := s.db.ExecContext(ctx, seed, key, fmt.Sprintf("%d", value)); err != nil {
			return fmt.Errorf("failed to seed config: %w", err)
		}
	}

	return nil
}

const jobColumns = `id, command, state, attempts, max_retries, next_run_at, last_error, owner, created_at, updated_at`

func scanJob(row interface{ Scan(...interface{}) error }) (*models.Job, error) {
	job := &models.Job{}
	var lastError, owner sql.NullString
	err := row.Scan(
		&job.ID, &job.Command, &job.State, &job.Attempts, &job.MaxRetries,
		&job.NextRunAt, &lastError, &owner, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.LastError = lastError.String
	job.Owner = owner.String
	return job, nil
}

// InsertJob inserts a new job, failing with ErrDuplicateID on id collision
func (s *SQLiteStorage) InsertJob(ctx context.Context, job *models.Job) error {
	query := `INSERT INTO jobs (id, command, state, attempts, max_retries, next_run_at, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		job.ID, job.Command, job.State, job.Attempts, job.MaxRetries,
		job.NextRunAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("job %q: %w", job.ID, ErrDuplicateID)
		}
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by id
func (s *SQLiteStorage) GetJob(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`

	job, err := scanJob(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs retrieves jobs filtered by state, or all jobs when state is empty
func (s *SQLiteStorage) ListJobs(ctx context.Context, state string) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at ASC, id ASC`
	args := []interface{}{}
	if state != "" {
		query = `SELECT ` + jobColumns + ` FROM jobs WHERE state = ? ORDER BY created_at ASC, id ASC`
		args = append(args, state)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// CountByState returns a state -> count mapping
func (s *SQLiteStorage) CountByState(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT state, COUNT(*) FROM jobs GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[state] = count
	}

	return counts, rows.Err()
}

// ClaimNext atomically claims the oldest eligible pending job for workerID.
// The transaction holds the write lock for its whole duration, so a
// concurrent claimer blocks until commit and then sees the updated row.
func (s *SQLiteStorage) ClaimNext(ctx context.Context, workerID string, now int64) (*models.Job, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + jobColumns + ` FROM jobs
	          WHERE state = ? AND next_run_at <= ?
	          ORDER BY next_run_at ASC, created_at ASC, id ASC
	          LIMIT 1`

	job, err := scanJob(tx.QueryRowContext(ctx, query, models.StatePending, now))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select claimable job: %w", err)
	}

	update := `UPDATE jobs SET state = ?, owner = ?, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, update, models.StateProcessing, workerID, now, job.ID); err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	job.State = models.StateProcessing
	job.Owner = workerID
	job.UpdatedAt = now
	return job, nil
}

// FinalizeSuccess completes a processing job and counts the attempt
func (s *SQLiteStorage) FinalizeSuccess(ctx context.Context, id string, now int64) error {
	query := `UPDATE jobs SET state = ?, owner = NULL, attempts = attempts + 1, updated_at = ?
	          WHERE id = ? AND state = ?`

	result, err := s.db.ExecContext(ctx, query, models.StateCompleted, now, id, models.StateProcessing)
	if err != nil {
		return fmt.Errorf("failed to finalize job: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("job %q is not processing: %w", id, ErrNotFound)
	}
	return nil
}

// FinalizeFailure records a failed attempt, re-queueing or burying the job
func (s *SQLiteStorage) FinalizeFailure(ctx context.Context, id, lastError string, retry bool, nextRunAt, now int64) error {
	state := models.StateDead
	if retry {
		state = models.StatePending
	}

	query := `UPDATE jobs SET state = ?, owner = NULL, attempts = attempts + 1,
	                          next_run_at = ?, last_error = ?, updated_at = ?
	          WHERE id = ? AND state = ?`

	result, err := s.db.ExecContext(ctx, query, state, nextRunAt, lastError, now, id, models.StateProcessing)
	if err != nil {
		return fmt.Errorf("failed to finalize job: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("job %q is not processing: %w", id, ErrNotFound)
	}
	return nil
}

// RetryDeadJob moves a dead job back to pending with attempts reset
func (s *SQLiteStorage) RetryDeadJob(ctx context.Context, id string, now int64) error {
	query := `UPDATE jobs SET state = ?, attempts = 0, owner = NULL, next_run_at = ?,
	                          last_error = NULL, updated_at = ?
	          WHERE id = ? AND state = ?`

	result, err := s.db.ExecContext(ctx, query, models.StatePending, now, now, id, models.StateDead)
	if err != nil {
		return fmt.Errorf("failed to retry job: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("job %q: %w", id, ErrNotInDLQ)
	}
	return nil
}

// ReclaimOrphans resets processing jobs whose owner died without cleanup.
// A job is an orphan when its owner is absent from the workers table and
// ownerAlive (the pid-file check) also reports it gone. Runs in a single
// transaction and is idempotent.
func (s *SQLiteStorage) ReclaimOrphans(ctx context.Context, now int64, ownerAlive func(workerID string) bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin reclaim: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT id, owner FROM jobs
	          WHERE state = ? AND owner NOT IN (SELECT worker_id FROM workers)`

	rows, err := tx.QueryContext(ctx, query, models.StateProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to find orphans: %w", err)
	}

	type orphan struct{ id, owner string }
	var candidates []orphan
	for rows.Next() {
		var o orphan
		if err := rows.Scan(&o.id, &o.owner); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan orphan: %w", err)
		}
		candidates = append(candidates, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to find orphans: %w", err)
	}

	reclaimed := 0
	update := `UPDATE jobs SET state = ?, owner = NULL, updated_at = ? WHERE id = ? AND state = ?`
	for _, o := range candidates {
		if ownerAlive != nil && ownerAlive(o.owner) {
			continue
		}
		if _, err := tx.ExecContext(ctx, update, models.StatePending, now, o.id, models.StateProcessing); err != nil {
			return 0, fmt.Errorf("failed to reclaim job %q: %w", o.id, err)
		}
		reclaimed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reclaim: %w", err)
	}
	return reclaimed, nil
}

// RegisterWorker records a worker process in the workers table
func (s *SQLiteStorage) RegisterWorker(ctx context.Context, workerID string, now int64) error {
	query := `INSERT INTO workers (worker_id, started_at) VALUES (?, ?)
	          ON CONFLICT(worker_id) DO UPDATE SET started_at = ?`

	if _, err := s.db.ExecContext(ctx, query, workerID, now, now); err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}
	return nil
}

// UnregisterWorker removes a worker from the workers table
func (s *SQLiteStorage) UnregisterWorker(ctx context.Context, workerID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM workers WHERE worker_id = ?`, workerID); err != nil {
		return fmt.Errorf("failed to unregister worker: %w", err)
	}
	return nil
}

// ListWorkers retrieves all registered workers
func (s *SQLiteStorage) ListWorkers(ctx context.Context) ([]*models.WorkerInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT worker_id, started_at FROM workers ORDER BY started_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []*models.WorkerInfo
	for rows.Next() {
		worker := &models.WorkerInfo{}
		if err := rows.Scan(&worker.WorkerID, &worker.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, worker)
	}

	return workers, rows.Err()
}

// GetConfig retrieves a raw config value, failing with ErrNotFound if absent
func (s *SQLiteStorage) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("config %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config: %w", err)
	}
	return value, nil
}

// SetConfig stores a raw config value
func (s *SQLiteStorage) SetConfig(ctx context.Context, key, value string) error {
	query := `INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
