// Package queue implements the control operations behind the CLI: enqueue,
// list, status, and DLQ management. Each operation is a thin transaction
// over the store.
package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sharma-sourabh3435/queuectl/internal/config"
	"github.com/sharma-sourabh3435/queuectl/internal/models"
	"github.com/sharma-sourabh3435/queuectl/internal/storage"
)

// ErrBadInput is returned for malformed enqueue payloads or invalid filters.
var ErrBadInput = errors.New("bad input")

// Service exposes the control-plane operations over the store.
type Service struct {
	store storage.Storage
	cfg   *config.Config
}

// NewService creates a Service over the given store.
func NewService(store storage.Storage) *Service {
	return &Service{
		store: store,
		cfg:   config.New(store),
	}
}

// Enqueue parses a job spec, fills defaults, and inserts the job.
// The payload must be a JSON object with a required "command" and optional
// "id" and "max_retries"; anything else is rejected.
func (s *Service) Enqueue(ctx context.Context, specJSON string) (*models.Job, error) {
	var req models.EnqueueRequest
	decoder := json.NewDecoder(bytes.NewReader([]byte(specJSON)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid job JSON: %w", ErrBadInput)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("job must contain a 'command' field: %w", ErrBadInput)
	}
	if req.MaxRetries != nil && *req.MaxRetries < 0 {
		return nil, fmt.Errorf("'max_retries' must be non-negative: %w", ErrBadInput)
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	maxRetries := 0
	if req.MaxRetries != nil {
		maxRetries = *req.MaxRetries
	} else {
		defaultRetries, err := s.cfg.MaxRetries(ctx)
		if err != nil {
			return nil, err
		}
		maxRetries = defaultRetries
	}

	now := time.Now().Unix()
	job := &models.Job{
		ID:         id,
		Command:    req.Command,
		State:      models.StatePending,
		Attempts:   0,
		MaxRetries: maxRetries,
		NextRunAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.InsertJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// List returns jobs in the given state, or all jobs when state is empty.
func (s *Service) List(ctx context.Context, state string) ([]*models.Job, error) {
	if state != "" && !models.ValidState(state) {
		return nil, fmt.Errorf("unknown state %q: %w", state, ErrBadInput)
	}
	return s.store.ListJobs(ctx, state)
}

// Summary combines per-state job counts with the active worker count.
type Summary struct {
	Counts        map[string]int
	ActiveWorkers int
}

// Status reports job counts by state together with the active worker count
// supplied by the caller.
func (s *Service) Status(ctx context.Context, activeWorkers int) (*Summary, error) {
	counts, err := s.store.CountByState(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{Counts: counts, ActiveWorkers: activeWorkers}, nil
}

// DLQJobs lists the jobs in the dead letter queue.
func (s *Service) DLQJobs(ctx context.Context) ([]*models.Job, error) {
	return s.store.ListJobs(ctx, models.StateDead)
}

// RetryDead moves a dead job back to pending with a clean slate.
func (s *Service) RetryDead(ctx context.Context, id string) error {
	return s.store.RetryDeadJob(ctx, id, time.Now().Unix())
}

// Config exposes the typed config accessors.
func (s *Service) Config() *config.Config {
	return s.cfg
}
