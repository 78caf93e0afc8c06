package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharma-sourabh3435/queuectl/internal/storage"
)

func setupConfig(t *testing.T) *Config {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return New(store)
}

func TestDefaults(t *testing.T) {
	cfg := setupConfig(t)
	ctx := context.Background()

	maxRetries, err := cfg.MaxRetries(ctx)
	if err != nil {
		t.Fatalf("MaxRetries failed: %v", err)
	}
	if maxRetries != 3 {
		t.Errorf("Expected default max_retries 3, got %d", maxRetries)
	}

	base, err := cfg.BackoffBase(ctx)
	if err != nil {
		t.Fatalf("BackoffBase failed: %v", err)
	}
	if base != 2 {
		t.Errorf("Expected default backoff base 2, got %d", base)
	}

	interval, err := cfg.PollInterval(ctx)
	if err != nil {
		t.Fatalf("PollInterval failed: %v", err)
	}
	if interval != time.Second {
		t.Errorf("Expected default poll interval 1s, got %v", interval)
	}
}

func TestSetAndGet(t *testing.T) {
	cfg := setupConfig(t)
	ctx := context.Background()

	if err := cfg.Set(ctx, "max_retries", "5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := cfg.Get(ctx, "max_retries")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "5" {
		t.Errorf("Expected 5, got %q", value)
	}

	maxRetries, err := cfg.MaxRetries(ctx)
	if err != nil {
		t.Fatalf("MaxRetries failed: %v", err)
	}
	if maxRetries != 5 {
		t.Errorf("Expected typed value 5, got %d", maxRetries)
	}
}

func TestUnknownKey(t *testing.T) {
	cfg := setupConfig(t)
	ctx := context.Background()

	if _, err := cfg.Get(ctx, "nope"); !errors.Is(err, storage.ErrBadConfig) {
		t.Errorf("Expected ErrBadConfig on get, got %v", err)
	}
	if err := cfg.Set(ctx, "nope", "1"); !errors.Is(err, storage.ErrBadConfig) {
		t.Errorf("Expected ErrBadConfig on set, got %v", err)
	}
}

func TestSetValidation(t *testing.T) {
	cfg := setupConfig(t)
	ctx := context.Background()

	tests := []struct {
		key   string
		value string
	}{
		{"max_retries", "abc"},
		{"max_retries", "-1"},
		{"backoff_base_seconds", "0"},
		{"backoff_base_seconds", "-2"},
		{"poll_interval_seconds", "0"},
		{"poll_interval_seconds", "x"},
	}

	for _, tt := range tests {
		if err := cfg.Set(ctx, tt.key, tt.value); !errors.Is(err, storage.ErrBadConfig) {
			t.Errorf("Set(%s, %s): expected ErrBadConfig, got %v", tt.key, tt.value, err)
		}
	}

	// Boundary values that are valid
	if err := cfg.Set(ctx, "max_retries", "0"); err != nil {
		t.Errorf("Set(max_retries, 0) should succeed: %v", err)
	}
	if err := cfg.Set(ctx, "backoff_base_seconds", "1"); err != nil {
		t.Errorf("Set(backoff_base_seconds, 1) should succeed: %v", err)
	}
}
