// Package config provides typed accessors over the store's config table.
// Reads fall back to defaults when a key is absent; writes validate the
// value for the key before storing it.
package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sharma-sourabh3435/queuectl/internal/models"
	"github.com/sharma-sourabh3435/queuectl/internal/storage"
)

// Config reads and writes queue settings backed by the store.
type Config struct {
	store storage.Storage
}

// New creates a Config over the given store.
func New(store storage.Storage) *Config {
	return &Config{store: store}
}

// KnownKey reports whether key belongs to the closed config key set.
func KnownKey(key string) bool {
	switch key {
	case models.ConfigMaxRetries, models.ConfigBackoffBase, models.ConfigPollInterval:
		return true
	}
	return false
}

// MaxRetries returns the configured retry limit for new jobs.
func (c *Config) MaxRetries(ctx context.Context) (int, error) {
	return c.intValue(ctx, models.ConfigMaxRetries, models.DefaultMaxRetries)
}

// BackoffBase returns the exponential backoff base in seconds.
func (c *Config) BackoffBase(ctx context.Context) (int, error) {
	return c.intValue(ctx, models.ConfigBackoffBase, models.DefaultBackoffBase)
}

// PollInterval returns how long workers sleep between polls.
func (c *Config) PollInterval(ctx context.Context) (time.Duration, error) {
	seconds, err := c.intValue(ctx, models.ConfigPollInterval, models.DefaultPollInterval)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// Get returns the raw value for a known key, or its default when unset.
func (c *Config) Get(ctx context.Context, key string) (string, error) {
	if !KnownKey(key) {
		return "", fmt.Errorf("unknown config key %q: %w", key, storage.ErrBadConfig)
	}

	value, err := c.store.GetConfig(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return strconv.Itoa(defaultFor(key)), nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set validates and stores a config value.
func (c *Config) Set(ctx context.Context, key, value string) error {
	if !KnownKey(key) {
		return fmt.Errorf("unknown config key %q: %w", key, storage.ErrBadConfig)
	}
	if err := validate(key, value); err != nil {
		return err
	}
	return c.store.SetConfig(ctx, key, value)
}

func (c *Config) intValue(ctx context.Context, key string, fallback int) (int, error) {
	value, err := c.store.GetConfig(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return 0, err
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config %q has non-integer value %q: %w", key, value, storage.ErrBadConfig)
	}
	return parsed, nil
}

func validate(key, value string) error {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("config %q requires an integer, got %q: %w", key, value, storage.ErrBadConfig)
	}

	switch key {
	case models.ConfigMaxRetries:
		if parsed < 0 {
			return fmt.Errorf("config %q must be non-negative: %w", key, storage.ErrBadConfig)
		}
	case models.ConfigBackoffBase, models.ConfigPollInterval:
		if parsed < 1 {
			return fmt.Errorf("config %q must be positive: %w", key, storage.ErrBadConfig)
		}
	}
	return nil
}

func defaultFor(key string) int {
	switch key {
	case models.ConfigBackoffBase:
		return models.DefaultBackoffBase
	case models.ConfigPollInterval:
		return models.DefaultPollInterval
	default:
		return models.DefaultMaxRetries
	}
}
