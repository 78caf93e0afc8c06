package utils

import (
	"os"
	"path/filepath"
)

// DataDir returns the per-user queuectl directory, creating it if needed.
// QUEUECTL_HOME overrides the default of ~/.queuectl.
func DataDir() (string, error) {
	dir := getEnv("QUEUECTL_HOME", "")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".queuectl")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// DBPath returns the path of the queue database file.
func DBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "queue.db"), nil
}

// WorkersDir returns the directory holding worker pid files, creating it if needed.
func WorkersDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	workers := filepath.Join(dir, "workers")
	if err := os.MkdirAll(workers, 0o755); err != nil {
		return "", err
	}
	return workers, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
