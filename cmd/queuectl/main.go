package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sharma-sourabh3435/queuectl/internal/cli"
	"github.com/sharma-sourabh3435/queuectl/internal/queue"
	"github.com/sharma-sourabh3435/queuectl/internal/storage"
	"github.com/sharma-sourabh3435/queuectl/internal/worker"
	"github.com/sharma-sourabh3435/queuectl/pkg/utils"
)

func main() {
	logLevel := utils.LevelFromString(os.Getenv("LOG_LEVEL"))
	logger := utils.NewLogger("queuectl", logLevel)

	dataDir, err := utils.DataDir()
	if err != nil {
		logger.Fatal("Failed to resolve data directory: %v", err)
	}
	dbPath, err := utils.DBPath()
	if err != nil {
		logger.Fatal("Failed to resolve database path: %v", err)
	}
	workersDir, err := utils.WorkersDir()
	if err != nil {
		logger.Fatal("Failed to resolve workers directory: %v", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	deps := &cli.Deps{
		Store:      store,
		Service:    queue.NewService(store),
		Supervisor: worker.NewSupervisor(workersDir, filepath.Join(dataDir, "worker.log"), logger),
		WorkersDir: workersDir,
		DBPath:     dbPath,
		LogLevel:   logLevel,
	}

	if err := cli.NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
