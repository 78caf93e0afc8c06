// Package cli wires the queuectl command tree. Commands are thin: each one
// calls a single control operation and prints the result.
package cli

import (
	"github.com/sharma-sourabh3435/queuectl/internal/queue"
	"github.com/sharma-sourabh3435/queuectl/internal/storage"
	"github.com/sharma-sourabh3435/queuectl/internal/worker"
	"github.com/sharma-sourabh3435/queuectl/pkg/utils"
	"github.com/spf13/cobra"
)

// Deps carries the collaborators every command may need.
type Deps struct {
	Store      storage.Storage
	Service    *queue.Service
	Supervisor *worker.Supervisor
	WorkersDir string
	DBPath     string
	LogLevel   utils.LogLevel
}

// NewRootCmd builds the queuectl command tree.
func NewRootCmd(deps *Deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "queuectl",
		Short:         "A CLI-based background job queue system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewInitDBCmd(deps))
	rootCmd.AddCommand(NewEnqueueCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewStatusCmd(deps))
	rootCmd.AddCommand(NewDLQCmd(deps))
	rootCmd.AddCommand(NewConfigCmd(deps))
	rootCmd.AddCommand(NewWorkerCmd(deps))

	return rootCmd
}
