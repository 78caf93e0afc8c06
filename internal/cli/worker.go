package cli

import (
	"fmt"
	"time"

	"github.com/sharma-sourabh3435/queuectl/internal/worker"
	"github.com/spf13/cobra"
)

// stopTimeout bounds how long 'worker stop' waits for workers to exit.
const stopTimeout = 30 * time.Second

// NewWorkerCmd builds the worker command group.
func NewWorkerCmd(deps *Deps) *cobra.Command {
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage worker processes",
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start one or more worker processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			if err := deps.Supervisor.Start(count); err != nil {
				return err
			}
			fmt.Printf("Successfully started %d worker(s).\n", count)
			fmt.Println("They will run in the background. Use 'queuectl worker stop' to stop them.")
			return nil
		},
	}
	startCmd.Flags().Int("count", 1, "Number of workers to start")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop all running workers gracefully",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := deps.Supervisor.ActivePIDs()
			if err != nil {
				return err
			}
			if len(active) == 0 {
				fmt.Println("No active workers found.")
				return nil
			}
			fmt.Printf("Stopping %d active worker(s)...\n", len(active))

			_, remaining, err := deps.Supervisor.Stop(stopTimeout)
			if err != nil {
				return err
			}
			if len(remaining) == 0 {
				fmt.Println("All workers stopped gracefully.")
			} else {
				fmt.Printf("Some workers did not stop in time: %v. They may need to be killed manually.\n", remaining)
			}
			return nil
		},
	}

	runCmd := &cobra.Command{
		Use:    "run",
		Short:  "Run a single worker loop in the foreground",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime := worker.New(deps.Store, deps.WorkersDir, deps.LogLevel)
			return runtime.Run(cmd.Context())
		},
	}

	workerCmd.AddCommand(startCmd)
	workerCmd.AddCommand(stopCmd)
	workerCmd.AddCommand(runCmd)
	return workerCmd
}
