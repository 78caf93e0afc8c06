package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEnqueueCmd builds the enqueue command.
func NewEnqueueCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue <job-json>",
		Short: "Add a new job to the queue",
		Long: `Add a new job to the queue.

Example:
  queuectl enqueue '{"id":"job1","command":"echo hello"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := deps.Service.Enqueue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Job enqueued with ID: %s\n", job.ID)
			return nil
		},
	}
}
