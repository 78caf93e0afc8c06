package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewDLQCmd builds the dlq command group.
func NewDLQCmd(deps *Deps) *cobra.Command {
	dlqCmd := &cobra.Command{
		Use:   "dlq",
		Short: "Manage the Dead Letter Queue (permanently failed jobs)",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "View all jobs in the DLQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := deps.Service.DLQJobs(cmd.Context())
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Println("Dead Letter Queue is empty.")
				return nil
			}

			fmt.Printf("--- DLQ Jobs (%d) ---\n", len(jobs))
			for _, job := range jobs {
				data, err := json.MarshalIndent(job, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			}
			return nil
		},
	}

	retryCmd := &cobra.Command{
		Use:   "retry <job-id>",
		Short: "Move a specific job from the DLQ back to the pending queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			if err := deps.Service.RetryDead(cmd.Context(), jobID); err != nil {
				return err
			}
			fmt.Printf("Job '%s' moved from DLQ to 'pending' queue.\n", jobID)
			return nil
		},
	}

	dlqCmd.AddCommand(listCmd)
	dlqCmd.AddCommand(retryCmd)
	return dlqCmd
}
