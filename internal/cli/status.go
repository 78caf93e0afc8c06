package cli

import (
	"fmt"

	"github.com/sharma-sourabh3435/queuectl/internal/models"
	"github.com/spf13/cobra"
)

// NewStatusCmd builds the status command.
func NewStatusCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a summary of all job states & active workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pids, err := deps.Supervisor.ActivePIDs()
			if err != nil {
				return err
			}

			summary, err := deps.Service.Status(cmd.Context(), len(pids))
			if err != nil {
				return err
			}

			fmt.Println("--- Queue Status ---")
			fmt.Printf("Active Workers: %d\n", summary.ActiveWorkers)
			fmt.Printf("Pending:        %d\n", summary.Counts[models.StatePending])
			fmt.Printf("Processing:     %d\n", summary.Counts[models.StateProcessing])
			fmt.Printf("Completed:      %d\n", summary.Counts[models.StateCompleted])
			fmt.Printf("Dead (DLQ):     %d\n", summary.Counts[models.StateDead])
			return nil
		},
	}
}
