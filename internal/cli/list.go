package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sharma-sourabh3435/queuectl/internal/models"
	"github.com/spf13/cobra"
)

// NewListCmd builds the list command.
func NewListCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtering by state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _ := cmd.Flags().GetString("state")

			states := models.States
			if state != "" {
				states = []string{state}
			} else {
				fmt.Println("Listing all jobs (use --state to filter):")
			}

			for _, s := range states {
				jobs, err := deps.Service.List(cmd.Context(), s)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					continue
				}
				fmt.Printf("\n--- State: %s (%d) ---\n", strings.ToUpper(s), len(jobs))
				for _, job := range jobs {
					data, err := json.MarshalIndent(job, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(data))
				}
			}
			return nil
		},
	}
	cmd.Flags().String("state", "", "Filter jobs by state (pending, processing, completed, dead)")
	return cmd
}
