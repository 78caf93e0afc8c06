package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitDBCmd builds the init-db command.
func NewInitDBCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Initialize the job queue database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Store.Init(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Database initialized at: %s\n", deps.DBPath)
			return nil
		},
	}
}
