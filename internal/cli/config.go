package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCmd builds the config command group.
func NewConfigCmd(deps *Deps) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage system configuration",
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := deps.Service.Config().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", args[0], value)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Known keys: 'max_retries', 'backoff_base_seconds', 'poll_interval_seconds'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Service.Config().Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Config updated: %s = %s\n", args[0], args[1])
			return nil
		},
	}

	configCmd.AddCommand(getCmd)
	configCmd.AddCommand(setCmd)
	return configCmd
}
