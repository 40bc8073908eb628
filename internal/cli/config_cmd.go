package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCmd groups the configuration helpers. They read the same file the
// other commands resolve, via the root --config flag.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the launchwrap configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as JSON",
		Long:  "Print the configuration after defaults and LAUNCHWRAP_* environment overrides have been applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadLocalConfig(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd, cfg)
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config file for errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadLocalConfig(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
