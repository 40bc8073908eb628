package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchwrap/launchwrap/internal/macho"
)

func newArchsCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "archs PATH",
		Short: "Print the CPU architectures of a Mach-O executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archs, err := macho.Architectures(args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd, archs)
			}
			for _, a := range archs {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print architectures as JSON")

	return cmd
}
