package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/launchwrap/launchwrap/internal/bundle"
)

// execFunc replaces the process image. Injectable so tests can capture the
// argument vector without actually exec'ing.
var execFunc = execProcess

func newLaunchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch APP [ARGS...]",
		Short: "Exec an application's entry point in place of launchwrap",
		Long: `Launch resolves the entry-point executable of APP and replaces the
launchwrap process with it, passing ARGS through unchanged. A wrapped
application goes through its launcher, so this shows exactly what a Finder
launch would run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := bundle.ExecutablePath(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("%s: entry-point executable not found", args[0])
				}
				return err
			}
			argv := append([]string{target}, args[1:]...)
			return execFunc(target, argv, os.Environ())
		},
	}

	// Arguments after APP belong to the application, not to launchwrap.
	cmd.Flags().SetInterspersed(false)

	return cmd
}
