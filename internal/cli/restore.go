package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchwrap/launchwrap/internal/rewriter"
)

func newRestoreCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "restore APP [APP...]",
		Short: "Put the preserved original entry points back in place",
		Long: `Restore removes each application's launcher and moves the preserved
original executable back to where it was. Applications whose launcher was
already deleted by hand are repaired the same way.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadLocalConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := rewriterOptions(cfg)
			if err != nil {
				return err
			}
			rw := rewriter.New(opts, newLogger(cmd, cfg))

			var results []*rewriter.Result
			failed := 0
			for _, app := range args {
				res, err := rw.Restore(app)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "launchwrap: %v\n", err)
					continue
				}
				results = append(results, res)
				if !jsonOut {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", res.Outcome, res.AppPath)
				}
			}
			if jsonOut {
				if err := printJSON(cmd, results); err != nil {
					return err
				}
			}
			if failed > 0 {
				return appsFailed(failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")

	return cmd
}
