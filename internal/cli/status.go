package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/launchwrap/launchwrap/internal/rewriter"
)

func newStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status APP [APP...]",
		Short: "Report the wrap state of applications",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := output
			if format == "" {
				format = "json"
				if stdoutIsTTY() {
					format = "table"
				}
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("invalid output format %q (valid: table, json)", output)
			}

			cfg, err := loadLocalConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := rewriterOptions(cfg)
			if err != nil {
				return err
			}
			rw := rewriter.New(opts, newLogger(cmd, cfg))

			statuses := make([]*rewriter.Status, 0, len(args))
			failed := 0
			for _, app := range args {
				st, err := rw.Inspect(app)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "launchwrap: %v\n", err)
					continue
				}
				statuses = append(statuses, st)
			}

			if format == "json" {
				if err := printJSON(cmd, statuses); err != nil {
					return err
				}
			} else {
				printStatusTable(cmd.OutOrStdout(), statuses)
			}
			if failed > 0 {
				return appsFailed(failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table|json (default: table on a TTY, json otherwise)")

	return cmd
}

func printStatusTable(w io.Writer, statuses []*rewriter.Status) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATE\tARCHS\tAPP")
	for _, st := range statuses {
		archs := strings.Join(st.Architectures, ",")
		if archs == "" {
			archs = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", st.State, archs, st.AppPath)
	}
	tw.Flush()
}
