package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func NewRoot(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "launchwrap",
		Short:         "launchwrap: wrap macOS application entry points in PATH-fixing launchers",
		Long: `launchwrap replaces an application's entry-point executable with a small
launcher that sources the user's login profiles, rebuilds PATH, and then
execs the preserved original with the same pid and arguments. GUI launches
get the same environment a terminal would have.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version
	cmd.SetVersionTemplate("launchwrap {{.Version}}\n")

	cmd.PersistentFlags().String("config", getenvDefault("LAUNCHWRAP_CONFIG", ""), "Config file path (YAML)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error (overrides config)")
	cmd.PersistentFlags().String("log-format", "", "Log format: text|json (overrides config)")

	cmd.AddCommand(newRewriteCmd())
	cmd.AddCommand(newRestoreCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newArchsCmd())
	cmd.AddCommand(newLaunchCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
