package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/launchwrap/launchwrap/internal/config"
)

// defaultConfigPath looks for a config file in the conventional spots.
// Empty means no file was found and built-in defaults apply.
func defaultConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "launchwrap", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if _, err := os.Stat("/etc/launchwrap/config.yaml"); err == nil {
		return "/etc/launchwrap/config.yaml"
	}
	return ""
}

// loadLocalConfig resolves the configuration for a command invocation: the
// --config flag, then the conventional file locations, then built-in
// defaults. Environment overrides apply in every case.
func loadLocalConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
