package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/launchwrap/launchwrap/internal/codesign"
	"github.com/launchwrap/launchwrap/internal/config"
	"github.com/launchwrap/launchwrap/internal/launcher"
	"github.com/launchwrap/launchwrap/internal/macho"
	"github.com/launchwrap/launchwrap/internal/rewriter"
)

func newRewriteCmd() *cobra.Command {
	var strategy string
	var interpreter string
	var profiles []string
	var packageDirs []string
	var systemPath string
	var sign bool
	var identity string
	var requireSignature bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "rewrite APP [APP...]",
		Short: "Replace application entry points with PATH-fixing launchers",
		Long: `Rewrite moves each application's entry-point executable aside and installs
a launcher in its place. The launcher sources the user's login profiles,
prepends the package-manager directories to PATH, and execs the preserved
original with the same pid and arguments.

Rewriting an already-wrapped application is a no-op.

Examples:
  launchwrap rewrite /Applications/MyEditor.app
  launchwrap rewrite --strategy compiled /Applications/MyEditor.app
  launchwrap rewrite --profile .zprofile --profile .profile /Applications/MyEditor.app`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadLocalConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strategy") {
				cfg.Strategy = strategy
			}
			if cmd.Flags().Changed("interpreter") {
				cfg.Interpreter = interpreter
			}
			if cmd.Flags().Changed("profile") {
				cfg.Profiles = profiles
			}
			if cmd.Flags().Changed("package-dir") {
				cfg.PackageDirs = packageDirs
			}
			if cmd.Flags().Changed("system-path") {
				cfg.SystemPath = systemPath
			}
			if cmd.Flags().Changed("sign") {
				cfg.Signing.Enabled = &sign
			}
			if cmd.Flags().Changed("identity") {
				cfg.Signing.Identity = identity
			}
			if cmd.Flags().Changed("require-signature") {
				cfg.Signing.Required = requireSignature
			}

			opts, err := rewriterOptions(cfg)
			if err != nil {
				return err
			}
			rw := rewriter.New(opts, newLogger(cmd, cfg))

			var results []*rewriter.Result
			failed := 0
			for _, app := range args {
				res, err := rw.Rewrite(cmd.Context(), app)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "launchwrap: %v\n", err)
					continue
				}
				results = append(results, res)
				if jsonOut {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", res.Outcome, res.AppPath)
				if res.SignWarning != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "launchwrap: %s: launcher left unsigned: %s\n", res.AppPath, res.SignWarning)
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

	cmd.Flags().StringVar(&strategy, "strategy", "", "Launcher strategy: script|compiled (default from config)")
	cmd.Flags().StringVar(&interpreter, "interpreter", "", "POSIX shell the launcher execs through")
	cmd.Flags().StringArrayVar(&profiles, "profile", nil, "Profile to source, in order (repeatable; replaces the config list)")
	cmd.Flags().StringArrayVar(&packageDirs, "package-dir", nil, "PATH directory to prepend, highest priority first (repeatable)")
	cmd.Flags().StringVar(&systemPath, "system-path", "", "PATH suffix appended after the package directories")
	cmd.Flags().BoolVar(&sign, "sign", true, "Re-sign the installed launcher")
	cmd.Flags().StringVar(&identity, "identity", "", `Signing identity ("-" for ad-hoc)`)
	cmd.Flags().BoolVar(&requireSignature, "require-signature", false, "Roll back the rewrite when signing fails")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")

	return cmd
}

// rewriterOptions maps resolved configuration onto the rewriter, wiring in
// the real Mach-O inspector, stub compiler and codesign signer.
func rewriterOptions(cfg *config.Config) (rewriter.Options, error) {
	strat, err := rewriter.ParseStrategy(cfg.Strategy)
	if err != nil {
		return rewriter.Options{}, err
	}
	globs, err := cfg.ExcludeGlobs()
	if err != nil {
		return rewriter.Options{}, err
	}
	return rewriter.Options{
		Strategy:        strat,
		Interpreter:     cfg.Interpreter,
		Profiles:        cfg.Profiles,
		PackageDirs:     cfg.PackageDirs,
		SystemPath:      cfg.SystemPath,
		Excludes:        globs,
		Sign:            cfg.SigningEnabled(),
		SigningRequired: cfg.Signing.Required,
		Inspector:       macho.Inspector{},
		Compiler:        launcher.ClangCompiler{},
		Signer:          codesign.Signer{Identity: cfg.Signing.Identity},
	}, nil
}
