// Package rewriter replaces an application's entry-point executable with a
// generated launcher that rebuilds a login-shell PATH before handing control
// to the preserved original. The original is kept next to the launcher under
// a fixed suffix, which doubles as the idempotency marker and the undo
// handle.
package rewriter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gobwas/glob"
)

// BackupSuffix marks the preserved original executable. Its presence next
// to an entry point means the application is wrapped.
const BackupSuffix = ".real"

// Strategy selects the kind of launcher artifact a rewrite installs.
type Strategy string

const (
	// StrategyScript installs a POSIX shell trampoline.
	StrategyScript Strategy = "script"

	// StrategyCompiled installs a native stub compiled for the same
	// architectures as the original executable.
	StrategyCompiled Strategy = "compiled"
)

// ParseStrategy validates a strategy name from configuration or a flag.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyScript:
		return StrategyScript, nil
	case StrategyCompiled:
		return StrategyCompiled, nil
	default:
		return "", fmt.Errorf("invalid strategy %q (valid: script, compiled)", s)
	}
}

// ArchInspector reports the CPU architectures a Mach-O executable is built
// for. The compiled strategy mirrors them onto the stub.
type ArchInspector interface {
	Architectures(path string) ([]string, error)
}

// StubCompiler turns generated launcher source into an executable.
type StubCompiler interface {
	Compile(ctx context.Context, source string, archs []string, outPath string) error
}

// Signer re-signs an installed launcher.
type Signer interface {
	Sign(ctx context.Context, path string) error
}

// Options configure a Rewriter.
type Options struct {
	// Strategy selects script or compiled launchers.
	Strategy Strategy

	// Interpreter and SystemPath parameterize the generated artifact;
	// empty values fall back to the launcher package's defaults.
	// Profiles and PackageDirs are used as given, so an empty list
	// produces a launcher that sources nothing or prepends nothing.
	Interpreter string
	Profiles    []string
	PackageDirs []string
	SystemPath  string

	// Excludes blocks rewriting of matching application paths.
	Excludes []glob.Glob

	// Sign re-signs installed launchers. SigningRequired escalates a
	// signing failure from a logged warning to a rolled-back error.
	Sign            bool
	SigningRequired bool

	// Inspector is required by the compiled strategy.
	Inspector ArchInspector

	// Compiler is required by the compiled strategy.
	Compiler StubCompiler

	// Signer performs the signing when Sign is set; nil disables it.
	Signer Signer
}

// Rewriter performs rewrite, restore and status operations against
// applications on disk.
type Rewriter struct {
	opts Options
	log  *slog.Logger
}

// New builds a Rewriter. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyScript
	}
	return &Rewriter{opts: opts, log: logger}
}

// Outcome summarizes what an operation did to the application.
type Outcome string

const (
	// OutcomeRewritten means the entry point was moved aside and a
	// launcher installed in its place.
	OutcomeRewritten Outcome = "rewritten"

	// OutcomeAlreadyWrapped means a preserved original was found, so the
	// rewrite was a no-op.
	OutcomeAlreadyWrapped Outcome = "already-wrapped"

	// OutcomeRestored means the preserved original is back in place and
	// the launcher is gone.
	OutcomeRestored Outcome = "restored"

	// OutcomeExcluded means an exclusion pattern matched, so the rewrite
	// was a no-op.
	OutcomeExcluded Outcome = "excluded"

	// OutcomeNotWrapped means there was no preserved original, so the
	// restore was a no-op.
	OutcomeNotWrapped Outcome = "not-wrapped"
)

// Result describes a completed rewrite or restore.
type Result struct {
	ID            string   `json:"id"`
	Outcome       Outcome  `json:"outcome"`
	AppPath       string   `json:"app_path"`
	Executable    string   `json:"executable"`
	RealPath      string   `json:"real_path"`
	Strategy      Strategy `json:"strategy,omitempty"`
	Architectures []string `json:"architectures,omitempty"`
	OriginalHash  string   `json:"original_hash,omitempty"`
	Signed        bool     `json:"signed,omitempty"`
	SignWarning   string   `json:"sign_warning,omitempty"`
}
