package rewriter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/launchwrap/launchwrap/internal/bundle"
	"github.com/launchwrap/launchwrap/internal/launcher"
)

// Rewrite replaces the entry-point executable of the application at appPath
// with a generated launcher, preserving the original next to it under
// BackupSuffix. A second rewrite of the same application is a no-op that
// reports OutcomeAlreadyWrapped.
func (r *Rewriter) Rewrite(ctx context.Context, appPath string) (*Result, error) {
	abs, err := filepath.Abs(appPath)
	if err != nil {
		return nil, err
	}

	for _, g := range r.opts.Excludes {
		if g.Match(abs) {
			r.log.Info("application excluded by configuration", "app", abs)
			return &Result{
				ID:      uuid.NewString(),
				Outcome: OutcomeExcluded,
				AppPath: abs,
			}, nil
		}
	}

	target, err := bundle.ExecutablePath(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", abs, ErrMissingBinary)
		}
		return nil, err
	}
	real := target + BackupSuffix

	res := &Result{
		ID:         uuid.NewString(),
		AppPath:    abs,
		Executable: target,
		RealPath:   real,
		Strategy:   r.opts.Strategy,
	}

	// A preserved original means a previous rewrite completed; never wrap
	// twice, or launches would recurse through stacked launchers.
	if _, err := os.Lstat(real); err == nil {
		if _, terr := os.Lstat(target); terr != nil {
			if os.IsNotExist(terr) {
				return nil, fmt.Errorf("%s is preserved but %s is gone: %w", real, target, ErrCorruptedInstallation)
			}
			return nil, fmt.Errorf("stat %s: %w", target, terr)
		}
		res.Outcome = OutcomeAlreadyWrapped
		r.log.Info("entry point already wrapped", "app", abs, "real", real)
		return res, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", real, err)
	}

	fi, err := os.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", target, ErrMissingBinary)
		}
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", target, ErrMissingBinary)
	}

	lcfg := launcher.Config{
		RealName:    filepath.Base(real),
		Interpreter: r.opts.Interpreter,
		Profiles:    r.opts.Profiles,
		PackageDirs: r.opts.PackageDirs,
		SystemPath:  r.opts.SystemPath,
	}

	// Build the artifact before touching the original so generation and
	// compilation failures abort with nothing to undo.
	var scriptText string
	var stubTmp string
	switch r.opts.Strategy {
	case StrategyScript:
		scriptText, err = launcher.Script(lcfg)
		if err != nil {
			return nil, fmt.Errorf("generate launcher script: %v: %w", err, ErrGenerationFailed)
		}
	case StrategyCompiled:
		res.Architectures, stubTmp, err = r.buildStub(ctx, target, lcfg)
		if err != nil {
			return nil, err
		}
		defer os.Remove(stubTmp)
	default:
		return nil, fmt.Errorf("invalid strategy %q (valid: script, compiled)", r.opts.Strategy)
	}

	if hash, hashErr := HashBinary(target); hashErr == nil {
		res.OriginalHash = hash
	} else {
		r.log.Debug("hashing original failed", "target", target, "error", hashErr)
	}

	if err := os.Rename(target, real); err != nil {
		return nil, fmt.Errorf("preserve original: rename %s -> %s: %w", target, real, err)
	}

	switch r.opts.Strategy {
	case StrategyScript:
		err = writeFileAtomic(target, []byte(scriptText), 0o755)
	case StrategyCompiled:
		err = os.Rename(stubTmp, target)
	}
	if err != nil {
		if rbErr := restoreOriginal(target, real); rbErr != nil {
			return nil, fmt.Errorf("install launcher: %v; rollback failed: %v: %w", err, rbErr, ErrCorruptedInstallation)
		}
		return nil, fmt.Errorf("install launcher at %s: %v: %w", target, err, ErrGenerationFailed)
	}

	if r.opts.Sign && r.opts.Signer != nil {
		if signErr := r.opts.Signer.Sign(ctx, target); signErr != nil {
			if r.opts.SigningRequired {
				if rbErr := restoreOriginal(target, real); rbErr != nil {
					return nil, fmt.Errorf("sign launcher: %v; rollback failed: %v: %w", signErr, rbErr, ErrCorruptedInstallation)
				}
				return nil, fmt.Errorf("sign launcher at %s: %v: %w", target, signErr, ErrSigningFailed)
			}
			res.SignWarning = signErr.Error()
			r.log.Warn("launcher left unsigned", "target", target, "error", signErr)
		} else {
			res.Signed = true
		}
	}

	res.Outcome = OutcomeRewritten
	r.log.Info("entry point rewritten",
		"id", res.ID,
		"app", abs,
		"target", target,
		"strategy", string(r.opts.Strategy),
		"signed", res.Signed)
	return res, nil
}

// buildStub inspects the original executable and compiles the stub into a
// hidden scratch file next to target, ready to be renamed into place.
func (r *Rewriter) buildStub(ctx context.Context, target string, lcfg launcher.Config) (archs []string, tmpPath string, err error) {
	if r.opts.Inspector == nil {
		return nil, "", fmt.Errorf("compiled strategy: no architecture inspector configured: %w", ErrUnsupportedBinaryFormat)
	}
	if r.opts.Compiler == nil {
		return nil, "", fmt.Errorf("compiled strategy: no stub compiler configured: %w", ErrGenerationFailed)
	}

	archs, err = r.opts.Inspector.Architectures(target)
	if err != nil {
		return nil, "", fmt.Errorf("inspect %s: %v: %w", target, err, ErrUnsupportedBinaryFormat)
	}

	source, err := launcher.StubSource(lcfg)
	if err != nil {
		return nil, "", fmt.Errorf("generate stub source: %v: %w", err, ErrGenerationFailed)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".stub-*")
	if err != nil {
		return nil, "", fmt.Errorf("create stub scratch file: %w", err)
	}
	tmpPath = tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, "", fmt.Errorf("close stub scratch file: %w", err)
	}

	if err := r.opts.Compiler.Compile(ctx, source, archs, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, "", fmt.Errorf("compile stub: %v: %w", err, ErrGenerationFailed)
	}
	if err := os.Chmod(tmpPath, 0o755); err != nil {
		_ = os.Remove(tmpPath)
		return nil, "", fmt.Errorf("chmod stub: %w", err)
	}
	return archs, tmpPath, nil
}

// restoreOriginal puts the preserved original back in place of the
// launcher. Removing the launcher first is best-effort; it may never have
// been written.
func restoreOriginal(target, real string) error {
	_ = os.Remove(target)
	if err := os.Rename(real, target); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", real, target, err)
	}
	return nil
}

func writeFileAtomic(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp -> %s: %w", path, err)
	}
	return nil
}
