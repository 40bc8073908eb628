package rewriter

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/launchwrap/launchwrap/internal/bundle"
	"github.com/launchwrap/launchwrap/internal/launcher"
)

// maxLauncherSize bounds how much of a file IsLauncher is willing to read.
// Generated artifacts are a few kilobytes to a few hundred kilobytes; real
// application binaries are orders of magnitude larger.
const maxLauncherSize = 8 << 20

// Restore puts the preserved original executable back in place and removes
// the launcher. It also repairs the orphaned state where the launcher was
// deleted by hand but the preserved original is still there.
func (r *Rewriter) Restore(appPath string) (*Result, error) {
	abs, err := filepath.Abs(appPath)
	if err != nil {
		return nil, err
	}

	target, err := bundle.ExecutablePath(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", abs, ErrMissingBinary)
		}
		return nil, err
	}
	real := target + BackupSuffix

	// No preserved original means there is nothing to undo.
	if _, err := os.Lstat(real); err != nil {
		if os.IsNotExist(err) {
			r.log.Info("application is not wrapped", "app", abs)
			return &Result{
				ID:         uuid.NewString(),
				Outcome:    OutcomeNotWrapped,
				AppPath:    abs,
				Executable: target,
				RealPath:   real,
			}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", real, err)
	}

	// Refuse to delete an entry point that is not a generated launcher:
	// the application may have been reinstalled over the wrap, leaving
	// only a stale preserved copy behind.
	if _, err := os.Lstat(target); err == nil {
		isLauncher, lerr := IsLauncher(target)
		if lerr != nil {
			return nil, lerr
		}
		if !isLauncher {
			return nil, fmt.Errorf("%s exists but is not a generated launcher: %w", target, ErrCorruptedInstallation)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}

	if err := restoreOriginal(target, real); err != nil {
		return nil, fmt.Errorf("restore original: %v: %w", err, ErrCorruptedInstallation)
	}

	res := &Result{
		ID:         uuid.NewString(),
		Outcome:    OutcomeRestored,
		AppPath:    abs,
		Executable: target,
		RealPath:   real,
	}
	r.log.Info("original entry point restored", "id", res.ID, "app", abs, "target", target)
	return res, nil
}

// IsLauncher reports whether the file at path looks like a generated
// launcher. Both strategies embed the launch environment variable name, so
// its presence in a reasonably small executable is the marker.
func IsLauncher(path string) (bool, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	if !fi.Mode().IsRegular() || fi.Size() > maxLauncherSize {
		return false, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Contains(b, []byte(launcher.RealEnvVar)), nil
}
