// Package bundle resolves macOS application bundles to their entry-point
// executables.
package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// Info carries the Info.plist keys the rewriter cares about.
type Info struct {
	BundleExecutable string `plist:"CFBundleExecutable"`
	BundleIdentifier string `plist:"CFBundleIdentifier"`
	BundleName       string `plist:"CFBundleName"`
	BundleVersion    string `plist:"CFBundleShortVersionString"`
}

// ReadInfo decodes Contents/Info.plist from a bundle directory. Both XML
// and binary property lists are understood.
func ReadInfo(appPath string) (Info, error) {
	f, err := os.Open(filepath.Join(appPath, "Contents", "Info.plist"))
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	var info Info
	if err := plist.NewDecoder(f).Decode(&info); err != nil {
		return Info{}, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	return info, nil
}

// ExecutablePath resolves appPath to the executable that runs when the
// application is opened. A regular file is returned as-is; a directory is
// treated as a bundle whose entry point is Contents/MacOS/<CFBundleExecutable>,
// falling back to the bundle's base name when no Info.plist is present.
// The returned path is not checked for existence.
func ExecutablePath(appPath string) (string, error) {
	fi, err := os.Stat(appPath)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return appPath, nil
	}

	var name string
	info, err := ReadInfo(appPath)
	switch {
	case err == nil && info.BundleExecutable != "":
		name = info.BundleExecutable
	case err == nil || errors.Is(err, fs.ErrNotExist):
		name = strings.TrimSuffix(filepath.Base(appPath), ".app")
	default:
		return "", err
	}
	if strings.ContainsRune(name, '/') {
		return "", fmt.Errorf("bundle executable name %q contains a path separator", name)
	}
	return filepath.Join(appPath, "Contents", "MacOS", name), nil
}
