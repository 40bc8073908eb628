// Package launcher generates the artifacts that replace an application's
// entry-point executable: a POSIX shell trampoline (script strategy) and a
// C source file for a small native stub (compiled strategy). Both artifacts
// share one launch contract: resolve the preserved original next to the
// launcher, source the user's login profiles, rebuild PATH, and exec the
// original with the launcher's arguments so it keeps the launcher's pid.
package launcher

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RealEnvVar carries the absolute path of the preserved original executable
// from the trampoline (or stub) into the shell that sources profiles. It is
// unset again before the final exec.
const RealEnvVar = "LAUNCHWRAP_REAL"

// argv0Token is the $0 handed to the profile-sourcing shell. Profiles that
// expand $0 into a command or an export must see a short fixed word, never
// the launcher's own path.
const argv0Token = "launcher"

// DefaultInterpreter runs the generated launch sequence.
const DefaultInterpreter = "/bin/sh"

// DefaultSystemPath is appended after all package-manager directories so
// core utilities resolve even when every profile failed to set a PATH.
const DefaultSystemPath = "/usr/bin:/bin:/usr/sbin:/sbin"

// DefaultProfiles returns the login profiles sourced by generated launchers,
// in sourcing order. Interactive-only files such as .zshrc and .bashrc are
// deliberately absent: GUI launches are non-interactive.
func DefaultProfiles() []string {
	return []string{".zshenv", ".zprofile", ".bash_profile", ".profile"}
}

// DefaultPackageDirs returns package-manager bin directories in precedence
// order, highest priority first. The generated artifact prepends them in
// reverse so the first entry here wins the final PATH.
func DefaultPackageDirs() []string {
	return []string{"/opt/homebrew/bin", "/usr/local/bin", "/opt/local/bin"}
}

// Config describes one launcher artifact. The zero value is not usable;
// RealName is required and the remaining fields fall back to the package
// defaults where that is safe.
type Config struct {
	// RealName is the filename of the preserved original executable,
	// e.g. "MyApp.real". The artifact resolves it relative to its own
	// directory at launch time, never at generation time.
	RealName string

	// Interpreter is the absolute path of the POSIX shell that runs the
	// launch sequence. Empty means DefaultInterpreter.
	Interpreter string

	// Profiles are sourced in order before PATH is rebuilt. Entries are
	// home-relative unless they begin with a slash. A missing profile is
	// skipped; a failing one is ignored.
	Profiles []string

	// PackageDirs are prepended to PATH when they exist, highest
	// priority first.
	PackageDirs []string

	// SystemPath is appended after the package directories. Empty means
	// DefaultSystemPath.
	SystemPath string
}

func (c Config) interpreter() string {
	if c.Interpreter == "" {
		return DefaultInterpreter
	}
	return c.Interpreter
}

func (c Config) systemPath() string {
	if c.SystemPath == "" {
		return DefaultSystemPath
	}
	return c.SystemPath
}

func (c Config) validate() error {
	if c.RealName == "" {
		return fmt.Errorf("launcher: real executable name is empty")
	}
	if strings.ContainsRune(c.RealName, '/') {
		return fmt.Errorf("launcher: real executable name %q contains a path separator", c.RealName)
	}
	inter := c.interpreter()
	if !filepath.IsAbs(inter) {
		return fmt.Errorf("launcher: interpreter %q is not an absolute path", inter)
	}
	if strings.ContainsAny(inter, " \t\n") {
		return fmt.Errorf("launcher: interpreter %q contains whitespace", inter)
	}
	for _, p := range c.Profiles {
		if p == "" {
			return fmt.Errorf("launcher: empty profile entry")
		}
	}
	for _, d := range c.PackageDirs {
		if !filepath.IsAbs(d) {
			return fmt.Errorf("launcher: package directory %q is not an absolute path", d)
		}
	}
	return nil
}

// shellBody builds the launch sequence both strategies hand to the
// interpreter via -c. Order matters: profiles run first so their PATH edits
// sit below the package-manager directories, which are prepended in reverse
// priority so the highest-priority directory ends up first.
func shellBody(c Config) string {
	var b strings.Builder
	for _, p := range c.Profiles {
		ref := profileRef(p)
		fmt.Fprintf(&b, "[ -f %s ] && . %s >/dev/null 2>&1\n", ref, ref)
	}
	for i := len(c.PackageDirs) - 1; i >= 0; i-- {
		d := c.PackageDirs[i]
		fmt.Fprintf(&b, "[ -d %s ] && PATH=\"%s:$PATH\"\n", shellQuote(d), doubleQuoted(d))
	}
	fmt.Fprintf(&b, "PATH=\"$PATH:%s\"\n", doubleQuoted(c.systemPath()))
	b.WriteString("export PATH\n")
	b.WriteString("real=\"$" + RealEnvVar + "\"\n")
	b.WriteString("unset " + RealEnvVar + "\n")
	b.WriteString("exec \"$real\" \"$@\"\n")
	return b.String()
}

// profileRef renders a profile entry as a double-quoted shell word.
// Home-relative entries expand $HOME at launch time, not at rewrite time,
// so the artifact survives being copied between user accounts.
func profileRef(p string) string {
	if strings.HasPrefix(p, "/") {
		return `"` + doubleQuoted(p) + `"`
	}
	return `"$HOME/` + doubleQuoted(p) + `"`
}
