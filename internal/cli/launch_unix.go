//go:build !windows

package cli

import "golang.org/x/sys/unix"

// execProcess replaces the current process image. On success it never
// returns.
func execProcess(argv0 string, argv []string, envv []string) error {
	return unix.Exec(argv0, argv, envv)
}
