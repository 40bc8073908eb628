//go:build windows

package cli

import "errors"

func execProcess(argv0 string, argv []string, envv []string) error {
	return errors.New("launch is not supported on windows")
}
