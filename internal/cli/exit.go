package cli

import "fmt"

// ExitError carries the process exit code for main to apply. Commands that
// already reported their failures on stderr leave Message empty.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit %d", e.Code)
}

// appsFailed is the exit error of the multi-application commands: they keep
// going past per-app failures and report the tally at the end.
func appsFailed(failed, total int) *ExitError {
	return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d applications failed", failed, total)}
}
