package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PolarWolf314/secenv/internal/launcher"
	"github.com/PolarWolf314/secenv/internal/ui"
)

// ExitError carries the exit code a command chose. A nil Err means the
// code speaks for itself and nothing is printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode prints err, if any, and maps it to a process exit code. Errors
// that carry no code are setup failures.
func exitCode(err error) int {
	if err == nil {
		return launcher.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			printError(RootCmd.ErrOrStderr(), exitErr.Err)
		}
		return exitErr.Code
	}

	printError(RootCmd.ErrOrStderr(), err)
	return launcher.ExitSetupFailure
}

// printError writes err to stderr. Aggregated errors print one problem per
// line under a single marker.
func printError(w io.Writer, err error) {
	lines := strings.Split(Redactor.Redact(err.Error()), "\n")
	fmt.Fprintln(w, ui.Failed(lines[0]))
	for _, line := range lines[1:] {
		fmt.Fprintln(w, "  "+line)
	}
}
