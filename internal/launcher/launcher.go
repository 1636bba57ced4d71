package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
)

// Exit codes reported to the operator besides the child's own.
const (
	ExitSuccess       = 0
	ExitSetupFailure  = 125
	ExitNotExecutable = 126
	ExitNotFound      = 127
	ExitSignaled      = 128
)

// Command describes the process to launch.
type Command struct {
	Argv []string
	// Env is the complete child environment in NAME=VALUE form.
	Env []string

	// Nil streams inherit the parent's.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Outcome is how the child terminated.
type Outcome struct {
	ExitCode int
	// Signal names the signal that killed the child, empty otherwise.
	Signal string
}

// Signaled reports whether the child was terminated by a signal.
func (o Outcome) Signaled() bool {
	return o.Signal != ""
}

// Run starts cmd, waits for it and reports its outcome. Signals received
// by relay while the child runs are forwarded to it. If ctx is already done
// the command is never started.
//
// A non-nil error means the command could not be started; the outcome then
// carries ExitNotFound, ExitNotExecutable or ExitSetupFailure.
func Run(ctx context.Context, cmd Command, relay *Relay) (Outcome, error) {
	if len(cmd.Argv) == 0 {
		return Outcome{ExitCode: ExitSetupFailure}, fmt.Errorf("%w: empty command", kerrors.ErrCommandStart)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{ExitCode: ExitSetupFailure}, fmt.Errorf("%w: %w", kerrors.ErrCommandStart, err)
	}

	c := exec.Command(cmd.Argv[0], cmd.Argv[1:]...)
	c.Env = cmd.Env
	if c.Env == nil {
		// A nil Env would make exec inherit ours.
		c.Env = []string{}
	}
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}
	if cmd.Stdout != nil {
		c.Stdout = cmd.Stdout
	}
	if cmd.Stderr != nil {
		c.Stderr = cmd.Stderr
	}

	if err := c.Start(); err != nil {
		return Outcome{ExitCode: startFailureCode(err)}, fmt.Errorf("%w: %s: %v", kerrors.ErrCommandStart, cmd.Argv[0], err)
	}

	relay.attach(c.Process)
	// The exit status is read from ProcessState; Wait's error only repeats it.
	_ = c.Wait()
	relay.detach()

	return outcomeOf(c.ProcessState), nil
}

// startFailureCode follows the shell convention: 127 when the program does
// not exist, 126 when it exists but cannot be executed.
func startFailureCode(err error) int {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return ExitNotFound
	}
	return ExitNotExecutable
}

func outcomeOf(state *os.ProcessState) Outcome {
	if state == nil {
		return Outcome{ExitCode: ExitSetupFailure}
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Outcome{ExitCode: ExitSignaled, Signal: ws.Signal().String()}
	}
	code := state.ExitCode()
	if code < 0 {
		return Outcome{ExitCode: ExitSetupFailure}
	}
	return Outcome{ExitCode: code}
}
