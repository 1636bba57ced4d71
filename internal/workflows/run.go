package workflows

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/secenv/internal/audit"
	"github.com/PolarWolf314/secenv/internal/env"
	"github.com/PolarWolf314/secenv/internal/ephemeral"
	"github.com/PolarWolf314/secenv/internal/launcher"
	"github.com/PolarWolf314/secenv/internal/utils"
)

// RunOptions configures the unlock workflow.
type RunOptions struct {
	ResolveOptions

	// Command is the program and arguments to launch. If empty, the
	// resolved variables are printed instead.
	Command []string

	// Force overwrites existing files at declared paths.
	Force bool

	// PrintAll prints the full composed environment rather than only the
	// resolved variables. Ignored when Command is set.
	PrintAll bool

	// Host is the environment to compose with. Nil means the current one.
	Host map[string]string

	// Streams default to the process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Relay forwards signals to the child. Nil disables forwarding.
	Relay *launcher.Relay

	// OnStaged runs once files are staged, before anything is launched or
	// printed.
	OnStaged func()

	Audit *audit.Log
}

// RunResult contains the outcome of an unlock.
type RunResult struct {
	// ExitCode is the code secenv should exit with.
	ExitCode int

	// Signal names the signal that killed the child, if any.
	Signal string

	ManifestPath string
	Profile      string
	Vars         []string
	Files        []string

	// Cleanup reports removal of the staged files. Failures never change
	// ExitCode.
	Cleanup ephemeral.CleanupReport
}

// Run resolves a profile, stages its files, then either launches the
// command with the composed environment or prints the variables. Staged
// files are removed on every path out of Run once staging succeeded,
// including cancellation and a failed command.
//
// On error the result is still returned with ExitCode set to
// launcher.ExitSetupFailure, or to ExitNotFound/ExitNotExecutable when the
// command could not be started.
func Run(ctx context.Context, opts RunOptions) (result *RunResult, err error) {
	result = &RunResult{ExitCode: launcher.ExitSetupFailure, Profile: profileName(opts.Profile)}

	entry := audit.NewEntry(audit.OpUnlock)
	defer func() {
		recordRun(opts, entry, result, err)
	}()

	resolved, err := Resolve(ctx, opts.ResolveOptions)
	if err != nil {
		return result, err
	}
	result.ManifestPath = resolved.ManifestPath
	result.Vars = env.SortedNames(resolved.Resolved.Vars)
	result.Files = resolved.Profile.FilePaths()

	host := opts.Host
	if host == nil {
		host = env.HostEnviron()
	}
	composed := env.Compose(resolved.Resolved.Vars, host, resolved.Keep)

	staged, err := ephemeral.Stage(ctx, resolved.Resolved.Files, opts.Force)
	if err != nil {
		return result, err
	}
	opts.Logger.Infof("Staged %d file(s)", len(staged.Files()))

	defer func() {
		result.Cleanup = staged.Cleanup()
		for _, f := range result.Cleanup.Failed() {
			opts.Logger.Warnf("could not remove %s: %v", f.Path, f.Err)
		}
	}()

	if opts.OnStaged != nil {
		opts.OnStaged()
	}

	if len(opts.Command) == 0 {
		out := writerOr(opts.Stdout, os.Stdout)
		vars := resolved.Resolved.Vars
		if opts.PrintAll {
			vars = composed
		}
		if err := env.Format(out, vars); err != nil {
			return result, fmt.Errorf("writing environment: %w", err)
		}
		result.ExitCode = launcher.ExitSuccess
		return result, nil
	}

	opts.Logger.Infof("Launching %s", opts.Command[0])
	outcome, err := launcher.Run(ctx, launcher.Command{
		Argv:   opts.Command,
		Env:    env.Environ(composed),
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}, opts.Relay)
	result.ExitCode = outcome.ExitCode
	result.Signal = outcome.Signal
	if err != nil {
		return result, err
	}
	if outcome.Signaled() {
		opts.Logger.Warnf("%s was terminated by %s", opts.Command[0], outcome.Signal)
	}
	return result, nil
}

func profileName(name string) string {
	if name == "" {
		return DefaultProfile
	}
	return name
}

func writerOr(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}

func recordRun(opts RunOptions, entry audit.Entry, result *RunResult, err error) {
	if opts.Audit == nil {
		return
	}

	entry.User, entry.Host = utils.Identity()
	entry.Manifest = result.ManifestPath
	entry.Profile = result.Profile
	entry.Vars = result.Vars
	entry.Files = result.Files
	entry.ExitCode = result.ExitCode
	entry.CleanupFailures = len(result.Cleanup.Failed())
	if len(opts.Command) > 0 {
		entry.Command = filepath.Base(opts.Command[0])
	}
	if err != nil {
		entry.Error = opts.redact(err.Error())
	}

	if auditErr := opts.Audit.Append(entry); auditErr != nil {
		opts.Logger.Warnf("audit: %v", auditErr)
	}
}

func (o ResolveOptions) redact(s string) string {
	if o.Logger.Redactor == nil {
		return s
	}
	return o.Logger.Redactor.Redact(s)
}
