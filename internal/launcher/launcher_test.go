//go:build !windows

package launcher

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
)

func TestRunPropagatesExitCode(t *testing.T) {
	out, err := Run(context.Background(), Command{Argv: []string{"/bin/sh", "-c", "exit 3"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.False(t, out.Signaled())
}

func TestRunUsesOnlyGivenEnvironment(t *testing.T) {
	t.Setenv("SECENV_LAUNCHER_HOST_ONLY", "leak")

	var stdout bytes.Buffer
	out, err := Run(context.Background(), Command{
		Argv:   []string{"/bin/sh", "-c", `printf '%s|%s' "$APP" "$SECENV_LAUNCHER_HOST_ONLY"`},
		Env:    []string{"APP=1"},
		Stdout: &stdout,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, out.ExitCode)
	assert.Equal(t, "1|", stdout.String())
}

func TestRunPassesStdin(t *testing.T) {
	var stdout bytes.Buffer
	_, err := Run(context.Background(), Command{
		Argv:   []string{"/bin/sh", "-c", "cat"},
		Stdin:  strings.NewReader("piped"),
		Stdout: &stdout,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "piped", stdout.String())
}

func TestRunCommandNotFound(t *testing.T) {
	out, err := Run(context.Background(), Command{Argv: []string{"secenv-definitely-not-a-command"}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, kerrors.ErrCommandStart)
	assert.Equal(t, ExitNotFound, out.ExitCode)
}

func TestRunCommandNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o600))

	out, err := Run(context.Background(), Command{Argv: []string{path}}, nil)
	require.Error(t, err)
	assert.Equal(t, ExitNotExecutable, out.ExitCode)
}

func TestRunEmptyCommand(t *testing.T) {
	out, err := Run(context.Background(), Command{}, nil)
	require.Error(t, err)
	assert.Equal(t, ExitSetupFailure, out.ExitCode)
}

func TestRunCancelledBeforeSpawn(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := Run(ctx, Command{Argv: []string{"/bin/sh", "-c", "touch " + marker}}, nil)
	require.Error(t, err)
	assert.Equal(t, ExitSetupFailure, out.ExitCode)
	assert.NoFileExists(t, marker)
}

func TestRunSignaledChild(t *testing.T) {
	out, err := Run(context.Background(), Command{Argv: []string{"/bin/sh", "-c", "kill -TERM $$"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, ExitSignaled, out.ExitCode)
	assert.True(t, out.Signaled())
}

func TestRelayForwardsToChild(t *testing.T) {
	ctx, relay := NewRelay(context.Background())
	defer relay.Stop()

	go func() {
		// Give the child time to start before signalling.
		time.Sleep(200 * time.Millisecond)
		relay.Forward(syscall.SIGTERM)
	}()

	out, err := Run(ctx, Command{Argv: []string{"/bin/sh", "-c", "sleep 5"}}, relay)
	require.NoError(t, err)
	assert.Equal(t, ExitSignaled, out.ExitCode)
	assert.Equal(t, syscall.SIGTERM, relay.Received())

	// The run context stays alive while a child handles the signal.
	assert.NoError(t, ctx.Err())
}

func TestRelayCancelsBeforeSpawn(t *testing.T) {
	ctx, relay := NewRelay(context.Background())
	defer relay.Stop()

	relay.Forward(syscall.SIGINT)

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, syscall.SIGINT, relay.Received())
}

func TestRelayListenTrapsProcessSignals(t *testing.T) {
	ctx, relay := NewRelay(context.Background())
	relay.Listen()
	defer relay.Stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Expected SIGHUP to cancel the run")
	}
	assert.Equal(t, syscall.SIGHUP, relay.Received())
}

func TestNilRelay(t *testing.T) {
	var relay *Relay
	relay.Forward(syscall.SIGINT)
	relay.Stop()
	assert.Nil(t, relay.Received())
}
