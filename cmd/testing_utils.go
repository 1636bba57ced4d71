// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up isolated test
// environments and running the CLI in-process.
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// setupTestEnvironment isolates HOME and the XDG directories in temp dirs
// and changes into a fresh project directory, which is returned.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("NO_COLOR", "1")

	project := filepath.Join(home, "project")
	if err := os.MkdirAll(project, 0755); err != nil {
		t.Fatalf("Failed to create project directory: %v", err)
	}
	t.Chdir(project)

	ResetGlobalState()
	t.Cleanup(ResetGlobalState)

	return project
}

// runCLI executes the root command with args and returns its stdout,
// stderr and exit code.
func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetIn(bytes.NewReader(nil))
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetIn(nil)
		RootCmd.SetArgs(nil)
	})

	code := execute()
	return stdout.String(), stderr.String(), code
}

// writeTestManifest writes content as secenv.toml in dir.
func writeTestManifest(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "secenv.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	return path
}
