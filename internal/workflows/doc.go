// Package workflows provides high-level orchestration for secenv commands.
//
// Workflows coordinate the manifest, secrets, env, ephemeral and launcher
// packages to implement complete user-facing features. Each workflow
// handles a single command's logic, independent of CLI concerns like flag
// parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Finding, loading and version-checking the manifest
//   - Building secret backends from the user settings
//   - Resolving, staging, launching and cleaning up
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Resolve: Resolves every variable and file of one profile
//   - Run: Resolves, stages files, launches a command or prints variables, cleans up
//   - Check: Validates a manifest without touching any secret backend
//   - Init: Writes an example manifest
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Run(ctx, opts)
//	if errors.Is(err, kerrors.ErrAlreadyExists) {
//	    // Suggest --force
//	}
//
// Run always returns a result, even on error, so the exit code it chose is
// available to the caller.
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Cancelling it stops resolution and staging; files already staged are
// still removed.
package workflows
