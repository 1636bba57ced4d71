package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/secenv/internal/launcher"
	"github.com/PolarWolf314/secenv/internal/ui"
	"github.com/PolarWolf314/secenv/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	unlockManifest string
	unlockProfile  string
	unlockForce    bool
	unlockAll      bool
)

func init() {
	unlockCmd.Flags().StringVarP(&unlockManifest, "config", "c", "", "manifest to load (default: secenv.toml in this directory or a parent)")
	unlockCmd.Flags().StringVarP(&unlockProfile, "profile", "p", workflows.DefaultProfile, "profile to resolve")
	unlockCmd.Flags().BoolVarP(&unlockForce, "force", "f", false, "overwrite existing files at declared paths")
	unlockCmd.Flags().BoolVar(&unlockAll, "all", false, "without a command, print the full composed environment")

	// Everything after the command name belongs to the command.
	unlockCmd.Flags().SetInterspersed(false)
}

func resetUnlockCommandState() {
	unlockManifest = ""
	unlockProfile = workflows.DefaultProfile
	unlockForce = false
	unlockAll = false
}

var unlockCmd = &cobra.Command{
	Use:   "unlock [flags] [-- command [args...]]",
	Short: "Resolve a profile and run a command with it",
	Long: `Resolves every variable and file of a profile, writes the files, runs the
command with the variables in its environment, then removes the files.

Without a command the resolved variables are printed as NAME=VALUE lines,
sorted by name and not quoted, so they can be consumed with eval. Declared
files are still written and removed.

Exit status is the command's own. secenv itself exits with 125 when
resolution or staging fails, 126 when the command cannot be executed,
127 when it is not found and 128 when it is killed by a signal.`,
	Example: `  secenv unlock -- ./deploy.sh --dry-run
  secenv unlock -p staging -- env
  eval "$(secenv unlock -p ci)"`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting unlock command")

		ctx, relay := launcher.NewRelay(cmd.Context())
		relay.Listen()
		defer relay.Stop()

		s, stopSpinner := startSpinner("Resolving secrets...")
		defer stopSpinner()

		passphrases, forget := passphraseProvider(s)
		defer forget()

		result, err := workflows.Run(ctx, workflows.RunOptions{
			ResolveOptions: workflows.ResolveOptions{
				ManifestPath: unlockManifest,
				Profile:      unlockProfile,
				ToolVersion:  Version,
				Settings:     Settings,
				Passphrases:  passphrases,
				Tracker:      Redactor,
				Logger:       Logger,
			},
			Command:  args,
			Force:    unlockForce,
			PrintAll: unlockAll,
			Stdin:    cmd.InOrStdin(),
			Stdout:   cmd.OutOrStdout(),
			Stderr:   cmd.ErrOrStderr(),
			Relay:    relay,
			Audit:    auditLog(),
			OnStaged: stopSpinner,
		})
		stopSpinner()

		if err != nil {
			if sig := relay.Received(); sig != nil && errors.Is(err, context.Canceled) {
				err = fmt.Errorf("interrupted by %s before the command started", sig)
			}
			if errors.Is(err, context.DeadlineExceeded) {
				Logger.Infof("Increase %s if secret backends are slow", ui.Code.Sprint("backend_timeout"))
			}
			return &ExitError{Code: result.ExitCode, Err: err}
		}

		if len(args) == 0 {
			Logger.Infof("Resolved %d variable(s) from profile %s", len(result.Vars), ui.Highlight.Sprint(result.Profile))
		}
		if result.ExitCode != launcher.ExitSuccess {
			return &ExitError{Code: result.ExitCode}
		}
		return nil
	},
}
