package cmd

import (
	"github.com/PolarWolf314/secenv/internal/audit"
	"github.com/PolarWolf314/secenv/internal/configs"
	logger "github.com/PolarWolf314/secenv/internal/logging"
	"github.com/PolarWolf314/secenv/internal/sensitivedata"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	debug        bool
	settingsPath string

	// Version is the tool version, set by main.
	Version = "0.0.0"

	Logger   logger.Logger
	Settings *configs.Settings

	// Redactor holds every value resolved in this process.
	Redactor = sensitivedata.NewProvider()

	RootCmd = &cobra.Command{
		Use:   "secenv",
		Short: "Run commands with secrets resolved from a manifest",
		Long: `secenv resolves environment variables and ephemeral files from a
profile-scoped manifest, decrypting secure values with a PGP private key
obtained from a file, the GnuPG keyring, Google Cloud Secret Manager,
AWS Secrets Manager or Infisical. It then runs a command with them and
removes the files again, however the command ends.

Usage:
  secenv unlock [-p profile] [-- command args...]
  secenv check
  secenv init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose:  verbose,
				Debug:    debug,
				Redactor: Redactor,
				Out:      cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)

			s, err := configs.LoadSettings(settingsPath)
			if err != nil {
				return err
			}
			Settings = s
			if s.ConfigFile != "" {
				Logger.Debugf("Loaded settings from %s", s.ConfigFile)
			}
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "path to the settings file (default $XDG_CONFIG_HOME/secenv/config.yaml)")

	RootCmd.AddCommand(unlockCmd)
	RootCmd.AddCommand(checkCmd)
	RootCmd.AddCommand(initCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute(version string) int {
	if version != "" {
		Version = version
	}
	RootCmd.Version = Version

	return execute()
}

// execute runs RootCmd and maps the error to an exit code. Tracked values
// are forgotten only after the final error has been printed redacted.
func execute() int {
	code := exitCode(RootCmd.Execute())
	Redactor.Forget()
	return code
}

// auditLog returns the audit log configured in the settings.
func auditLog() *audit.Log {
	if Settings == nil || !Settings.Audit.Enabled {
		return nil
	}
	path, err := Settings.AuditLogPath()
	if err != nil {
		Logger.Warnf("audit: %v", err)
		return nil
	}
	return &audit.Log{Path: path, Enabled: true}
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	settingsPath = ""
	Settings = nil
	Redactor.Forget()
	resetUnlockCommandState()
	resetCheckCommandState()
	resetInitCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
