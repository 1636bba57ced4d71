package cmd

import (
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/secenv/internal/configs"
	"github.com/PolarWolf314/secenv/internal/ui"
	"github.com/PolarWolf314/secenv/internal/workflows"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	initPath        string
	initForce       bool
	initInteractive bool
)

func init() {
	initCmd.Flags().StringVar(&initPath, "path", configs.DefaultManifestName, "where to write the manifest (.yaml or .yml for YAML)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing manifest")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "choose path and format interactively")
}

func resetInitCommandState() {
	initPath = configs.DefaultManifestName
	initForce = false
	initInteractive = false
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		if initInteractive {
			if err := promptInitOptions(); err != nil {
				return err
			}
		}

		s, cleanup := startSpinner("Writing manifest...")
		defer cleanup()

		result, err := workflows.Init(cmd.Context(), workflows.InitOptions{
			Path:        initPath,
			Force:       initForce,
			ToolVersion: Version,
			Logger:      Logger,
			Audit:       auditLog(),
		})
		if err != nil {
			s.FinalMSG = ui.Failed("Failed to write manifest.")
			return &ExitError{Code: 1, Err: err}
		}

		verb := "Created"
		if result.Overwritten {
			verb = "Overwrote"
		}
		s.FinalMSG = ui.Done(verb+" "+ui.Path.Sprint(result.Path)) + "\n" +
			ui.Hint("Run "+ui.Code.Sprint("secenv check")+" after editing it")
		return nil
	},
}

func promptInitOptions() error {
	format := "toml"
	switch strings.ToLower(filepath.Ext(initPath)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	err := huh.NewSelect[string]().
		Title("Manifest format").
		Options(
			huh.NewOption("TOML", "toml"),
			huh.NewOption("YAML", "yaml"),
		).
		Value(&format).
		Run()
	if err != nil {
		return err
	}

	initPath = strings.TrimSuffix(initPath, filepath.Ext(initPath)) + "." + format
	err = huh.NewInput().
		Title("Manifest path").
		Value(&initPath).
		Run()
	if err != nil {
		return err
	}

	if !initForce {
		err = huh.NewConfirm().
			Title("Overwrite the file if it already exists?").
			Value(&initForce).
			Run()
		if err != nil {
			return err
		}
	}
	return nil
}
