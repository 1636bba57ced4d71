package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/secenv/internal/ui"
	"github.com/PolarWolf314/secenv/internal/utils"
	"github.com/PolarWolf314/secenv/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	checkManifest string
	checkProfile  string
)

func init() {
	checkCmd.Flags().StringVarP(&checkManifest, "config", "c", "", "manifest to check (default: secenv.toml in this directory or a parent)")
	checkCmd.Flags().StringVarP(&checkProfile, "profile", "p", "", "only check this profile")
}

func resetCheckCommandState() {
	checkManifest = ""
	checkProfile = ""
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a manifest without accessing any secret",
	Long: `Parses the manifest, checks its version, compiles keep patterns and
validates every value and key source. No key is read and no backend is
contacted. Every problem is reported, each naming its profile and entry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting check command")

		result, err := workflows.Check(cmd.Context(), workflows.CheckOptions{
			ManifestPath: checkManifest,
			Profile:      checkProfile,
			ToolVersion:  Version,
			Logger:       Logger,
			Audit:        auditLog(),
		})
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Done(ui.Path.Sprint(result.ManifestPath)+" is valid "+ui.Muted.Sprint("version "+result.Version)))
		for _, p := range result.Profiles {
			env := "inherits host environment"
			if !p.InheritsHost {
				env = "keeps matching host variables only"
			}
			fmt.Fprintf(out, "  %s: %d variable(s), %d file(s), %s\n", ui.Highlight.Sprint(p.Name), len(p.Vars), len(p.Files), env)
			if verbose || debug {
				fmt.Fprint(out, utils.IndentedList("    ", p.Vars, ui.Variable))
				fmt.Fprint(out, utils.IndentedList("    - ", p.Files, ui.Path))
			}
		}
		if result.Warning != "" {
			fmt.Fprintln(out, ui.Warn(strings.TrimSpace(result.Warning)))
		}
		return nil
	},
}
