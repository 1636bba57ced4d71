package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/secenv/internal/audit"
	"github.com/PolarWolf314/secenv/internal/env"
	logger "github.com/PolarWolf314/secenv/internal/logging"
	"github.com/PolarWolf314/secenv/internal/secrets"
	"github.com/PolarWolf314/secenv/internal/utils"
)

// CheckOptions configures the check workflow.
type CheckOptions struct {
	ManifestPath string

	// Profile limits the check to one profile. If empty, every profile is
	// checked.
	Profile string

	ToolVersion string

	Logger logger.Logger
	Audit  *audit.Log
}

// CheckResult contains the outcome of a successful check.
type CheckResult struct {
	ManifestPath string
	Version      string
	Profiles     []ProfileSummary

	// Warning is set when the manifest is newer than this tool.
	Warning string
}

// ProfileSummary describes a checked profile by names only.
type ProfileSummary struct {
	Name  string
	Vars  []string
	Files []string
	// InheritsHost is true when the profile has no keep list.
	InheritsHost bool
}

// Check validates a manifest without contacting any secret backend: it
// parses the file, checks its version, compiles keep patterns and
// statically validates every value and key source. All problems are
// reported together, each attributed to its profile and entry.
func Check(ctx context.Context, opts CheckOptions) (*CheckResult, error) {
	m, warning, err := loadManifest(opts.ManifestPath, opts.ToolVersion)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		opts.Logger.Warnf("%s", warning)
	}

	names := m.ProfileNames()
	if opts.Profile != "" {
		if _, err := m.Profile(opts.Profile); err != nil {
			return nil, err
		}
		names = []string{opts.Profile}
	}

	// Static validation never reaches a backend, so none are configured.
	validator := &secrets.ProfileResolver{
		Values: &secrets.ValueResolver{Keys: &secrets.KeyResolver{}},
	}

	result := &CheckResult{ManifestPath: m.Source, Version: m.Version, Warning: warning}
	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := m.Profiles[name]
		opts.Logger.Debugf("Checking profile %q", name)

		if _, err := env.CompileKeep(p.Keep); err != nil {
			errs = append(errs, fmt.Errorf("profile %q: %w", name, err))
		}
		if err := validator.Validate(p); err != nil {
			errs = append(errs, fmt.Errorf("profile %q: %w", name, err))
		}

		result.Profiles = append(result.Profiles, ProfileSummary{
			Name:         name,
			Vars:         p.VarNames(),
			Files:        p.FilePaths(),
			InheritsHost: p.Keep == nil,
		})
	}

	if opts.Audit != nil {
		entry := audit.NewEntry(audit.OpCheck)
		entry.User, entry.Host = utils.Identity()
		entry.Manifest = m.Source
		entry.Profile = opts.Profile
		if len(errs) > 0 {
			entry.ExitCode = 1
			entry.Error = fmt.Sprintf("%d problem(s)", len(errs))
		}
		if err := opts.Audit.Append(entry); err != nil {
			opts.Logger.Warnf("audit: %v", err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}
