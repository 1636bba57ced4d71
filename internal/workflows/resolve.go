package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/secenv/internal/backends"
	"github.com/PolarWolf314/secenv/internal/configs"
	"github.com/PolarWolf314/secenv/internal/env"
	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	logger "github.com/PolarWolf314/secenv/internal/logging"
	"github.com/PolarWolf314/secenv/internal/manifest"
	"github.com/PolarWolf314/secenv/internal/secrets"
	"github.com/PolarWolf314/secenv/internal/utils"
)

// DefaultProfile is used when no profile is named.
const DefaultProfile = "default"

// ResolveOptions configures manifest loading and profile resolution.
type ResolveOptions struct {
	// ManifestPath is the manifest to load. If empty, the working directory
	// and its parents are searched.
	ManifestPath string

	// Profile names the profile to resolve. Defaults to DefaultProfile.
	Profile string

	// ToolVersion is compared against the manifest version.
	ToolVersion string

	Settings *configs.Settings

	// Keys overrides the key resolver built from Settings.
	Keys *secrets.KeyResolver

	// Passphrases supplies passphrases for protected keys. Nil means
	// protected keys fail with ErrPassphraseRequired.
	Passphrases secrets.PassphraseProvider

	// Tracker receives every resolved value for redaction.
	Tracker secrets.Tracker

	Logger logger.Logger
}

// ResolveResult contains a resolved profile.
type ResolveResult struct {
	ManifestPath string
	Profile      *manifest.Profile

	// Keep is nil when the profile inherits the whole host environment.
	Keep *env.Keep

	Resolved *secrets.Resolved

	// Warning is set when the manifest is newer than this tool.
	Warning string
}

// Resolve loads the manifest, selects the profile and resolves every
// variable and file in it.
//
// Returns ErrManifestNotFound if no manifest exists.
// Returns ErrProfileNotFound if the profile is not declared.
// Returns ErrIncompatibleVersion if the manifest needs a different major version.
// Returns the aggregated per-entry errors if any value cannot be resolved.
func Resolve(ctx context.Context, opts ResolveOptions) (*ResolveResult, error) {
	loaded, err := loadProfile(opts.ManifestPath, opts.Profile, opts.ToolVersion)
	if err != nil {
		return nil, err
	}
	if loaded.warning != "" {
		opts.Logger.Warnf("%s", loaded.warning)
	}

	settings, err := settingsOrDefault(opts.Settings)
	if err != nil {
		return nil, err
	}

	keys := opts.Keys
	if keys == nil {
		set := backends.New(settings)
		defer func() {
			if err := set.Close(); err != nil {
				opts.Logger.Debugf("closing backends: %v", err)
			}
		}()
		keys = set.KeyResolver(settings)
	}

	values := &secrets.ValueResolver{Keys: keys, Passphrases: opts.Passphrases}
	defer values.Release()

	resolver := &secrets.ProfileResolver{
		Values:      values,
		Concurrency: settings.Concurrency,
		Tracker:     opts.Tracker,
	}

	profile := loaded.profile
	opts.Logger.Infof("Resolving profile %q from %s (%d variables, %d files)",
		profile.Name, loaded.path, len(profile.Vars), len(profile.Files))

	resolved, err := resolver.Resolve(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile.Name, err)
	}

	return &ResolveResult{
		ManifestPath: loaded.path,
		Profile:      profile,
		Keep:         loaded.keep,
		Resolved:     resolved,
		Warning:      loaded.warning,
	}, nil
}

type loadedProfile struct {
	path     string
	manifest *manifest.Manifest
	profile  *manifest.Profile
	keep     *env.Keep
	warning  string
}

// loadManifest finds, parses and version-checks the manifest.
func loadManifest(path, toolVersion string) (*manifest.Manifest, string, error) {
	if path == "" {
		found, err := utils.FindManifest()
		if err != nil {
			return nil, "", fmt.Errorf("searching for manifest: %w", err)
		}
		if found == "" {
			return nil, "", fmt.Errorf("%w: no %s found in this directory or its parents",
				kerrors.ErrManifestNotFound, configs.DefaultManifestName)
		}
		path = found
	}

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return nil, "", err
	}

	m, err := manifest.Load(expanded)
	if err != nil {
		return nil, "", err
	}

	warning, err := manifest.CheckVersion(m.Version, toolVersion)
	if err != nil {
		return nil, "", err
	}
	return m, warning, nil
}

func loadProfile(path, name, toolVersion string) (*loadedProfile, error) {
	m, warning, err := loadManifest(path, toolVersion)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = DefaultProfile
	}
	profile, err := m.Profile(name)
	if err != nil {
		return nil, err
	}

	keep, err := env.CompileKeep(profile.Keep)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	return &loadedProfile{
		path:     m.Source,
		manifest: m,
		profile:  profile,
		keep:     keep,
		warning:  warning,
	}, nil
}

func settingsOrDefault(s *configs.Settings) (*configs.Settings, error) {
	if s != nil {
		return s, nil
	}
	return configs.LoadSettings("")
}
