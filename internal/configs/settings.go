package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName = "secenv"

	// EnvPrefix prefixes every environment override, e.g. SECENV_CONCURRENCY.
	EnvPrefix = "SECENV"

	// DefaultManifestName is the manifest looked up in the working directory.
	DefaultManifestName = "secenv.toml"
)

// GCP backend modes.
const (
	GCPBackendSDK    = "sdk"
	GCPBackendGcloud = "gcloud"
)

type GCPSettings struct {
	// Backend is "sdk" (client library) or "gcloud" (shell out to the CLI).
	Backend    string
	GcloudPath string
}

type GPGSettings struct {
	Path string
}

type AWSSettings struct {
	Region  string
	Profile string
}

type InfisicalSettings struct {
	SiteURL  string
	TokenEnv string
}

type PassphraseSettings struct {
	// Env names the environment variable checked before prompting.
	Env    string
	Prompt bool
}

type AuditSettings struct {
	Enabled bool
	Path    string
}

// Settings is the user-level configuration. It never contains secrets.
type Settings struct {
	// ConfigFile is the settings file that was read, empty when none was.
	ConfigFile string

	Concurrency    int
	BackendTimeout time.Duration

	GCP        GCPSettings
	GPG        GPGSettings
	AWS        AWSSettings
	Infisical  InfisicalSettings
	Passphrase PassphraseSettings
	Audit      AuditSettings
}

// UserConfigDir returns $XDG_CONFIG_HOME/secenv (or the platform equivalent).
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting config directory: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// UserDataDir returns $XDG_DATA_HOME/secenv, defaulting to ~/.local/share/secenv.
func UserDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, appName), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("concurrency", 4)
	v.SetDefault("backend_timeout", "30s")
	v.SetDefault("gcp.backend", GCPBackendSDK)
	v.SetDefault("gcp.gcloud_path", "gcloud")
	v.SetDefault("gpg.path", "gpg")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("infisical.site_url", "https://app.infisical.com")
	v.SetDefault("infisical.token_env", "INFISICAL_TOKEN")
	v.SetDefault("passphrase.env", "SECENV_PASSPHRASE")
	v.SetDefault("passphrase.prompt", true)
	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.path", "")
}

// LoadSettings reads the settings file and SECENV_* overrides. When path is
// empty the default $XDG_CONFIG_HOME/secenv/config.yaml is used if present;
// an explicit path must exist.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		dir, err := UserConfigDir()
		if err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}

	configFile := ""
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
			}
			configFile = v.ConfigFileUsed()
		} else if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	settings := &Settings{
		ConfigFile:     configFile,
		Concurrency:    v.GetInt("concurrency"),
		BackendTimeout: v.GetDuration("backend_timeout"),
		GCP: GCPSettings{
			Backend:    v.GetString("gcp.backend"),
			GcloudPath: v.GetString("gcp.gcloud_path"),
		},
		GPG: GPGSettings{
			Path: v.GetString("gpg.path"),
		},
		AWS: AWSSettings{
			Region:  v.GetString("aws.region"),
			Profile: v.GetString("aws.profile"),
		},
		Infisical: InfisicalSettings{
			SiteURL:  v.GetString("infisical.site_url"),
			TokenEnv: v.GetString("infisical.token_env"),
		},
		Passphrase: PassphraseSettings{
			Env:    v.GetString("passphrase.env"),
			Prompt: v.GetBool("passphrase.prompt"),
		},
		Audit: AuditSettings{
			Enabled: v.GetBool("audit.enabled"),
			Path:    v.GetString("audit.path"),
		},
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) validate() error {
	if s.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", s.Concurrency)
	}
	if s.BackendTimeout <= 0 {
		return fmt.Errorf("backend_timeout must be positive, got %s", s.BackendTimeout)
	}
	switch s.GCP.Backend {
	case GCPBackendSDK, GCPBackendGcloud:
	default:
		return fmt.Errorf("gcp.backend must be %q or %q, got %q", GCPBackendSDK, GCPBackendGcloud, s.GCP.Backend)
	}
	return nil
}

// AuditLogPath returns the configured audit log location, defaulting to
// $XDG_DATA_HOME/secenv/audit.jsonl.
func (s *Settings) AuditLogPath() (string, error) {
	if s.Audit.Path != "" {
		return s.Audit.Path, nil
	}
	dir, err := UserDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.jsonl"), nil
}
