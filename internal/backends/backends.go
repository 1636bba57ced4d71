package backends

import (
	"github.com/PolarWolf314/secenv/internal/configs"
	"github.com/PolarWolf314/secenv/internal/secrets"
)

// Set holds the backends configured by the user settings. Clients are
// created lazily, so a manifest that never names a backend never needs its
// credentials.
type Set struct {
	Keyring   GPG
	GCP       secrets.SecretAccessor
	AWS       *AWSSecretsManager
	Infisical *Infisical

	gcpSDK *GCPSecretManager
}

// New builds the backends described by s.
func New(s *configs.Settings) *Set {
	set := &Set{
		Keyring: GPG{Path: s.GPG.Path},
		AWS:     &AWSSecretsManager{Region: s.AWS.Region, Profile: s.AWS.Profile},
		Infisical: &Infisical{
			SiteURL:  s.Infisical.SiteURL,
			TokenEnv: s.Infisical.TokenEnv,
		},
	}

	if s.GCP.Backend == configs.GCPBackendGcloud {
		set.GCP = Gcloud{Path: s.GCP.GcloudPath}
	} else {
		set.gcpSDK = &GCPSecretManager{}
		set.GCP = set.gcpSDK
	}
	return set
}

// KeyResolver returns a resolver wired to every backend in the set.
func (s *Set) KeyResolver(settings *configs.Settings) *secrets.KeyResolver {
	return &secrets.KeyResolver{
		Keyring:   s.Keyring,
		GCP:       s.GCP,
		AWS:       s.AWS,
		Infisical: s.Infisical,
		Timeout:   settings.BackendTimeout,
	}
}

// Close releases any client connections.
func (s *Set) Close() error {
	if s.gcpSDK != nil {
		return s.gcpSDK.Close()
	}
	return nil
}
