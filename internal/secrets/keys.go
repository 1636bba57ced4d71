package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	"github.com/PolarWolf314/secenv/internal/manifest"
	"github.com/PolarWolf314/secenv/internal/utils"
)

// Keyring lists and exports private keys from a local keyring.
type Keyring interface {
	// SecretKeyFingerprints returns the fingerprint of every private key.
	SecretKeyFingerprints(ctx context.Context) ([]string, error)
	// ExportSecretKey returns the armored private key for a full fingerprint.
	ExportSecretKey(ctx context.Context, fingerprint string) ([]byte, error)
}

// SecretAccessor fetches a secret payload by fully qualified resource name,
// e.g. projects/p/secrets/s/versions/latest.
type SecretAccessor interface {
	AccessSecret(ctx context.Context, resource string) ([]byte, error)
}

// AWSSecretRequest identifies a secret in AWS Secrets Manager.
type AWSSecretRequest struct {
	SecretID string
	Version  string
	Region   string
}

// AWSSecretAccessor fetches secrets from AWS Secrets Manager.
type AWSSecretAccessor interface {
	GetSecret(ctx context.Context, req AWSSecretRequest) ([]byte, error)
}

// InfisicalSecretRequest identifies a secret in an Infisical project.
type InfisicalSecretRequest struct {
	ProjectID   string
	Environment string
	Path        string
	Key         string
}

// InfisicalSecretAccessor fetches secrets from Infisical.
type InfisicalSecretAccessor interface {
	GetSecret(ctx context.Context, req InfisicalSecretRequest) ([]byte, error)
}

// KeyResolver obtains private key material for a KeySource. Backends left
// nil fail with ErrKeySource when a manifest refers to them.
type KeyResolver struct {
	Keyring   Keyring
	GCP       SecretAccessor
	AWS       AWSSecretAccessor
	Infisical InfisicalSecretAccessor

	// Timeout bounds each backend call. Zero means no timeout.
	Timeout time.Duration
}

// Validate performs the checks that need no I/O.
func (r *KeyResolver) Validate(src manifest.KeySource) error {
	switch s := src.(type) {
	case manifest.LiteralKey:
		_, err := DecodeValue(s.Value)
		return err
	case manifest.FileKey:
		if strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("%w: key file path is empty", kerrors.ErrConfiguration)
		}
		return nil
	case manifest.GPGKey:
		if NormalizeFingerprint(s.Fingerprint) == "" {
			return fmt.Errorf("%w: gpg fingerprint is empty", kerrors.ErrConfiguration)
		}
		return nil
	case manifest.GCPKey:
		_, err := GCPSecretVersion(s.Secret, s.Version)
		return err
	case manifest.AWSKey:
		if s.Secret == "" {
			return fmt.Errorf("%w: aws secret is empty", kerrors.ErrConfiguration)
		}
		return nil
	case manifest.InfisicalKey:
		if s.Project == "" || s.Environment == "" || s.Key == "" {
			return fmt.Errorf("%w: infisical project, environment and key are required", kerrors.ErrConfiguration)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported key source %T", kerrors.ErrConfiguration, src)
	}
}

// Resolve returns the armored private key bytes for src. The caller owns
// the returned slice and should zero it once consumed.
func (r *KeyResolver) Resolve(ctx context.Context, src manifest.KeySource) ([]byte, error) {
	switch s := src.(type) {
	case manifest.LiteralKey:
		return DecodeValue(s.Value)
	case manifest.FileKey:
		return r.readKeyFile(s.Path)
	case manifest.GPGKey:
		return r.exportFromKeyring(ctx, s.Fingerprint)
	case manifest.GCPKey:
		return r.accessGCP(ctx, s)
	case manifest.AWSKey:
		return r.accessAWS(ctx, s)
	case manifest.InfisicalKey:
		return r.accessInfisical(ctx, s)
	default:
		return nil, fmt.Errorf("%w: unsupported key source %T", kerrors.ErrConfiguration, src)
	}
}

func (r *KeyResolver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

func (r *KeyResolver) readKeyFile(path string) ([]byte, error) {
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrKeySource, kerrors.ErrKeyFileRead, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w: %s", kerrors.ErrKeySource, kerrors.ErrKeyFileNotFound, expanded)
		}
		return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrKeySource, kerrors.ErrKeyFileRead, err)
	}
	return data, nil
}

// NormalizeFingerprint strips separators and upper-cases a fingerprint.
func NormalizeFingerprint(fpr string) string {
	fpr = strings.TrimPrefix(strings.TrimSpace(fpr), "0x")
	fpr = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(fpr)
	return strings.ToUpper(fpr)
}

func (r *KeyResolver) exportFromKeyring(ctx context.Context, fingerprint string) ([]byte, error) {
	if r.Keyring == nil {
		return nil, fmt.Errorf("%w: no keyring configured", kerrors.ErrKeySource)
	}

	want := NormalizeFingerprint(fingerprint)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	available, err := r.Keyring.SecretKeyFingerprints(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrKeySource, kerrors.ErrKeyNotFound, err)
	}

	var matches []string
	for _, fpr := range available {
		if NormalizeFingerprint(fpr) == want {
			matches = append(matches, fpr)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %w: no private key with fingerprint %s", kerrors.ErrKeySource, kerrors.ErrKeyNotFound, want)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %w: fingerprint %s matches %d private keys", kerrors.ErrKeySource, kerrors.ErrKeyNotFound, want, len(matches))
	}

	data, err := r.Keyring.ExportSecretKey(ctx, matches[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrKeySource, kerrors.ErrKeyNotFound, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w: keyring exported nothing for %s", kerrors.ErrKeySource, kerrors.ErrKeyNotFound, want)
	}
	return data, nil
}

var gcpSecretPattern = regexp.MustCompile(`^projects/([^/]+)/secrets/([^/]+)(?:/versions/([^/]+))?$`)

// GCPSecretVersion builds the fully qualified secret version name for a
// secret resource and optional version. The version defaults to latest.
func GCPSecretVersion(secret, version string) (string, error) {
	m := gcpSecretPattern.FindStringSubmatch(secret)
	if m == nil {
		return "", fmt.Errorf("%w: %w: %q does not match projects/<id>/secrets/<name>", kerrors.ErrConfiguration, kerrors.ErrInvalidResource, secret)
	}

	embedded := m[3]
	switch {
	case embedded != "" && version != "":
		return "", fmt.Errorf("%w: %q already names a version, remove the version field", kerrors.ErrConfiguration, secret)
	case embedded != "":
		return secret, nil
	case version == "":
		version = "latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", m[1], m[2], version), nil
}

func (r *KeyResolver) accessGCP(ctx context.Context, key manifest.GCPKey) ([]byte, error) {
	name, err := GCPSecretVersion(key.Secret, key.Version)
	if err != nil {
		return nil, err
	}
	if r.GCP == nil {
		return nil, fmt.Errorf("%w: no gcp backend configured", kerrors.ErrKeySource)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.GCP.AccessSecret(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %v", kerrors.ErrKeySource, kerrors.ErrSecretAccess, name, err)
	}
	return data, nil
}

func (r *KeyResolver) accessAWS(ctx context.Context, key manifest.AWSKey) ([]byte, error) {
	if r.AWS == nil {
		return nil, fmt.Errorf("%w: no aws backend configured", kerrors.ErrKeySource)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.AWS.GetSecret(ctx, AWSSecretRequest{SecretID: key.Secret, Version: key.Version, Region: key.Region})
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %v", kerrors.ErrKeySource, kerrors.ErrSecretAccess, key.Secret, err)
	}
	return data, nil
}

func (r *KeyResolver) accessInfisical(ctx context.Context, key manifest.InfisicalKey) ([]byte, error) {
	if r.Infisical == nil {
		return nil, fmt.Errorf("%w: no infisical backend configured", kerrors.ErrKeySource)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	data, err := r.Infisical.GetSecret(ctx, InfisicalSecretRequest{
		ProjectID:   key.Project,
		Environment: key.Environment,
		Path:        key.Path,
		Key:         key.Key,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s/%s: %v", kerrors.ErrKeySource, kerrors.ErrSecretAccess, strings.TrimSuffix(key.Path, "/"), key.Key, err)
	}
	return data, nil
}

// cacheKey identifies key sources whose material can be shared between
// entries of one run. Literal keys carry no I/O and are not cached.
func cacheKey(src manifest.KeySource) (string, bool) {
	switch s := src.(type) {
	case manifest.FileKey:
		return "file\x00" + s.Path, true
	case manifest.GPGKey:
		return "gpg\x00" + NormalizeFingerprint(s.Fingerprint), true
	case manifest.GCPKey:
		return "gcp\x00" + s.Secret + "\x00" + s.Version, true
	case manifest.AWSKey:
		return "aws\x00" + s.Region + "\x00" + s.Secret + "\x00" + s.Version, true
	case manifest.InfisicalKey:
		return "infisical\x00" + s.Project + "\x00" + s.Environment + "\x00" + s.Path + "\x00" + s.Key, true
	}
	return "", false
}
