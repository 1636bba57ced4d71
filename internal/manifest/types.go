package manifest

import (
	"fmt"
	"sort"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
)

// EncodedValue is a value written either as a literal string or as base64.
// Exactly one field must be set; the resolver rejects anything else.
type EncodedValue struct {
	Literal *string `toml:"literal" yaml:"literal"`
	Base64  *string `toml:"base64" yaml:"base64"`
}

// Literal returns an EncodedValue holding s verbatim.
func Literal(s string) EncodedValue {
	return EncodedValue{Literal: &s}
}

// Base64 returns an EncodedValue holding base64 text.
func Base64(s string) EncodedValue {
	return EncodedValue{Base64: &s}
}

// ValueSpec is a leaf value of the manifest: an environment variable value or
// the content of an ephemeral file. It is one of Plain or Secure.
type ValueSpec interface {
	isValueSpec()
}

// Plain is a value stored in the manifest as-is.
type Plain struct {
	Value EncodedValue
}

// Secure is an armored PGP message decrypted with a private key obtained
// from Key.
type Secure struct {
	Key        KeySource
	Ciphertext EncodedValue
}

func (Plain) isValueSpec()  {}
func (Secure) isValueSpec() {}

// KeySource describes where PGP private key material lives. It is one of
// LiteralKey, FileKey, GPGKey, GCPKey, AWSKey or InfisicalKey.
type KeySource interface {
	isKeySource()
}

// LiteralKey embeds the armored private key in the manifest.
type LiteralKey struct {
	Value EncodedValue
}

// FileKey reads the armored private key from a file.
type FileKey struct {
	Path string
}

// GPGKey exports the private key from the local GnuPG keyring.
type GPGKey struct {
	Fingerprint string
}

// GCPKey fetches the private key from Google Cloud Secret Manager.
// Secret is projects/<id>/secrets/<name>; an empty Version means latest.
type GCPKey struct {
	Secret  string
	Version string
}

// AWSKey fetches the private key from AWS Secrets Manager. Version is a
// version stage when it is all upper case, otherwise a version id.
type AWSKey struct {
	Secret  string
	Version string
	Region  string
}

// InfisicalKey fetches the private key from an Infisical project.
type InfisicalKey struct {
	Project     string
	Environment string
	Path        string
	Key         string
}

func (LiteralKey) isKeySource()   {}
func (FileKey) isKeySource()      {}
func (GPGKey) isKeySource()       {}
func (GCPKey) isKeySource()       {}
func (AWSKey) isKeySource()       {}
func (InfisicalKey) isKeySource() {}

// FileEntry is an ephemeral file declared by a profile.
type FileEntry struct {
	Path  string
	Value ValueSpec
}

// Profile is a named set of variables and ephemeral files.
type Profile struct {
	Name string

	// Keep lists regular expressions selecting host variables that survive
	// into the child environment. nil means the whole host environment is
	// inherited; a non-nil empty slice means none of it is.
	Keep []string

	Vars map[string]ValueSpec

	// Files are kept in declaration order.
	Files []FileEntry
}

// VarNames returns the profile's variable names sorted.
func (p *Profile) VarNames() []string {
	names := make([]string, 0, len(p.Vars))
	for name := range p.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilePaths returns the declared file paths in declaration order.
func (p *Profile) FilePaths() []string {
	paths := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// Manifest is a parsed manifest.
type Manifest struct {
	// Source is the file the manifest was loaded from, if any.
	Source   string
	Version  string
	Profiles map[string]*Profile
}

// Profile returns the named profile.
func (m *Manifest) Profile(name string) (*Profile, error) {
	p, ok := m.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", kerrors.ErrProfileNotFound, name, m.ProfileNames())
	}
	return p, nil
}

// ProfileNames returns the declared profile names sorted.
func (m *Manifest) ProfileNames() []string {
	names := make([]string, 0, len(m.Profiles))
	for name := range m.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
