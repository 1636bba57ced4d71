package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/PolarWolf314/secenv/internal/configs"
	kerrors "github.com/PolarWolf314/secenv/internal/errors"
)

// Load reads and validates the manifest at path. Files ending in .yaml or
// .yml are parsed as YAML, everything else as TOML.
func Load(path string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidManifest, err)
	}

	var m *Manifest
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidManifest, readErr)
		}
		m, err = ParseYAML(data)
	default:
		var raw rawManifest
		md, decodeErr := configs.LoadTOML(path, &raw)
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidManifest, decodeErr)
		}
		m, err = fromTOML(&raw, md)
	}
	if err != nil {
		return nil, err
	}

	m.Source = path
	return m, nil
}

// ParseTOML parses manifest text in TOML form.
func ParseTOML(text string) (*Manifest, error) {
	var raw rawManifest
	md, err := configs.DecodeTOML(text, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidManifest, err)
	}
	return fromTOML(&raw, md)
}

func fromTOML(raw *rawManifest, md toml.MetaData) (*Manifest, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", kerrors.ErrInvalidManifest, strings.Join(keys, ", "))
	}

	// Tables decode into maps, so file order has to be recovered from the
	// key metadata: profiles.<name>.files.<path>.
	order := make(map[string][]string)
	seen := make(map[string]bool)
	for _, k := range md.Keys() {
		if len(k) < 4 || k[0] != "profiles" || k[2] != "files" {
			continue
		}
		id := k[1] + "\x00" + k[3]
		if seen[id] {
			continue
		}
		seen[id] = true
		order[k[1]] = append(order[k[1]], k[3])
	}

	return build(raw, order)
}

// yamlFileOrder captures the declared order of each profile's files.
type yamlFileOrder struct {
	Profiles map[string]struct {
		Files yaml.MapSlice `yaml:"files"`
	} `yaml:"profiles"`
}

// ParseYAML parses manifest text in YAML form.
func ParseYAML(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidManifest, err)
	}

	var ordered yamlFileOrder
	if err := yaml.Unmarshal(data, &ordered); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidManifest, err)
	}

	order := make(map[string][]string)
	for name, p := range ordered.Profiles {
		for _, item := range p.Files {
			order[name] = append(order[name], fmt.Sprint(item.Key))
		}
	}

	return build(&raw, order)
}

func build(raw *rawManifest, fileOrder map[string][]string) (*Manifest, error) {
	var errs []error

	if strings.TrimSpace(raw.Version) == "" {
		errs = append(errs, fmt.Errorf("%w: missing version", kerrors.ErrInvalidManifest))
	}
	if len(raw.Profiles) == 0 {
		errs = append(errs, fmt.Errorf("%w: no profiles declared", kerrors.ErrInvalidManifest))
	}

	m := &Manifest{
		Version:  raw.Version,
		Profiles: make(map[string]*Profile, len(raw.Profiles)),
	}

	names := make([]string, 0, len(raw.Profiles))
	for name := range raw.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p, profileErrs := buildProfile(name, raw.Profiles[name], fileOrder[name])
		errs = append(errs, profileErrs...)
		m.Profiles[name] = p
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

func buildProfile(name string, raw *rawProfile, fileOrder []string) (*Profile, []error) {
	p := &Profile{
		Name: name,
		Vars: make(map[string]ValueSpec),
	}
	if raw == nil {
		return p, nil
	}

	var errs []error
	fail := func(kind, entry string, err error) {
		errs = append(errs, fmt.Errorf("profile %q: %w", name, kerrors.ForEntry(kind, entry, err)))
	}

	if raw.Env != nil {
		if raw.Env.Keep != nil {
			p.Keep = append([]string{}, (*raw.Env.Keep)...)
		}

		varNames := make([]string, 0, len(raw.Env.Vars))
		for v := range raw.Env.Vars {
			varNames = append(varNames, v)
		}
		sort.Strings(varNames)

		for _, v := range varNames {
			if err := ValidateVarName(v); err != nil {
				fail(kerrors.KindVariable, v, err)
				continue
			}
			spec, err := buildValue(raw.Env.Vars[v])
			if err != nil {
				fail(kerrors.KindVariable, v, err)
				continue
			}
			p.Vars[v] = spec
		}
	}

	// Any path the metadata missed still gets staged, after the ordered ones.
	paths := make([]string, 0, len(raw.Files))
	listed := make(map[string]bool, len(fileOrder))
	for _, path := range fileOrder {
		if _, ok := raw.Files[path]; ok && !listed[path] {
			listed[path] = true
			paths = append(paths, path)
		}
	}
	var rest []string
	for path := range raw.Files {
		if !listed[path] {
			rest = append(rest, path)
		}
	}
	sort.Strings(rest)
	paths = append(paths, rest...)

	for _, path := range paths {
		if strings.TrimSpace(path) == "" || strings.ContainsRune(path, 0) {
			fail(kerrors.KindFile, path, fmt.Errorf("%w: invalid file path", kerrors.ErrInvalidManifest))
			continue
		}
		spec, err := buildValue(raw.Files[path])
		if err != nil {
			fail(kerrors.KindFile, path, err)
			continue
		}
		p.Files = append(p.Files, FileEntry{Path: path, Value: spec})
	}

	return p, errs
}

// ValidateVarName rejects names that cannot be placed in a process
// environment.
func ValidateVarName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", kerrors.ErrInvalidVariable)
	case strings.ContainsAny(name, "=\x00"):
		return fmt.Errorf("%w: name must not contain '=' or NUL", kerrors.ErrInvalidVariable)
	}
	return nil
}

func buildValue(raw *rawContent) (ValueSpec, error) {
	if raw == nil || (raw.Plain == nil) == (raw.Secure == nil) {
		return nil, fmt.Errorf("%w: exactly one of plain or secure must be set", kerrors.ErrInvalidManifest)
	}

	if raw.Plain != nil {
		return Plain{Value: *raw.Plain}, nil
	}

	if raw.Secure.Value == nil {
		return nil, fmt.Errorf("%w: secure value is missing", kerrors.ErrInvalidManifest)
	}
	if raw.Secure.Secret == nil || raw.Secure.Secret.PGP == nil {
		return nil, fmt.Errorf("%w: secure value is missing secret.pgp", kerrors.ErrInvalidManifest)
	}

	key, err := buildKeySource(raw.Secure.Secret.PGP)
	if err != nil {
		return nil, err
	}
	return Secure{Key: key, Ciphertext: *raw.Secure.Value}, nil
}

func buildKeySource(raw *rawAllocation) (KeySource, error) {
	var sources []KeySource
	var errs []error

	if raw.Literal != nil {
		sources = append(sources, LiteralKey{Value: *raw.Literal})
	}
	if raw.File != nil {
		if strings.TrimSpace(*raw.File) == "" {
			errs = append(errs, errors.New("file path is empty"))
		}
		sources = append(sources, FileKey{Path: *raw.File})
	}
	if raw.GPG != nil {
		if strings.TrimSpace(raw.GPG.Fingerprint) == "" {
			errs = append(errs, errors.New("gpg fingerprint is empty"))
		}
		sources = append(sources, GPGKey{Fingerprint: raw.GPG.Fingerprint})
	}
	if raw.GCP != nil {
		if raw.GCP.Secret == "" {
			errs = append(errs, errors.New("gcp secret is empty"))
		}
		sources = append(sources, GCPKey{Secret: raw.GCP.Secret, Version: raw.GCP.Version})
	}
	if raw.AWS != nil {
		if raw.AWS.Secret == "" {
			errs = append(errs, errors.New("aws secret is empty"))
		}
		sources = append(sources, AWSKey{Secret: raw.AWS.Secret, Version: raw.AWS.Version, Region: raw.AWS.Region})
	}
	if raw.Infisical != nil {
		if raw.Infisical.Project == "" || raw.Infisical.Environment == "" || raw.Infisical.Key == "" {
			errs = append(errs, errors.New("infisical project, environment and key are required"))
		}
		path := raw.Infisical.Path
		if path == "" {
			path = "/"
		}
		sources = append(sources, InfisicalKey{
			Project:     raw.Infisical.Project,
			Environment: raw.Infisical.Environment,
			Path:        path,
			Key:         raw.Infisical.Key,
		})
	}

	if len(sources) != 1 {
		return nil, fmt.Errorf("%w: exactly one key source must be set under secret.pgp, got %d", kerrors.ErrInvalidManifest, len(sources))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidManifest, errors.Join(errs...))
	}
	return sources[0], nil
}
