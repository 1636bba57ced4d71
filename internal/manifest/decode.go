package manifest

// Wire shapes shared by the TOML and YAML forms of the manifest:
//
//	[profiles.<name>.env]
//	keep = ["^PATH$"]
//	[profiles.<name>.env.vars.<VAR>.plain]
//	literal = "..."
//	[profiles.<name>.env.vars.<VAR>.secure.secret.pgp.file]
//	...
//	[profiles.<name>.files."<path>".plain]
//	base64 = "..."

type rawManifest struct {
	Version  string                 `toml:"version" yaml:"version"`
	Profiles map[string]*rawProfile `toml:"profiles" yaml:"profiles"`
}

type rawProfile struct {
	Env   *rawEnv                `toml:"env" yaml:"env"`
	Files map[string]*rawContent `toml:"files" yaml:"files"`
}

type rawEnv struct {
	Keep *[]string             `toml:"keep" yaml:"keep"`
	Vars map[string]*rawContent `toml:"vars" yaml:"vars"`
}

type rawContent struct {
	Plain  *EncodedValue `toml:"plain" yaml:"plain"`
	Secure *rawSecure    `toml:"secure" yaml:"secure"`
}

type rawSecure struct {
	Secret *rawSecret    `toml:"secret" yaml:"secret"`
	Value  *EncodedValue `toml:"value" yaml:"value"`
}

type rawSecret struct {
	PGP *rawAllocation `toml:"pgp" yaml:"pgp"`
}

type rawAllocation struct {
	Literal   *EncodedValue `toml:"literal" yaml:"literal"`
	File      *string       `toml:"file" yaml:"file"`
	GPG       *rawGPG       `toml:"gpg" yaml:"gpg"`
	GCP       *rawGCP       `toml:"gcp" yaml:"gcp"`
	AWS       *rawAWS       `toml:"aws" yaml:"aws"`
	Infisical *rawInfisical `toml:"infisical" yaml:"infisical"`
}

type rawGPG struct {
	Fingerprint string `toml:"fingerprint" yaml:"fingerprint"`
}

type rawGCP struct {
	Secret  string `toml:"secret" yaml:"secret"`
	Version string `toml:"version" yaml:"version"`
}

type rawAWS struct {
	Secret  string `toml:"secret" yaml:"secret"`
	Version string `toml:"version" yaml:"version"`
	Region  string `toml:"region" yaml:"region"`
}

type rawInfisical struct {
	Project     string `toml:"project" yaml:"project"`
	Environment string `toml:"environment" yaml:"environment"`
	Path        string `toml:"path" yaml:"path"`
	Key         string `toml:"key" yaml:"key"`
}
