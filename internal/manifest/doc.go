// Package manifest parses secenv manifests into profiles.
//
// A manifest declares named profiles. Each profile has environment
// variables, an optional keep list of host-variable patterns and ephemeral
// files. Every leaf value is either Plain or Secure; Secure values carry a
// KeySource describing where the PGP private key lives.
//
// Both TOML and YAML forms are accepted and decode into the same closed
// types. Unknown keys are rejected and files keep their declaration order.
// Encoding and key material are not checked here; see package secrets.
package manifest
