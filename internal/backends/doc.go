// Package backends implements the external collaborators that hold PGP
// private keys: the GnuPG keyring, Google Cloud Secret Manager (through the
// client library or the gcloud CLI), AWS Secrets Manager and Infisical.
//
// Each backend satisfies one of the small interfaces declared in package
// secrets. Errors are returned with the provider's own message intact; the
// secrets package adds the category.
package backends
