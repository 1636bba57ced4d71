// Package secrets resolves manifest values into plaintext.
//
// Resolution happens in layers:
//
//  1. DecodeValue turns a literal or base64 EncodedValue into bytes.
//  2. KeyResolver fetches armored private key material for a KeySource:
//     inline, a file, the local GnuPG keyring, Google Cloud Secret Manager,
//     AWS Secrets Manager or Infisical. Remote backends are interfaces so
//     the engine never depends on a particular client.
//  3. Decrypt opens an armored PGP message with exactly one private key,
//     asking a PassphraseProvider when the key is protected.
//  4. ProfileResolver validates a whole profile up front, then resolves
//     every entry concurrently and reports all failures by entry name.
//
// # Handling of Secret Material
//
// Plaintext, private keys and passphrases never appear in errors or logs.
// Key material and passphrases are zeroed once consumed; key material
// shared across entries is zeroed by ValueResolver.Release.
//
// # Passphrases
//
// Protected keys are unlocked through a PassphraseChain, normally an
// EnvPassphrase followed by a PromptPassphrase reading /dev/tty. Prompted
// passphrases are cached per key fingerprint for the run.
package secrets
