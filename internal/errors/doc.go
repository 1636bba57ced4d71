// Package errors provides typed error values for secenv.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Configuration errors: malformed entries (ErrConfiguration, ErrEncoding, ErrInvalidResource)
//   - Manifest errors: unusable manifest (ErrInvalidManifest, ErrProfileNotFound)
//   - Key source errors: key material unavailable (ErrKeySource, ErrKeyNotFound, ErrSecretAccess)
//   - Crypto errors: decryption failures (ErrDecryption, ErrPassphraseRequired, ErrDecryptionFailed)
//   - File errors: staging and cleanup (ErrStage, ErrAlreadyExists, ErrCleanup)
//
// Specific errors are wrapped together with their category so both match:
//
//	return fmt.Errorf("%w: %w: %s", errors.ErrKeySource, errors.ErrKeyFileNotFound, path)
//
// # Entry Attribution
//
// Every failure while resolving a profile is wrapped in an EntryError naming
// the variable or file it belongs to. Messages never contain resolved values,
// key material or passphrases.
package errors
