package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Configuration errors indicate a malformed manifest entry. They are detected
// statically, before any secret backend is contacted.
var (
	// ErrConfiguration indicates a value or key source is declared incorrectly.
	ErrConfiguration = errors.New("configuration error")

	// ErrEncoding indicates an encoded value could not be decoded.
	ErrEncoding = errors.New("invalid encoding")

	// ErrInvalidResource indicates a secret manager resource name has the wrong shape.
	ErrInvalidResource = errors.New("invalid secret resource")
)

// Manifest errors indicate the manifest itself cannot be used.
var (
	// ErrManifestNotFound indicates the manifest file does not exist.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrInvalidManifest indicates the manifest could not be parsed or has an invalid structure.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrIncompatibleVersion indicates the manifest was written for an incompatible version.
	ErrIncompatibleVersion = errors.New("incompatible manifest version")

	// ErrProfileNotFound indicates the requested profile is not declared.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidVariable indicates a variable name or resolved value cannot be placed in an environment.
	ErrInvalidVariable = errors.New("invalid environment variable")

	// ErrManifestExists indicates init would overwrite an existing manifest.
	ErrManifestExists = errors.New("manifest already exists")
)

// Key source errors indicate private key material could not be obtained.
var (
	// ErrKeySource is the category for every key source failure.
	ErrKeySource = errors.New("key source error")

	// ErrKeyFileNotFound indicates a key file does not exist.
	ErrKeyFileNotFound = errors.New("key file not found")

	// ErrKeyFileRead indicates a key file exists but could not be read.
	ErrKeyFileRead = errors.New("key file could not be read")

	// ErrKeyNotFound indicates the keyring has no unique private key for a fingerprint.
	ErrKeyNotFound = errors.New("private key not found in keyring")

	// ErrSecretAccess indicates a remote secret manager failed to return a secret.
	ErrSecretAccess = errors.New("secret access failed")
)

// Cryptographic errors indicate failures while decrypting a value.
var (
	// ErrDecryption is the category for every decryption failure.
	ErrDecryption = errors.New("decryption error")

	// ErrInvalidKey indicates the key material is not exactly one armored private key.
	ErrInvalidKey = errors.New("invalid private key")

	// ErrInvalidMessage indicates the ciphertext is not an armored PGP message.
	ErrInvalidMessage = errors.New("invalid encrypted message")

	// ErrPassphraseRequired indicates the key is protected and no passphrase is available.
	ErrPassphraseRequired = errors.New("passphrase required")

	// ErrDecryptionFailed indicates the message could not be decrypted with the key.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// File lifecycle errors indicate ephemeral files could not be staged or removed.
var (
	// ErrStage is the category for every staging failure.
	ErrStage = errors.New("staging failed")

	// ErrAlreadyExists indicates a destination exists and overwriting was not forced.
	ErrAlreadyExists = errors.New("file already exists")

	// ErrDirectoryCreation indicates a parent directory could not be created.
	ErrDirectoryCreation = errors.New("failed to create directory")

	// ErrFileWrite indicates a file could not be written.
	ErrFileWrite = errors.New("failed to write file")

	// ErrCleanup indicates one or more ephemeral files could not be removed.
	ErrCleanup = errors.New("cleanup failed")
)

// Process errors indicate the target command could not be started.
var (
	// ErrCommandStart indicates the command could not be spawned.
	ErrCommandStart = errors.New("failed to start command")
)

// Entry kinds used by EntryError.
const (
	KindVariable = "variable"
	KindFile     = "file"
)

// EntryError attributes an error to a single manifest entry.
type EntryError struct {
	Kind string
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ForEntry wraps err with the entry it belongs to. A nil err stays nil.
func ForEntry(kind, name string, err error) error {
	if err == nil {
		return nil
	}
	return &EntryError{Kind: kind, Name: name, Err: err}
}

// JoinEntries joins entry errors in a stable order (kind, then name) so the
// same manifest always reports the same way.
func JoinEntries(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	sorted := make([]error, len(errs))
	copy(sorted, errs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return entryKey(sorted[i]) < entryKey(sorted[j])
	})

	return errors.Join(sorted...)
}

func entryKey(err error) string {
	var entryErr *EntryError
	if errors.As(err, &entryErr) {
		return entryErr.Kind + "\x00" + entryErr.Name
	}
	return "\xff" + err.Error()
}

// Entries flattens a joined error back into its individual errors.
func Entries(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
