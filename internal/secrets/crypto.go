package secrets

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	"github.com/PolarWolf314/secenv/internal/sensitivedata"
)

// messageType is the armor header of an encrypted PGP message.
const messageType = "PGP MESSAGE"

// Decrypt decrypts an armored PGP message with the single armored private
// key in keyData. Protected keys are unlocked with a passphrase from pass,
// which may be nil when no passphrase source exists.
//
// Only public-key encrypted messages are accepted. Failures carry no detail
// beyond their category so key material never reaches an error message.
func Decrypt(ctx context.Context, keyData, message []byte, pass PassphraseProvider) ([]byte, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(keyData))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrDecryption, kerrors.ErrInvalidKey)
	}
	if len(keyring) != 1 {
		return nil, fmt.Errorf("%w: %w: expected exactly one key, found %d", kerrors.ErrDecryption, kerrors.ErrInvalidKey, len(keyring))
	}

	entity := keyring[0]
	if entity.PrivateKey == nil {
		return nil, fmt.Errorf("%w: %w: not a private key", kerrors.ErrDecryption, kerrors.ErrInvalidKey)
	}

	if isProtected(entity) {
		if err := unlock(ctx, entity, pass); err != nil {
			return nil, err
		}
	}

	block, err := armor.Decode(bytes.NewReader(message))
	if err != nil || block.Type != messageType {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrDecryption, kerrors.ErrInvalidMessage)
	}

	// A nil prompt refuses symmetrically encrypted messages.
	md, err := openpgp.ReadMessage(block.Body, openpgp.EntityList{entity}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrDecryption, kerrors.ErrDecryptionFailed)
	}

	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		sensitivedata.Zero(plaintext)
		return nil, fmt.Errorf("%w: %w", kerrors.ErrDecryption, kerrors.ErrDecryptionFailed)
	}
	return plaintext, nil
}

func isProtected(entity *openpgp.Entity) bool {
	if entity.PrivateKey != nil && entity.PrivateKey.Encrypted {
		return true
	}
	for _, sub := range entity.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			return true
		}
	}
	return false
}

func unlock(ctx context.Context, entity *openpgp.Entity, pass PassphraseProvider) error {
	fingerprint := fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint)

	if pass == nil {
		return fmt.Errorf("%w: %w: key %s", kerrors.ErrDecryption, kerrors.ErrPassphraseRequired, fingerprint)
	}

	passphrase, err := pass.Passphrase(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("%w: %w: key %s: %v", kerrors.ErrDecryption, kerrors.ErrPassphraseRequired, fingerprint, err)
	}
	defer sensitivedata.Zero(passphrase)

	if err := entity.DecryptPrivateKeys(passphrase); err != nil {
		pass.Reject(fingerprint)
		return fmt.Errorf("%w: %w: wrong passphrase for key %s", kerrors.ErrDecryption, kerrors.ErrDecryptionFailed, fingerprint)
	}
	return nil
}
