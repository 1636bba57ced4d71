package secrets

import (
	"bytes"
	"context"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
)

func TestDecrypt_RoundTrip(t *testing.T) {
	entity, key := newTestKey(t, "")
	message := encryptTo(t, entity, "s3cr3t-value")

	got, err := Decrypt(context.Background(), key, message, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t-value", string(got))
}

func TestDecrypt_ProtectedKey(t *testing.T) {
	entity, key := newTestKey(t, "correct horse")
	message := encryptTo(t, entity, "protected-value")

	t.Run("No provider", func(t *testing.T) {
		_, err := Decrypt(context.Background(), key, message, nil)
		assert.ErrorIs(t, err, kerrors.ErrPassphraseRequired)
	})

	t.Run("Provider without passphrase", func(t *testing.T) {
		_, err := Decrypt(context.Background(), key, message, EnvPassphrase{Name: "SECENV_TEST_UNSET_PASSPHRASE"})
		assert.ErrorIs(t, err, kerrors.ErrPassphraseRequired)
	})

	t.Run("Wrong passphrase", func(t *testing.T) {
		t.Setenv("SECENV_TEST_PASSPHRASE", "battery staple")
		_, err := Decrypt(context.Background(), key, message, EnvPassphrase{Name: "SECENV_TEST_PASSPHRASE"})
		assert.ErrorIs(t, err, kerrors.ErrDecryptionFailed)
		assert.NotContains(t, err.Error(), "battery staple")
	})

	t.Run("Correct passphrase", func(t *testing.T) {
		t.Setenv("SECENV_TEST_PASSPHRASE", "correct horse")
		got, err := Decrypt(context.Background(), key, message, EnvPassphrase{Name: "SECENV_TEST_PASSPHRASE"})
		require.NoError(t, err)
		assert.Equal(t, "protected-value", string(got))
	})
}

func TestDecrypt_InvalidKey(t *testing.T) {
	entity, _ := newTestKey(t, "")
	message := encryptTo(t, entity, "x")

	// Two private keys in one armored block.
	first, _ := newTestKey(t, "")
	second, _ := newTestKey(t, "")
	var both bytes.Buffer
	w, err := armor.Encode(&both, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, first.SerializePrivate(w, nil))
	require.NoError(t, second.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	tests := []struct {
		name string
		key  []byte
	}{
		{"Garbage", []byte("not a key")},
		{"Public key only", armoredPublicKey(t, entity)},
		{"Two keys", both.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(context.Background(), tt.key, message, nil)
			assert.ErrorIs(t, err, kerrors.ErrInvalidKey)
			assert.ErrorIs(t, err, kerrors.ErrDecryption)
		})
	}
}

func TestDecrypt_InvalidMessage(t *testing.T) {
	_, key := newTestKey(t, "")

	_, err := Decrypt(context.Background(), key, []byte("plain text, not armored"), nil)
	assert.ErrorIs(t, err, kerrors.ErrInvalidMessage)
}

func TestDecrypt_WrongKey(t *testing.T) {
	recipient, _ := newTestKey(t, "")
	_, otherKey := newTestKey(t, "")
	message := encryptTo(t, recipient, "x")

	_, err := Decrypt(context.Background(), otherKey, message, nil)
	assert.ErrorIs(t, err, kerrors.ErrDecryptionFailed)
}

func TestDecrypt_SymmetricMessageRejected(t *testing.T) {
	_, key := newTestKey(t, "")

	var buf bytes.Buffer
	aw, err := armor.Encode(&buf, messageType, nil)
	require.NoError(t, err)
	pw, err := openpgp.SymmetricallyEncrypt(aw, []byte("shared"), nil, nil)
	require.NoError(t, err)
	_, err = pw.Write([]byte("symmetric"))
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	require.NoError(t, aw.Close())

	_, err = Decrypt(context.Background(), key, buf.Bytes(), nil)
	assert.ErrorIs(t, err, kerrors.ErrDecryptionFailed)
}
