package secrets

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/require"
)

var testKeyConfig = &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA}

// newTestKey generates a key pair and returns the entity along with its
// armored private key. A non-empty passphrase protects the exported key.
func newTestKey(t *testing.T, passphrase string) (*openpgp.Entity, []byte) {
	t.Helper()

	entity, err := openpgp.NewEntity("secenv test", "", "test@example.com", testKeyConfig)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)

	if passphrase == "" {
		require.NoError(t, entity.SerializePrivate(w, nil))
	} else {
		require.NoError(t, entity.EncryptPrivateKeys([]byte(passphrase), nil))
		require.NoError(t, entity.SerializePrivateWithoutSigning(w, nil))
	}
	require.NoError(t, w.Close())

	return entity, buf.Bytes()
}

func armoredPublicKey(t *testing.T, entity *openpgp.Entity) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(w))
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// encryptTo encrypts plaintext to the entity's public key.
func encryptTo(t *testing.T, entity *openpgp.Entity, plaintext string) []byte {
	t.Helper()

	var buf bytes.Buffer
	aw, err := armor.Encode(&buf, messageType, nil)
	require.NoError(t, err)

	pw, err := openpgp.Encrypt(aw, []*openpgp.Entity{entity}, nil, nil, nil)
	require.NoError(t, err)
	_, err = pw.Write([]byte(plaintext))
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	require.NoError(t, aw.Close())

	return buf.Bytes()
}

type fakeKeyring struct {
	fingerprints []string
	keys         map[string][]byte
	err          error
}

func (f *fakeKeyring) SecretKeyFingerprints(context.Context) ([]string, error) {
	return f.fingerprints, f.err
}

func (f *fakeKeyring) ExportSecretKey(_ context.Context, fpr string) ([]byte, error) {
	return append([]byte(nil), f.keys[fpr]...), nil
}

type fakeAccessor struct {
	mu       sync.Mutex
	secrets  map[string][]byte
	requests []string
	err      error
	block    bool
}

func (f *fakeAccessor) AccessSecret(ctx context.Context, resource string) ([]byte, error) {
	f.mu.Lock()
	f.requests = append(f.requests, resource)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.secrets[resource]
	if !ok {
		return nil, errNotFound
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeAccessor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeAWS struct {
	got  AWSSecretRequest
	data []byte
}

func (f *fakeAWS) GetSecret(_ context.Context, req AWSSecretRequest) ([]byte, error) {
	f.got = req
	return f.data, nil
}

type fakeInfisical struct {
	got  InfisicalSecretRequest
	data []byte
}

func (f *fakeInfisical) GetSecret(_ context.Context, req InfisicalSecretRequest) ([]byte, error) {
	f.got = req
	return f.data, nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "rpc error: code = NotFound desc = Secret not found" }

var errNotFound error = notFoundError{}

type recordingTracker struct {
	mu     sync.Mutex
	values []string
}

func (r *recordingTracker) Track(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}
