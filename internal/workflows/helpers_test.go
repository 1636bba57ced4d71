package workflows

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/secenv/internal/configs"
	logger "github.com/PolarWolf314/secenv/internal/logging"
)

// testSettings returns defaults without touching the user's settings file.
func testSettings(t *testing.T) *configs.Settings {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	s, err := configs.LoadSettings("")
	require.NoError(t, err)
	return s
}

func quietLogger() logger.Logger {
	return logger.Logger{Out: &bytes.Buffer{}}
}

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "secenv.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writeKeyAndCiphertext writes a fresh private key to dir and returns its
// path with plaintext encrypted to it, base64 encoded for the manifest.
func writeKeyAndCiphertext(t *testing.T, dir, plaintext string) (keyPath, ciphertext string) {
	t.Helper()

	entity, err := openpgp.NewEntity("secenv test", "", "test@example.com", &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})
	require.NoError(t, err)

	var key bytes.Buffer
	kw, err := armor.Encode(&key, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(kw, nil))
	require.NoError(t, kw.Close())

	keyPath = filepath.Join(dir, "private.asc")
	require.NoError(t, os.WriteFile(keyPath, key.Bytes(), 0o600))

	var msg bytes.Buffer
	mw, err := armor.Encode(&msg, "PGP MESSAGE", nil)
	require.NoError(t, err)
	pw, err := openpgp.Encrypt(mw, []*openpgp.Entity{entity}, nil, nil, nil)
	require.NoError(t, err)
	_, err = pw.Write([]byte(plaintext))
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	require.NoError(t, mw.Close())

	return keyPath, base64.StdEncoding.EncodeToString(msg.Bytes())
}
