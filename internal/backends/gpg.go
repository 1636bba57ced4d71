package backends

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GPG talks to the local GnuPG keyring through the gpg binary.
type GPG struct {
	// Path is the gpg executable, "gpg" when empty.
	Path string
}

func (g GPG) binary() string {
	if g.Path == "" {
		return "gpg"
	}
	return g.Path
}

func (g GPG) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, g.binary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", g.binary(), args[0], err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", g.binary(), args[0], err)
	}
	return stdout.Bytes(), nil
}

// SecretKeyFingerprints lists the primary fingerprint of every secret key.
func (g GPG) SecretKeyFingerprints(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "--list-secret-keys", "--with-colons", "--batch")
	if err != nil {
		return nil, err
	}
	return parseSecretKeyFingerprints(out), nil
}

// ExportSecretKey exports one secret key as minimal armored RFC 4880 data.
func (g GPG) ExportSecretKey(ctx context.Context, fingerprint string) ([]byte, error) {
	return g.run(ctx,
		"--export-secret-keys",
		"--armor",
		"--batch",
		"--yes",
		"--export-options", "export-minimal,export-clean",
		"--rfc4880",
		fingerprint,
	)
}

// parseSecretKeyFingerprints reads --with-colons output. Each "sec" record
// is followed by an "fpr" record carrying the primary key fingerprint in
// field 10; subkey fingerprints follow "ssb" records and are skipped.
func parseSecretKeyFingerprints(out []byte) []string {
	var fingerprints []string
	expectPrimary := false

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		switch fields[0] {
		case "sec":
			expectPrimary = true
		case "fpr":
			if expectPrimary && len(fields) > 9 && fields[9] != "" {
				fingerprints = append(fingerprints, fields[9])
			}
			expectPrimary = false
		case "ssb", "pub", "sub":
			expectPrimary = false
		}
	}
	return fingerprints
}
