package backends

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Gcloud reads secret versions by shelling out to the gcloud CLI, using
// whatever account gcloud is logged in with.
type Gcloud struct {
	// Path is the gcloud executable, "gcloud" when empty.
	Path string
}

var secretVersionPattern = regexp.MustCompile(`^projects/([^/]+)/secrets/([^/]+)/versions/([^/]+)$`)

// AccessSecret returns the payload of a fully qualified secret version.
func (g Gcloud) AccessSecret(ctx context.Context, name string) ([]byte, error) {
	m := secretVersionPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("not a secret version name: %q", name)
	}
	project, secret, version := m[1], m[2], m[3]

	bin := g.Path
	if bin == "" {
		bin = "gcloud"
	}

	cmd := exec.CommandContext(ctx, bin,
		"secrets", "versions", "access", version,
		"--secret", secret,
		"--project", project,
		"--quiet",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("gcloud: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("gcloud: %w", err)
	}

	return bytes.TrimRight(stdout.Bytes(), "\r\n"), nil
}
