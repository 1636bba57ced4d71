package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/PolarWolf314/secenv/internal/launcher"
)

const plainManifest = `
version = "0.1.0"

[profiles.default.env.vars.APP.plain]
literal = "1"

[profiles.default.env.vars.HOST.plain]
base64 = "bG9jYWxob3N0"

[profiles.staging.env]
keep = []

[profiles.staging.env.vars.APP.plain]
literal = "staging"
`

func TestUnlockPrintsVariables(t *testing.T) {
	project := setupTestEnvironment(t)
	writeTestManifest(t, project, plainManifest)

	stdout, stderr, code := runCLI(t, "unlock")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got: %d (stderr: %s)", code, stderr)
	}
	if stdout != "APP=1\nHOST=localhost\n" {
		t.Errorf("Unexpected output: %q", stdout)
	}
}

func TestUnlockSelectsProfile(t *testing.T) {
	project := setupTestEnvironment(t)
	writeTestManifest(t, project, plainManifest)

	stdout, stderr, code := runCLI(t, "unlock", "-p", "staging", "--all")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got: %d (stderr: %s)", code, stderr)
	}
	// An empty keep list leaves only resolved variables.
	if stdout != "APP=staging\n" {
		t.Errorf("Unexpected output: %q", stdout)
	}
}

func TestUnlockMissingManifest(t *testing.T) {
	setupTestEnvironment(t)

	_, stderr, code := runCLI(t, "unlock")
	if code != launcher.ExitSetupFailure {
		t.Errorf("Expected exit code %d, got: %d", launcher.ExitSetupFailure, code)
	}
	if !strings.Contains(stderr, "manifest not found") {
		t.Errorf("Expected manifest not found error, got: %s", stderr)
	}
}

func TestFinalErrorIsRedacted(t *testing.T) {
	setupTestEnvironment(t)

	const secret = "hunter2hunter2"
	Redactor.Track(secret)

	_, stderr, code := runCLI(t, "unlock", "-c", "/nonexistent/"+secret+".toml")
	if code != launcher.ExitSetupFailure {
		t.Errorf("Expected exit code %d, got: %d", launcher.ExitSetupFailure, code)
	}
	if !strings.Contains(stderr, "manifest not found") {
		t.Errorf("Expected manifest not found error, got: %s", stderr)
	}
	if strings.Contains(stderr, secret) {
		t.Errorf("Expected tracked value to be redacted, got: %s", stderr)
	}
	if Redactor.Len() != 0 {
		t.Errorf("Expected tracked values to be forgotten after the run, got: %d", Redactor.Len())
	}
}

func TestUnlockUnknownProfile(t *testing.T) {
	project := setupTestEnvironment(t)
	writeTestManifest(t, project, plainManifest)

	_, stderr, code := runCLI(t, "unlock", "--profile", "prod")
	if code != launcher.ExitSetupFailure {
		t.Errorf("Expected exit code %d, got: %d", launcher.ExitSetupFailure, code)
	}
	if !strings.Contains(stderr, "profile not found") {
		t.Errorf("Expected profile not found error, got: %s", stderr)
	}
}

func TestUnlockRefusesExistingFile(t *testing.T) {
	project := setupTestEnvironment(t)
	existing := filepath.Join(project, "creds.json")
	if err := os.WriteFile(existing, []byte("original"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	writeTestManifest(t, project, fmt.Sprintf(`
version = "0.1.0"

[profiles.default.files.%q.plain]
literal = "{}"
`, existing))

	_, stderr, code := runCLI(t, "unlock")
	if code != launcher.ExitSetupFailure {
		t.Errorf("Expected exit code %d, got: %d", launcher.ExitSetupFailure, code)
	}
	if !strings.Contains(stderr, "--force") {
		t.Errorf("Expected hint about --force, got: %s", stderr)
	}

	_, stderr, code = runCLI(t, "unlock", "--force")
	if code != 0 {
		t.Fatalf("Expected exit code 0 with --force, got: %d (stderr: %s)", code, stderr)
	}
	if _, err := os.Stat(existing); !os.IsNotExist(err) {
		t.Errorf("Expected overwritten file to be removed after the run")
	}
}

func TestUnlockCommandExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	project := setupTestEnvironment(t)
	writeTestManifest(t, project, plainManifest)

	stdout, _, code := runCLI(t, "unlock", "--", "/bin/sh", "-c", `printf '%s' "$APP"; exit 3`)
	if code != 3 {
		t.Errorf("Expected exit code 3, got: %d", code)
	}
	if stdout != "1" {
		t.Errorf("Expected child output %q, got: %q", "1", stdout)
	}
}

func TestUnlockCommandNotFound(t *testing.T) {
	project := setupTestEnvironment(t)
	writeTestManifest(t, project, plainManifest)

	_, _, code := runCLI(t, "unlock", "--", "secenv-definitely-not-a-command")
	if code != launcher.ExitNotFound {
		t.Errorf("Expected exit code %d, got: %d", launcher.ExitNotFound, code)
	}
}

func TestCheckValidManifest(t *testing.T) {
	project := setupTestEnvironment(t)
	writeTestManifest(t, project, plainManifest)

	stdout, stderr, code := runCLI(t, "check")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got: %d (stderr: %s)", code, stderr)
	}
	if !strings.Contains(stdout, "is valid") {
		t.Errorf("Expected success message, got: %s", stdout)
	}
	if !strings.Contains(stdout, "staging") {
		t.Errorf("Expected staging profile in summary, got: %s", stdout)
	}
}

func TestCheckReportsProblems(t *testing.T) {
	project := setupTestEnvironment(t)
	writeTestManifest(t, project, `
version = "0.1.0"

[profiles.default.env.vars.KEY.secure]
secret.pgp.gcp = { secret = "not-a-resource" }
value.literal = "x"
`)

	_, stderr, code := runCLI(t, "check")
	if code != 1 {
		t.Errorf("Expected exit code 1, got: %d", code)
	}
	if !strings.Contains(stderr, `variable "KEY"`) {
		t.Errorf("Expected the failing variable to be named, got: %s", stderr)
	}
}

func TestInitCreatesManifest(t *testing.T) {
	project := setupTestEnvironment(t)

	_, stderr, code := runCLI(t, "init")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got: %d (stderr: %s)", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(project, "secenv.toml")); err != nil {
		t.Fatalf("Expected secenv.toml to be created: %v", err)
	}

	_, stderr, code = runCLI(t, "init")
	if code != 1 {
		t.Errorf("Expected exit code 1 for existing manifest, got: %d", code)
	}
	if !strings.Contains(stderr, "already exists") {
		t.Errorf("Expected already exists error, got: %s", stderr)
	}

	_, stderr, code = runCLI(t, "check")
	if code != 0 {
		t.Errorf("Expected generated manifest to pass check, got: %d (stderr: %s)", code, stderr)
	}
}

func TestInitYAML(t *testing.T) {
	project := setupTestEnvironment(t)

	_, stderr, code := runCLI(t, "init", "--path", "secenv.yaml")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got: %d (stderr: %s)", code, stderr)
	}

	data, err := os.ReadFile(filepath.Join(project, "secenv.yaml"))
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}
	if !strings.HasPrefix(string(data), "version:") {
		t.Errorf("Expected YAML manifest, got: %s", data)
	}
}

func TestAuditEnabledBySettings(t *testing.T) {
	project := setupTestEnvironment(t)
	writeTestManifest(t, project, plainManifest)
	auditPath := filepath.Join(project, "audit.jsonl")
	t.Setenv("SECENV_AUDIT_ENABLED", "true")
	t.Setenv("SECENV_AUDIT_PATH", auditPath)

	if _, stderr, code := runCLI(t, "unlock"); code != 0 {
		t.Fatalf("Expected exit code 0, got: %d (stderr: %s)", code, stderr)
	}

	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("Expected audit log to be written: %v", err)
	}
	if strings.Contains(string(data), "localhost") {
		t.Errorf("Audit log must not contain values: %s", data)
	}
	if !strings.Contains(string(data), `"APP"`) {
		t.Errorf("Audit log should name variables: %s", data)
	}
}

func TestExitErrorWithoutMessage(t *testing.T) {
	setupTestEnvironment(t)

	if code := exitCode(&ExitError{Code: 42}); code != 42 {
		t.Errorf("Expected exit code 42, got: %d", code)
	}
	if code := exitCode(nil); code != 0 {
		t.Errorf("Expected exit code 0, got: %d", code)
	}
}
