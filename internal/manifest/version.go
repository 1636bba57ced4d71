package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
)

// DevVersion is the version reported by builds without release metadata.
// Manifests are not version-checked against it.
const DevVersion = "0.0.0"

// CheckVersion compares the manifest version with the running tool. A
// different major version is an error. A newer minor version returns a
// warning because some keys may not be understood.
func CheckVersion(manifestVersion, toolVersion string) (string, error) {
	if toolVersion == "" || toolVersion == DevVersion {
		return "", nil
	}

	tool, err := semver.NewVersion(toolVersion)
	if err != nil {
		return "", fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	declared, err := semver.NewVersion(manifestVersion)
	if err != nil {
		return "", fmt.Errorf("%w: version %q is not a semantic version", kerrors.ErrInvalidManifest, manifestVersion)
	}

	if declared.Major() != tool.Major() {
		return "", fmt.Errorf("%w: manifest version %s requires secenv %d.x, this is %s",
			kerrors.ErrIncompatibleVersion, declared, declared.Major(), tool)
	}
	if declared.Minor() > tool.Minor() {
		return fmt.Sprintf("manifest version %s is newer than secenv %s, some features may not work", declared, tool), nil
	}
	return "", nil
}
