package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ManifestNames are the file names FindManifest looks for, in order of
// preference.
var ManifestNames = []string{"secenv.toml", "secenv.yaml", "secenv.yml"}

// FindManifest traverses up from the working directory to find a manifest.
// Returns the path to the manifest if found, empty string otherwise.
// Stops searching when it reaches the user's home directory.
func FindManifest() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	// Get the user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	for {
		// Stop searching at one level above home directory
		if currentDir == path.Join(homeDir, "..") {
			return "", nil
		}

		for _, name := range ManifestNames {
			candidate := filepath.Join(currentDir, name)
			fileInfo, err := os.Stat(candidate)
			// No error means the path exists
			if err == nil {
				if !fileInfo.IsDir() {
					return candidate, nil
				}
			} else if !os.IsNotExist(err) {
				// Return any error that's not "file not found" (like permission issues)
				return "", fmt.Errorf("error checking for %s at %s: %w", name, currentDir, err)
			}
		}

		parentDir := filepath.Dir(currentDir)

		// If we've reached the filesystem root without a manifest
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

// ExpandPath replaces a leading ~ with the user's home directory and
// cleans the result. Other paths are returned cleaned but otherwise as-is.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return filepath.Clean(p), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", p, err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(p, "~")), nil
}

// AbsPath expands p like ExpandPath and resolves it against the working
// directory.
func AbsPath(p string) (string, error) {
	expanded, err := ExpandPath(p)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	return abs, nil
}
