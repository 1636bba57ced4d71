package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/secenv/internal/audit"
	"github.com/PolarWolf314/secenv/internal/configs"
	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	logger "github.com/PolarWolf314/secenv/internal/logging"
	"github.com/PolarWolf314/secenv/internal/manifest"
	"github.com/PolarWolf314/secenv/internal/utils"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// Path is where the manifest is written. Defaults to secenv.toml in the
	// working directory. A .yaml or .yml extension selects YAML.
	Path string

	// Force overwrites an existing manifest.
	Force bool

	// ToolVersion is written as the manifest version.
	ToolVersion string

	Logger logger.Logger
	Audit  *audit.Log
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	Path string

	// Overwritten is true when an existing manifest was replaced.
	Overwritten bool
}

// Init writes an example manifest.
//
// Returns ErrManifestExists if the file exists and Force is not set.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := opts.Path
	if path == "" {
		path = configs.DefaultManifestName
	}
	path, err := utils.AbsPath(path)
	if err != nil {
		return nil, err
	}

	result := &InitResult{Path: path}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", kerrors.ErrManifestExists, path)
	case err == nil && !opts.Force:
		return nil, fmt.Errorf("%w: %s (use --force to overwrite)", kerrors.ErrManifestExists, path)
	case err == nil:
		result.Overwritten = true
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDirectoryCreation, err)
	}

	content := manifest.Template(path, opts.ToolVersion)

	// #nosec G306 -- manifests hold only ciphertext and are meant to be committed.
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFileWrite, err)
	}
	opts.Logger.Infof("Wrote example manifest to %s", path)

	if opts.Audit != nil {
		entry := audit.NewEntry(audit.OpInit)
		entry.User, entry.Host = utils.Identity()
		entry.Manifest = path
		if err := opts.Audit.Append(entry); err != nil {
			opts.Logger.Warnf("audit: %v", err)
		}
	}

	return result, nil
}
