package ephemeral

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	"github.com/PolarWolf314/secenv/internal/secrets"
	"github.com/PolarWolf314/secenv/internal/sensitivedata"
	"github.com/PolarWolf314/secenv/internal/utils"
)

// State is the lifecycle state of an ephemeral file.
type State int

const (
	Pending State = iota
	Created
	RemovalFailed
	Removed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Created:
		return "created"
	case RemovalFailed:
		return "removal-failed"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// File is one ephemeral file owned by a Staged set.
type File struct {
	// Declared is the path as written in the manifest.
	Declared string
	// Path is the expanded path on disk.
	Path  string
	State State
	// Err is the last removal error, if any.
	Err error
}

// Staged is the set of files created by one invocation.
type Staged struct {
	files []*File
}

// Files returns the staged files in staging order.
func (s *Staged) Files() []*File {
	if s == nil {
		return nil
	}
	return s.files
}

// Paths returns the on-disk paths of every staged file.
func (s *Staged) Paths() []string {
	var paths []string
	for _, f := range s.Files() {
		paths = append(paths, f.Path)
	}
	return paths
}

// Stage writes files in order with owner-only permissions. An existing
// destination is an error unless force is set; a directory is never
// replaced. If any file fails, or ctx ends, every file staged so far is
// removed before the error is returned. Content buffers are zeroed once
// written.
func Stage(ctx context.Context, files []secrets.ResolvedFile, force bool) (*Staged, error) {
	staged := &Staged{files: make([]*File, 0, len(files))}

	for _, rf := range files {
		if err := ctx.Err(); err != nil {
			return nil, staged.rollback(fmt.Errorf("%w: %w", kerrors.ErrStage, err))
		}

		f, err := stageOne(rf, force)
		sensitivedata.Zero(rf.Content)
		if err != nil {
			return nil, staged.rollback(kerrors.ForEntry(kerrors.KindFile, rf.Path, err))
		}
		staged.files = append(staged.files, f)
	}

	return staged, nil
}

func stageOne(rf secrets.ResolvedFile, force bool) (*File, error) {
	path, err := utils.AbsPath(rf.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrStage, kerrors.ErrFileWrite, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %v", kerrors.ErrStage, kerrors.ErrDirectoryCreation, dir, err)
	}

	info, err := os.Lstat(path)
	switch {
	case err == nil && info.IsDir():
		return nil, fmt.Errorf("%w: %w: %s is a directory", kerrors.ErrStage, kerrors.ErrAlreadyExists, path)
	case err == nil && !force:
		return nil, fmt.Errorf("%w: %w: %s (use --force to overwrite)", kerrors.ErrStage, kerrors.ErrAlreadyExists, path)
	case err == nil:
		// Replace rather than truncate so a symlink is never followed.
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrStage, kerrors.ErrFileWrite, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrStage, kerrors.ErrFileWrite, err)
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %w: %s", kerrors.ErrStage, kerrors.ErrAlreadyExists, path)
		}
		return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrStage, kerrors.ErrFileWrite, err)
	}

	_, writeErr := out.Write(rf.Content)
	closeErr := out.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %w: %v", kerrors.ErrStage, kerrors.ErrFileWrite, errors.Join(writeErr, closeErr))
	}

	return &File{Declared: rf.Path, Path: path, State: Created}, nil
}

func (s *Staged) rollback(cause error) error {
	report := s.Cleanup()
	if err := report.Err(); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// CleanupReport describes the outcome of removing staged files.
type CleanupReport struct {
	Files []File
}

// Failed returns the files that could not be removed.
func (r CleanupReport) Failed() []File {
	var failed []File
	for _, f := range r.Files {
		if f.State == RemovalFailed {
			failed = append(failed, f)
		}
	}
	return failed
}

// Err aggregates removal failures, nil when every file was removed.
func (r CleanupReport) Err() error {
	var errs []error
	for _, f := range r.Failed() {
		errs = append(errs, kerrors.ForEntry(kerrors.KindFile, f.Path, fmt.Errorf("%w: %v", kerrors.ErrCleanup, f.Err)))
	}
	return errors.Join(errs...)
}

// Cleanup removes every staged file. Each removal is attempted regardless
// of earlier failures. A file already gone counts as removed. Calling
// Cleanup again retries only files that failed.
func (s *Staged) Cleanup() CleanupReport {
	var report CleanupReport
	for _, f := range s.Files() {
		if f.State == Created || f.State == RemovalFailed {
			if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				f.State = RemovalFailed
				f.Err = err
			} else {
				f.State = Removed
				f.Err = nil
			}
		}
		report.Files = append(report.Files, *f)
	}
	return report
}
