package secrets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	"github.com/PolarWolf314/secenv/internal/manifest"
	"github.com/PolarWolf314/secenv/internal/sensitivedata"
)

// Tracker records resolved values so they can be scrubbed from output.
type Tracker interface {
	Track(value string)
}

// ResolvedFile is an ephemeral file with its plaintext content.
type ResolvedFile struct {
	Path    string
	Content []byte
}

// Resolved is the outcome of resolving one profile.
type Resolved struct {
	Vars map[string]string
	// Files are in declaration order.
	Files []ResolvedFile
}

// Names returns the resolved variable names and file paths, never values.
func (r *Resolved) Names() (vars []string, files []string) {
	for name := range r.Vars {
		vars = append(vars, name)
	}
	for _, f := range r.Files {
		files = append(files, f.Path)
	}
	return vars, files
}

// ProfileResolver resolves every variable and file of a profile.
type ProfileResolver struct {
	Values *ValueResolver

	// Concurrency caps simultaneous resolutions. Values below 1 mean 1.
	Concurrency int

	// Tracker, when set, receives every resolved variable value and every
	// text file's content.
	Tracker Tracker
}

// Validate statically checks every entry of p and reports all failures,
// each attributed to its variable or file.
func (r *ProfileResolver) Validate(p *manifest.Profile) error {
	var errs []error
	for _, name := range p.VarNames() {
		if err := manifest.ValidateVarName(name); err != nil {
			errs = append(errs, kerrors.ForEntry(kerrors.KindVariable, name, err))
			continue
		}
		if err := r.Values.Validate(p.Vars[name]); err != nil {
			errs = append(errs, kerrors.ForEntry(kerrors.KindVariable, name, err))
		}
	}
	for _, f := range p.Files {
		if err := r.Values.Validate(f.Value); err != nil {
			errs = append(errs, kerrors.ForEntry(kerrors.KindFile, f.Path, err))
		}
	}
	return kerrors.JoinEntries(errs)
}

// Resolve resolves p. Static validation runs first so a malformed manifest
// never reaches a backend. Every entry is then resolved and all failures
// are reported together; nothing is returned unless every entry succeeded.
func (r *ProfileResolver) Resolve(ctx context.Context, p *manifest.Profile) (*Resolved, error) {
	if err := r.Validate(p); err != nil {
		return nil, err
	}

	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}

	var (
		mu    sync.Mutex
		errs  []error
		vars  = make(map[string]string, len(p.Vars))
		files = make([]ResolvedFile, len(p.Files))
	)
	fail := func(kind, name string, err error) {
		mu.Lock()
		errs = append(errs, kerrors.ForEntry(kind, name, err))
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for _, name := range p.VarNames() {
		spec := p.Vars[name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				fail(kerrors.KindVariable, name, err)
				return nil
			}
			value, err := r.Values.Resolve(ctx, spec)
			if err != nil {
				fail(kerrors.KindVariable, name, err)
				return nil
			}
			if err := validateVarValue(value); err != nil {
				fail(kerrors.KindVariable, name, err)
				return nil
			}

			s := string(value)
			if r.Tracker != nil {
				r.Tracker.Track(s)
			}
			mu.Lock()
			vars[name] = s
			mu.Unlock()
			return nil
		})
	}

	for i, f := range p.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				fail(kerrors.KindFile, f.Path, err)
				return nil
			}
			content, err := r.Values.Resolve(ctx, f.Value)
			if err != nil {
				fail(kerrors.KindFile, f.Path, err)
				return nil
			}
			if r.Tracker != nil && utf8.Valid(content) {
				r.Tracker.Track(string(content))
			}
			// Each goroutine owns its own index.
			files[i] = ResolvedFile{Path: f.Path, Content: content}
			return nil
		})
	}

	_ = g.Wait()

	if len(errs) > 0 {
		for _, f := range files {
			sensitivedata.Zero(f.Content)
		}
		return nil, kerrors.JoinEntries(errs)
	}

	return &Resolved{Vars: vars, Files: files}, nil
}

func validateVarValue(value []byte) error {
	if !utf8.Valid(value) {
		return fmt.Errorf("%w: value is not valid UTF-8", kerrors.ErrInvalidVariable)
	}
	if strings.ContainsRune(string(value), 0) {
		return fmt.Errorf("%w: value contains NUL", kerrors.ErrInvalidVariable)
	}
	return nil
}
