// Package env composes the child process environment from resolved
// variables and the host environment.
package env

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
)

// Keep selects host variables that survive into a cleared environment.
type Keep struct {
	patterns []*regexp.Regexp
}

// CompileKeep compiles keep patterns. A nil slice yields a nil *Keep,
// meaning the host environment is inherited whole. A non-nil empty slice
// keeps nothing.
func CompileKeep(patterns []string) (*Keep, error) {
	if patterns == nil {
		return nil, nil
	}

	k := &Keep{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	var errs []string
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", p, err))
			continue
		}
		k.patterns = append(k.patterns, re)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: invalid keep pattern %s", kerrors.ErrInvalidManifest, strings.Join(errs, "; "))
	}
	return k, nil
}

// Matches reports whether name matches any pattern.
func (k *Keep) Matches(name string) bool {
	for _, re := range k.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Compose builds the child environment. With a nil keep the result is the
// host environment overlaid with resolved. Otherwise only host variables
// matching keep are carried over before the overlay. Resolved variables
// always win on collision. Neither input is modified.
func Compose(resolved, host map[string]string, keep *Keep) map[string]string {
	out := make(map[string]string, len(host)+len(resolved))
	for name, value := range host {
		if keep == nil || keep.Matches(name) {
			out[name] = value
		}
	}
	for name, value := range resolved {
		out[name] = value
	}
	return out
}

// HostEnviron returns the current process environment as a map. Entries
// without a name, such as the "=C:" drive entries on Windows, are skipped.
func HostEnviron() map[string]string {
	return ParseEnviron(os.Environ())
}

// ParseEnviron converts NAME=VALUE pairs into a map.
func ParseEnviron(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		out[name] = value
	}
	return out
}

// Environ converts a map into NAME=VALUE pairs sorted by name.
func Environ(vars map[string]string) []string {
	names := SortedNames(vars)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name+"="+vars[name])
	}
	return out
}

// SortedNames returns the keys of vars in lexicographic order.
func SortedNames(vars map[string]string) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format writes NAME=VALUE lines sorted by name, so the same environment
// always prints the same way.
func Format(w io.Writer, vars map[string]string) error {
	for _, line := range Environ(vars) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
