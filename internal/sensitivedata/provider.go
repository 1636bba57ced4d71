// Package sensitivedata keeps track of resolved secret values for the
// lifetime of one invocation so they can be scrubbed from operator output.
package sensitivedata

import (
	"sort"
	"strings"
	"sync"
)

// Placeholder replaces tracked values in redacted text.
const Placeholder = "[REDACTED]"

// minTracked is the shortest value worth redacting. Shorter values such as
// "1" or "on" would mangle unrelated output.
const minTracked = 4

// Provider is a thread-safe registry of sensitive values.
type Provider struct {
	values []string
	mu     sync.RWMutex
}

// NewProvider creates an empty provider.
func NewProvider() *Provider {
	return &Provider{
		values: make([]string, 0, 32),
	}
}

// Track registers a value to be redacted. Multi-line values are also
// tracked line by line.
func (p *Provider) Track(value string) {
	candidates := []string{value}
	if strings.Contains(value, "\n") {
		candidates = append(candidates, strings.Split(value, "\n")...)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) < minTracked {
			continue
		}
		p.values = append(p.values, c)
	}

	// Longest first so a value containing another is replaced whole.
	sort.SliceStable(p.values, func(i, j int) bool {
		return len(p.values[i]) > len(p.values[j])
	})
}

// Redact replaces every tracked value in s.
func (p *Provider) Redact(s string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, v := range p.values {
		if strings.Contains(s, v) {
			s = strings.ReplaceAll(s, v, Placeholder)
		}
	}
	return s
}

// Len returns the number of tracked values.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values)
}

// Forget drops every tracked value.
func (p *Provider) Forget() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = p.values[:0]
}
