package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/PolarWolf314/secenv/internal/sensitivedata"
)

// ErrNoPassphrase is returned by a PassphraseProvider that has nothing to offer.
var ErrNoPassphrase = errors.New("no passphrase available")

// PassphraseProvider supplies passphrases for protected private keys.
type PassphraseProvider interface {
	// Passphrase returns a passphrase for the key with the given fingerprint.
	// The caller owns the returned slice and zeroes it after use.
	Passphrase(ctx context.Context, fingerprint string) ([]byte, error)

	// Reject tells the provider a passphrase it returned was wrong.
	Reject(fingerprint string)
}

// EnvPassphrase reads the passphrase from an environment variable. The same
// passphrase is offered for every key.
type EnvPassphrase struct {
	Name string
}

func (e EnvPassphrase) Passphrase(_ context.Context, _ string) ([]byte, error) {
	if e.Name == "" {
		return nil, ErrNoPassphrase
	}
	v, ok := os.LookupEnv(e.Name)
	if !ok || v == "" {
		return nil, ErrNoPassphrase
	}
	return []byte(v), nil
}

func (e EnvPassphrase) Reject(string) {}

// PromptFunc reads a passphrase interactively.
type PromptFunc func(prompt string) ([]byte, error)

// PromptPassphrase asks the operator once per key and caches the answer for
// the rest of the run. Prompts are serialized so concurrent resolutions do
// not interleave on the terminal.
type PromptPassphrase struct {
	Prompt PromptFunc

	// Before and After run around each prompt, e.g. to pause a spinner.
	Before func()
	After  func()

	mu     sync.Mutex
	cached map[string][]byte
}

func (p *PromptPassphrase) Passphrase(ctx context.Context, fingerprint string) ([]byte, error) {
	if p.Prompt == nil {
		return nil, ErrNoPassphrase
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cached, ok := p.cached[fingerprint]; ok {
		return append([]byte(nil), cached...), nil
	}

	if p.Before != nil {
		p.Before()
	}
	answer, err := p.Prompt(fmt.Sprintf("Passphrase for key %s: ", fingerprint))
	if p.After != nil {
		p.After()
	}
	if err != nil {
		return nil, err
	}
	if len(answer) == 0 {
		return nil, ErrNoPassphrase
	}

	if p.cached == nil {
		p.cached = make(map[string][]byte)
	}
	p.cached[fingerprint] = answer
	return append([]byte(nil), answer...), nil
}

func (p *PromptPassphrase) Reject(fingerprint string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.cached[fingerprint]; ok {
		sensitivedata.Zero(cached)
		delete(p.cached, fingerprint)
	}
}

// Forget zeroes and drops every cached passphrase.
func (p *PromptPassphrase) Forget() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for fpr, cached := range p.cached {
		sensitivedata.Zero(cached)
		delete(p.cached, fpr)
	}
}

// PassphraseChain tries each provider in order and returns the first
// passphrase offered.
type PassphraseChain []PassphraseProvider

func (c PassphraseChain) Passphrase(ctx context.Context, fingerprint string) ([]byte, error) {
	var errs []error
	for _, p := range c {
		pass, err := p.Passphrase(ctx, fingerprint)
		if err == nil {
			return pass, nil
		}
		if !errors.Is(err, ErrNoPassphrase) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, ErrNoPassphrase
}

func (c PassphraseChain) Reject(fingerprint string) {
	for _, p := range c {
		p.Reject(fingerprint)
	}
}
