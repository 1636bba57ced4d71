package secrets

import (
	"context"
	"fmt"
	"sync"

	kerrors "github.com/PolarWolf314/secenv/internal/errors"
	"github.com/PolarWolf314/secenv/internal/manifest"
	"github.com/PolarWolf314/secenv/internal/sensitivedata"
)

// ValueResolver turns a ValueSpec into bytes. Key material fetched from a
// backend is shared between entries that name the same source until
// Release is called.
type ValueResolver struct {
	Keys        *KeyResolver
	Passphrases PassphraseProvider

	mu   sync.Mutex
	keys map[string]*keyFetch
}

type keyFetch struct {
	once sync.Once
	data []byte
	err  error
}

// Validate performs the checks that need no I/O: encodings, resource
// shapes and key source structure.
func (r *ValueResolver) Validate(spec manifest.ValueSpec) error {
	switch s := spec.(type) {
	case manifest.Plain:
		_, err := DecodeValue(s.Value)
		return err
	case manifest.Secure:
		if _, err := DecodeValue(s.Ciphertext); err != nil {
			return err
		}
		return r.Keys.Validate(s.Key)
	default:
		return fmt.Errorf("%w: unsupported value %T", kerrors.ErrConfiguration, spec)
	}
}

// Resolve returns the plaintext bytes for spec.
func (r *ValueResolver) Resolve(ctx context.Context, spec manifest.ValueSpec) ([]byte, error) {
	switch s := spec.(type) {
	case manifest.Plain:
		return DecodeValue(s.Value)
	case manifest.Secure:
		message, err := DecodeValue(s.Ciphertext)
		if err != nil {
			return nil, err
		}

		key, shared, err := r.key(ctx, s.Key)
		if err != nil {
			return nil, err
		}
		if !shared {
			defer sensitivedata.Zero(key)
		}

		return Decrypt(ctx, key, message, r.Passphrases)
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", kerrors.ErrConfiguration, spec)
	}
}

// key returns key material for src. Shared material belongs to the cache
// and must not be zeroed by the caller.
func (r *ValueResolver) key(ctx context.Context, src manifest.KeySource) ([]byte, bool, error) {
	id, cacheable := cacheKey(src)
	if !cacheable {
		data, err := r.Keys.Resolve(ctx, src)
		return data, false, err
	}

	r.mu.Lock()
	if r.keys == nil {
		r.keys = make(map[string]*keyFetch)
	}
	f, ok := r.keys[id]
	if !ok {
		f = &keyFetch{}
		r.keys[id] = f
	}
	r.mu.Unlock()

	f.once.Do(func() {
		f.data, f.err = r.Keys.Resolve(ctx, src)
	})
	return f.data, true, f.err
}

// Release zeroes every cached private key.
func (r *ValueResolver) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.keys {
		sensitivedata.Zero(f.data)
		delete(r.keys, id)
	}
}
