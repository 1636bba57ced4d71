package backends

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// GCPSecretManager reads secret versions with the Secret Manager client
// library. The client is created on first use with application default
// credentials.
type GCPSecretManager struct {
	once   sync.Once
	client *secretmanager.Client
	err    error
}

func (g *GCPSecretManager) getClient(ctx context.Context) (*secretmanager.Client, error) {
	g.once.Do(func() {
		// The client outlives the call that created it.
		g.client, g.err = secretmanager.NewClient(context.WithoutCancel(ctx))
	})
	return g.client, g.err
}

// AccessSecret returns the payload of a fully qualified secret version.
func (g *GCPSecretManager) AccessSecret(ctx context.Context, name string) ([]byte, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, err
	}

	payload := resp.GetPayload()
	if err := verifyChecksum(payload.GetData(), payload.DataCrc32C); err != nil {
		return nil, err
	}
	return payload.GetData(), nil
}

// Close releases the client if one was created.
func (g *GCPSecretManager) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errChecksumMismatch = errors.New("payload checksum mismatch")

func verifyChecksum(data []byte, want *int64) error {
	if want == nil {
		return nil
	}
	if int64(crc32.Checksum(data, castagnoli)) != *want {
		return errChecksumMismatch
	}
	return nil
}
