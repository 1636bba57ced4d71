package backends

import (
	"context"
	"fmt"
	"os"
	"sync"

	infisical "github.com/infisical/go-sdk"

	"github.com/PolarWolf314/secenv/internal/secrets"
)

// Infisical reads secrets from an Infisical instance with an access token
// taken from the environment.
type Infisical struct {
	SiteURL string
	// TokenEnv names the environment variable holding the access token.
	TokenEnv string

	once   sync.Once
	client infisical.InfisicalClientInterface
	err    error
}

func (i *Infisical) getClient(ctx context.Context) (infisical.InfisicalClientInterface, error) {
	i.once.Do(func() {
		token := os.Getenv(i.TokenEnv)
		if token == "" {
			i.err = fmt.Errorf("no access token: %s is not set", i.TokenEnv)
			return
		}

		client := infisical.NewInfisicalClient(context.WithoutCancel(ctx), infisical.Config{
			SiteUrl: i.SiteURL,
		})
		client.Auth().SetAccessToken(token)
		i.client = client
	})
	return i.client, i.err
}

type infisicalResult struct {
	value string
	err   error
}

// GetSecret retrieves one secret value. The SDK call takes no context, so
// it runs in the background and is abandoned if ctx ends first.
func (i *Infisical) GetSecret(ctx context.Context, req secrets.InfisicalSecretRequest) ([]byte, error) {
	client, err := i.getClient(ctx)
	if err != nil {
		return nil, err
	}

	done := make(chan infisicalResult, 1)
	go func() {
		secret, err := client.Secrets().Retrieve(infisical.RetrieveSecretOptions{
			SecretKey:   req.Key,
			ProjectID:   req.ProjectID,
			Environment: req.Environment,
			SecretPath:  req.Path,
		})
		done <- infisicalResult{value: secret.SecretValue, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return []byte(res.value), nil
	}
}
