package backends

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/PolarWolf314/secenv/internal/secrets"
)

// AWSSecretsManager reads secrets from AWS Secrets Manager with the default
// credential chain. One client is kept per region.
type AWSSecretsManager struct {
	// Region is used when a request names none. Empty defers to the
	// shared config and AWS_REGION.
	Region  string
	Profile string

	// loadConfig defaults to config.LoadDefaultConfig.
	loadConfig func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)

	mu      sync.Mutex
	clients map[string]*secretsmanager.Client
}

// client returns the cached client for region, creating it on first use.
// Loading the shared config can block on SSO or credential processes, so
// it runs without holding mu; a concurrent loser discards its client.
func (a *AWSSecretsManager) client(ctx context.Context, region string) (*secretsmanager.Client, error) {
	if region == "" {
		region = a.Region
	}

	a.mu.Lock()
	c, ok := a.clients[region]
	a.mu.Unlock()
	if ok {
		return c, nil
	}

	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if a.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(a.Profile))
	}

	load := a.loadConfig
	if load == nil {
		load = config.LoadDefaultConfig
	}
	cfg, err := load(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	c = secretsmanager.NewFromConfig(cfg)

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.clients[region]; ok {
		return existing, nil
	}
	if a.clients == nil {
		a.clients = make(map[string]*secretsmanager.Client)
	}
	a.clients[region] = c
	return c, nil
}

// GetSecret returns SecretString when set, SecretBinary otherwise.
func (a *AWSSecretsManager) GetSecret(ctx context.Context, req secrets.AWSSecretRequest) ([]byte, error) {
	c, err := a.client(ctx, req.Region)
	if err != nil {
		return nil, err
	}

	out, err := c.GetSecretValue(ctx, getSecretValueInput(req))
	if err != nil {
		return nil, err
	}

	if out.SecretString != nil {
		return []byte(*out.SecretString), nil
	}
	if out.SecretBinary != nil {
		return out.SecretBinary, nil
	}
	return nil, fmt.Errorf("secret %s has no value", req.SecretID)
}

// versionStagePattern matches staging labels such as AWSCURRENT or
// AWSPREVIOUS: upper-case letters and underscores only. Anything else,
// including labels with digits, is treated as a version id.
var versionStagePattern = regexp.MustCompile(`^[A-Z_]+$`)

func getSecretValueInput(req secrets.AWSSecretRequest) *secretsmanager.GetSecretValueInput {
	in := &secretsmanager.GetSecretValueInput{SecretId: aws.String(req.SecretID)}
	switch {
	case req.Version == "":
	case versionStagePattern.MatchString(req.Version):
		in.VersionStage = aws.String(req.Version)
	default:
		in.VersionId = aws.String(req.Version)
	}
	return in
}
