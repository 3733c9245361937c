package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache shares credentials between processes.
type TokenCache interface {
	Get(ctx context.Context, scope string) (Credential, bool, error)
	Set(ctx context.Context, scope string, c Credential, ttl time.Duration) error
}

// RedisClient is the subset of *redis.Client used by RedisTokenCache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisTokenCache stores credentials in Redis as JSON, keyed by scope.
type RedisTokenCache struct {
	client RedisClient
	prefix string
}

// NewRedisTokenCache creates a token cache backed by client. Keys are
// prefix + scope.
func NewRedisTokenCache(client RedisClient, prefix string) *RedisTokenCache {
	return &RedisTokenCache{client: client, prefix: prefix}
}

// Get returns the cached credential for scope. A missing key is not an error.
func (c *RedisTokenCache) Get(ctx context.Context, scope string) (Credential, bool, error) {
	b, err := c.client.Get(ctx, c.prefix+scope).Bytes()
	if errors.Is(err, redis.Nil) {
		return Credential{}, false, nil
	}
	if err != nil {
		return Credential{}, false, fmt.Errorf("getting cached token: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(b, &cred); err != nil {
		return Credential{}, false, fmt.Errorf("decoding cached token: %w", err)
	}
	return cred, true, nil
}

// Set stores cred under scope for ttl.
func (c *RedisTokenCache) Set(
	ctx context.Context,
	scope string,
	cred Credential,
	ttl time.Duration,
) error {
	b, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+scope, b, ttl).Err(); err != nil {
		return fmt.Errorf("caching token: %w", err)
	}
	return nil
}
