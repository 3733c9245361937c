package ebay_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/internal/ebay"
)

// fakeRedis is an in-memory stand-in for the two Redis commands the cache uses.
type fakeRedis struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func TestRedisTokenCache_RoundTrip(t *testing.T) {
	t.Parallel()

	rdb := newFakeRedis()
	cache := ebay.NewRedisTokenCache(rdb, "rr:token:")

	_, ok, err := cache.Get(context.Background(), ebay.DefaultScope)
	require.NoError(t, err)
	assert.False(t, ok)

	cred := ebay.Credential{
		Token:     "abc",
		ExpiresAt: time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cache.Set(context.Background(), ebay.DefaultScope, cred, time.Hour))
	assert.Equal(t, time.Hour, rdb.ttls["rr:token:"+ebay.DefaultScope])

	got, ok, err := cache.Get(context.Background(), ebay.DefaultScope)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cred.Token, got.Token)
	assert.True(t, cred.ExpiresAt.Equal(got.ExpiresAt))
}

func TestRedisTokenCache_Errors(t *testing.T) {
	t.Parallel()

	t.Run("get failure", func(t *testing.T) {
		t.Parallel()

		rdb := newFakeRedis()
		rdb.getErr = assert.AnError
		_, _, err := ebay.NewRedisTokenCache(rdb, "").Get(context.Background(), "s")
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("corrupt value", func(t *testing.T) {
		t.Parallel()

		rdb := newFakeRedis()
		rdb.data["s"] = "{not json"
		_, _, err := ebay.NewRedisTokenCache(rdb, "").Get(context.Background(), "s")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding cached token")
	})

	t.Run("set failure", func(t *testing.T) {
		t.Parallel()

		rdb := newFakeRedis()
		rdb.setErr = assert.AnError
		err := ebay.NewRedisTokenCache(rdb, "").Set(context.Background(), "s", ebay.Credential{}, time.Minute)
		require.ErrorIs(t, err, assert.AnError)
	})
}
