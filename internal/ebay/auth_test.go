package ebay_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resale-router/internal/ebay"
	"github.com/donaldgifford/resale-router/internal/ebay/mocks"
)

// tokenJSON returns a valid eBay OAuth2 token response as JSON bytes.
func tokenJSON(token string) []byte {
	return []byte(fmt.Sprintf(
		`{"access_token":%q,"expires_in":7200,"token_type":"Application Access Token"}`,
		token,
	))
}

func tokenServer(t *testing.T, calls *atomic.Int32, token string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(tokenJSON(token))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOAuthTokenProvider_Token(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantErr    bool
		wantToken  string
		errContain string
	}{
		{
			name: "successful token fetch",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(tokenJSON("test-token-123"))
			},
			wantToken: "test-token-123",
		},
		{
			name: "server returns 401",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write(
					[]byte(`{"error":"invalid_client","error_description":"client authentication failed"}`),
				)
			},
			wantErr:    true,
			errContain: "status 401",
		},
		{
			name: "server returns invalid JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			wantErr:    true,
			errContain: "parsing token response",
		},
		{
			name: "response without token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"expires_in":7200}`))
			},
			wantErr:    true,
			errContain: "no access_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			provider := ebay.NewOAuthTokenProvider(
				"test-app-id",
				"test-cert-id",
				ebay.WithTokenURL(srv.URL),
			)

			token, err := provider.Token(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestOAuthTokenProvider_TokenFor(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var scopes sync.Map

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		scope := r.FormValue("scope")
		n, _ := scopes.LoadOrStore(scope, new(atomic.Int32))
		n.(*atomic.Int32).Add(1)
		_, _ = w.Write(tokenJSON("token-for-" + scope))
	}))
	defer srv.Close()

	provider := ebay.NewOAuthTokenProvider(
		"app", "cert",
		ebay.WithTokenURL(srv.URL),
		ebay.WithNowFunc(func() time.Time { return now }),
	)

	a, err := provider.TokenFor(context.Background(), "scope-a")
	require.NoError(t, err)
	assert.Equal(t, "token-for-scope-a", a.Token)
	assert.Equal(t, now.Add(7200*time.Second), a.ExpiresAt)

	b, err := provider.TokenFor(context.Background(), "scope-b")
	require.NoError(t, err)
	assert.Equal(t, "token-for-scope-b", b.Token)

	again, err := provider.TokenFor(context.Background(), "scope-a")
	require.NoError(t, err)
	assert.Equal(t, a, again)

	n, ok := scopes.Load("scope-a")
	require.True(t, ok)
	assert.Equal(t, int32(1), n.(*atomic.Int32).Load())

	def, err := provider.TokenFor(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+ebay.DefaultScope, def.Token)
}

func TestOAuthTokenProvider_TokenCaching(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := tokenServer(t, &calls, "cached-token")

	provider := ebay.NewOAuthTokenProvider("app", "cert", ebay.WithTokenURL(srv.URL))

	for range 3 {
		token, err := provider.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "cached-token", token)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestOAuthTokenProvider_TokenRefreshOnExpiry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := tokenServer(t, &calls, "refreshed-token")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := now
	var mu sync.Mutex

	provider := ebay.NewOAuthTokenProvider(
		"app", "cert",
		ebay.WithTokenURL(srv.URL),
		ebay.WithNowFunc(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return current
		}),
	)

	_, err := provider.Token(context.Background())
	require.NoError(t, err)

	// Inside the refresh buffer (7200s - 60s).
	mu.Lock()
	current = now.Add(7141 * time.Second)
	mu.Unlock()

	_, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOAuthTokenProvider_ConcurrentRefreshCollapses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write(tokenJSON("concurrent-token"))
	}))
	defer srv.Close()

	provider := ebay.NewOAuthTokenProvider("app", "cert", ebay.WithTokenURL(srv.URL))

	const goroutines = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			token, err := provider.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "concurrent-token", token)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestOAuthTokenProvider_CanceledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write(tokenJSON("slow-token"))
	}))
	defer srv.Close()

	provider := ebay.NewOAuthTokenProvider("app", "cert", ebay.WithTokenURL(srv.URL))

	shortCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	leaderErr := make(chan error, 1)
	go func() {
		_, err := provider.Token(shortCtx)
		leaderErr <- err
	}()

	// Join the refresh the short-lived caller started.
	time.Sleep(5 * time.Millisecond)
	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slow-token", token)

	err = <-leaderErr
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The detached refresh populated the cache for later callers.
	token, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slow-token", token)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOAuthTokenProvider_SharedCacheHit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := tokenServer(t, &calls, "fresh-token")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	shared := ebay.Credential{Token: "shared-token", ExpiresAt: now.Add(time.Hour)}

	cache := mocks.NewMockTokenCache(t)
	cache.EXPECT().Get(mock.Anything, ebay.DefaultScope).Return(shared, true, nil).Once()

	provider := ebay.NewOAuthTokenProvider(
		"app", "cert",
		ebay.WithTokenURL(srv.URL),
		ebay.WithTokenCache(cache),
		ebay.WithNowFunc(func() time.Time { return now }),
	)

	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shared-token", token)
	assert.Equal(t, int32(0), calls.Load())

	// Served from the in-process cache; the shared cache is not read again.
	token, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shared-token", token)
}

func TestOAuthTokenProvider_SharedCacheMissPopulates(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := tokenServer(t, &calls, "fresh-token")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cache := mocks.NewMockTokenCache(t)
	cache.EXPECT().Get(mock.Anything, ebay.DefaultScope).
		Return(ebay.Credential{}, false, assert.AnError)
	cache.EXPECT().Set(
		mock.Anything,
		ebay.DefaultScope,
		ebay.Credential{Token: "fresh-token", ExpiresAt: now.Add(7200 * time.Second)},
		7140*time.Second,
	).Return(nil)

	provider := ebay.NewOAuthTokenProvider(
		"app", "cert",
		ebay.WithTokenURL(srv.URL),
		ebay.WithTokenCache(cache),
		ebay.WithNowFunc(func() time.Time { return now }),
	)

	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOAuthTokenProvider_RequestFormat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "my-app-id", user)
		assert.Equal(t, "my-cert-id", pass)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		assert.Equal(t, "https://api.ebay.com/oauth/api_scope/buy.marketplace.insights", r.FormValue("scope"))

		_, _ = w.Write(tokenJSON("format-test-token"))
	}))
	defer srv.Close()

	provider := ebay.NewOAuthTokenProvider(
		"my-app-id",
		"my-cert-id",
		ebay.WithTokenURL(srv.URL),
		ebay.WithScope("https://api.ebay.com/oauth/api_scope/buy.marketplace.insights"),
	)

	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "format-test-token", token)
}
