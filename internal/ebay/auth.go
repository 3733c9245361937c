package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/donaldgifford/resale-router/internal/metrics"
)

const (
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // not a credential
	refreshBuffer   = 60 * time.Second
	refreshTimeout  = 30 * time.Second
)

// OAuthTokenProvider implements ScopedTokenProvider using the eBay OAuth2
// client credentials flow. Credentials are cached per scope and refreshed
// when expired or within 60 seconds of expiry. Concurrent refreshes for the
// same scope collapse into one request; readers see either the old or the
// new credential.
type OAuthTokenProvider struct {
	appID    string
	certID   string
	tokenURL string
	client   *http.Client
	scope    string
	shared   TokenCache
	logger   *slog.Logger

	mu      sync.RWMutex
	creds   map[string]Credential
	group   singleflight.Group
	nowFunc func() time.Time // for testing
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithTokenURL overrides the default eBay token endpoint.
func WithTokenURL(u string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.tokenURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.nowFunc = f
	}
}

// WithScope sets the scope used by Token.
func WithScope(scope string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		if scope != "" {
			p.scope = scope
		}
	}
}

// WithTokenCache shares credentials with other replicas through c. The cache
// is consulted before the token endpoint and populated after each refresh.
func WithTokenCache(c TokenCache) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.shared = c
	}
}

// WithOAuthLogger sets the logger for shared cache failures.
func WithOAuthLogger(l *slog.Logger) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.logger = l
	}
}

// NewOAuthTokenProvider creates a new eBay OAuth2 token provider.
func NewOAuthTokenProvider(
	appID, certID string,
	opts ...OAuthOption,
) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		appID:    appID,
		certID:   certID,
		tokenURL: defaultTokenURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		scope:    DefaultScope,
		logger:   slog.Default(),
		creds:    make(map[string]Credential),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Token returns a valid access token for the configured scope.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	c, err := p.TokenFor(ctx, p.scope)
	if err != nil {
		return "", err
	}
	return c.Token, nil
}

// TokenFor returns a valid credential for scope, refreshing if necessary. An
// empty scope means the configured scope.
func (p *OAuthTokenProvider) TokenFor(ctx context.Context, scope string) (Credential, error) {
	if scope == "" {
		scope = p.scope
	}
	if c, ok := p.cached(scope); ok {
		return c, nil
	}

	// The refresh runs detached from ctx; each caller stops waiting on its own.
	ch := p.group.DoChan(scope, func() (any, error) {
		// Another flight may have finished between the read and DoChan.
		if c, ok := p.cached(scope); ok {
			return c, nil
		}

		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		if c, ok := p.fromShared(rctx, scope); ok {
			p.store(scope, c)
			return c, nil
		}

		c, err := p.fetch(rctx, scope)
		if err != nil {
			return Credential{}, err
		}
		p.store(scope, c)
		p.toShared(rctx, scope, c)
		return c, nil
	})

	select {
	case <-ctx.Done():
		return Credential{}, fmt.Errorf("waiting for token refresh: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Credential{}, res.Err
		}
		c, _ := res.Val.(Credential)
		return c, nil
	}
}

func (p *OAuthTokenProvider) valid(c Credential) bool {
	return c.Token != "" && p.nowFunc().Before(c.ExpiresAt.Add(-refreshBuffer))
}

func (p *OAuthTokenProvider) cached(scope string) (Credential, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	c, ok := p.creds[scope]
	return c, ok && p.valid(c)
}

func (p *OAuthTokenProvider) store(scope string, c Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.creds[scope] = c
}

func (p *OAuthTokenProvider) fromShared(ctx context.Context, scope string) (Credential, bool) {
	if p.shared == nil {
		return Credential{}, false
	}
	c, ok, err := p.shared.Get(ctx, scope)
	if err != nil {
		p.logger.Warn("reading shared token cache", "error", err)
		return Credential{}, false
	}
	return c, ok && p.valid(c)
}

func (p *OAuthTokenProvider) toShared(ctx context.Context, scope string, c Credential) {
	if p.shared == nil {
		return
	}
	ttl := c.ExpiresAt.Sub(p.nowFunc()) - refreshBuffer
	if ttl <= 0 {
		return
	}
	if err := p.shared.Set(ctx, scope, c, ttl); err != nil {
		p.logger.Warn("writing shared token cache", "error", err)
	}
}

func (p *OAuthTokenProvider) fetch(ctx context.Context, scope string) (Credential, error) {
	metrics.CredentialRefreshesTotal.Inc()

	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {scope},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return Credential{}, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	creds := base64.StdEncoding.EncodeToString(
		[]byte(p.appID + ":" + p.certID),
	)
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := p.client.Do(req)
	if err != nil {
		return Credential{}, fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Credential{}, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp tokenErrorResponse
		_ = json.Unmarshal(body, &errResp) //nolint:errcheck // best-effort error parsing
		return Credential{}, fmt.Errorf(
			"token request failed (status %d): %s - %s",
			resp.StatusCode,
			errResp.Error,
			errResp.ErrorDescription,
		)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return Credential{}, fmt.Errorf("parsing token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return Credential{}, errors.New("token response has no access_token")
	}

	return Credential{
		Token: tokenResp.AccessToken,
		ExpiresAt: p.nowFunc().Add(
			time.Duration(tokenResp.ExpiresIn) * time.Second,
		),
	}, nil
}
