// Package ebay provides eBay Browse, Finding, and Analytics API clients and an
// OAuth2 credential provider, abstracted behind interfaces for testability.
package ebay

import (
	"context"
	"errors"
	"time"

	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// DefaultScope is the OAuth2 scope for application access to the Buy APIs.
const DefaultScope = "https://api.ebay.com/oauth/api_scope"

// ErrCompletedUnsupported is returned when completed (sold) listings cannot be
// searched, either because no completed-listings source is configured or
// because the source has been retired.
var ErrCompletedUnsupported = errors.New("completed listings search unsupported")

// SearchRequest defines the parameters for a comparable-listings search.
type SearchRequest struct {
	Query string
	// ConditionIDs restricts results to these eBay condition ids. Empty means
	// no condition filter.
	ConditionIDs []string
	Kind         domain.ListingKind
	Limit        int
}

// Searcher finds comparable listings. Zero results is not an error.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) ([]domain.ComparableListing, error)
}

// Credential is an access token and the time it stops being valid.
type Credential struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenProvider defines the interface for obtaining OAuth2 tokens under the
// provider's configured scope.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ScopedTokenProvider hands out credentials for an explicit scope.
type ScopedTokenProvider interface {
	TokenProvider
	TokenFor(ctx context.Context, scope string) (Credential, error)
}
