package ebay

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// MarketplaceSearcher implements Searcher over the Browse API for active
// listings and, when configured, the Finding API for completed listings.
type MarketplaceSearcher struct {
	browse  *BrowseClient
	finding *FindingClient
}

// SearcherOption configures the MarketplaceSearcher.
type SearcherOption func(*MarketplaceSearcher)

// WithFindingClient enables completed-listing searches through f.
func WithFindingClient(f *FindingClient) SearcherOption {
	return func(s *MarketplaceSearcher) {
		s.finding = f
	}
}

// NewMarketplaceSearcher creates a searcher backed by browse.
func NewMarketplaceSearcher(browse *BrowseClient, opts ...SearcherOption) *MarketplaceSearcher {
	s := &MarketplaceSearcher{browse: browse}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search implements Searcher. Completed searches return
// ErrCompletedUnsupported when no Finding client is configured.
func (s *MarketplaceSearcher) Search(
	ctx context.Context,
	req SearchRequest,
) ([]domain.ComparableListing, error) {
	switch req.Kind {
	case domain.ListingCompleted:
		if s.finding == nil {
			return nil, ErrCompletedUnsupported
		}
		items, err := s.finding.FindCompleted(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("searching completed listings: %w", err)
		}
		return CompletedToListings(items), nil

	case domain.ListingActive, "":
		resp, err := s.browse.Search(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("searching active listings: %w", err)
		}
		return ToListings(resp.Items), nil

	default:
		return nil, fmt.Errorf("unknown listing kind %q", req.Kind)
	}
}
