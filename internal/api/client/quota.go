package client

import (
	"context"

	"github.com/donaldgifford/resale-router/internal/ebay"
)

// Quota is the server's view of the eBay call budget.
type Quota struct {
	Local  *ebay.LimiterState `json:"local"`
	Remote *ebay.QuotaState   `json:"remote,omitempty"`
}

// GetQuota returns the current eBay API quota status.
func (c *Client) GetQuota(ctx context.Context) (*Quota, error) {
	var q Quota
	if err := c.get(ctx, "/api/v1/quota", &q); err != nil {
		return nil, err
	}
	return &q, nil
}
