package ebay

// ItemSummary represents a single item from the eBay Browse API search response.
type ItemSummary struct {
	ItemID        string        `json:"itemId"`
	Title         string        `json:"title"`
	Price         ItemPrice     `json:"price"`
	ItemWebURL    string        `json:"itemWebUrl"`
	Seller        *ItemSeller   `json:"seller,omitempty"`
	Condition     string        `json:"condition"`
	ConditionID   string        `json:"conditionId"`
	BuyingOptions []string      `json:"buyingOptions"`
	ItemLocation  *ItemLocation `json:"itemLocation,omitempty"`
}

// ItemPrice holds eBay price information.
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemSeller holds eBay seller information.
type ItemSeller struct {
	Username string `json:"username"`
}

// ItemLocation holds the coarse location of an item.
type ItemLocation struct {
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}
