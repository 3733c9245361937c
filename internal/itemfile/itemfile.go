// Package itemfile reads item attributes from YAML or JSON files.
package itemfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/resale-router/pkg/types"
)

// Read loads item attributes from path.
func Read(path string) (*domain.ItemAttributes, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading item file: %w", err)
	}
	return Parse(data)
}

// Parse decodes item attributes. YAML is decoded generically and re-encoded
// as JSON so both formats use the API's field names.
func Parse(data []byte) (*domain.ItemAttributes, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("parsing item file: %w", err)
	}
	if _, ok := generic.(map[string]any); !ok {
		return nil, errors.New("item file must contain a mapping")
	}

	raw, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("converting item file: %w", err)
	}

	var attrs domain.ItemAttributes
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("decoding item attributes: %w", err)
	}
	if attrs.Category == "" {
		return nil, errors.New("item category is required")
	}
	return &attrs, nil
}
