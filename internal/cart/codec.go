package cart

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed stored cart")

// Encode serializes line items only; the panel flag is session-local.
func Encode(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// Decode parses a stored cart. Anything that could not have been produced by
// Encode from a valid State is rejected as a whole.
func Decode(data []byte) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: not an array", ErrMalformed)
	}

	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("%w: item %d has no id", ErrMalformed, i)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %s has quantity %d", ErrMalformed, it.ID, it.Quantity)
		}
		if it.Quantity > it.StockQuantity {
			return nil, fmt.Errorf("%w: item %s has quantity %d over stock %d", ErrMalformed, it.ID, it.Quantity, it.StockQuantity)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item %s", ErrMalformed, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return items, nil
}
