package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"iwingmobile-store/models"
)

// ErrCorruptSnapshot is returned when a stored snapshot is not a valid cart
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// storedSnapshot accepts both the normalized {"items"} shape and the older
// {"items","total","itemCount"} shape. Stored totals are never trusted.
type storedSnapshot struct {
	Items     *[]models.CartItem `json:"items"`
	Total     *float64           `json:"total,omitempty"`
	ItemCount *int               `json:"itemCount,omitempty"`
}

// Encode serializes s in the normalized snapshot shape
func Encode(s State) ([]byte, error) {
	items := s.Items
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(models.CartSnapshot{Items: items})
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot written by Encode or by the older denormalized format.
// Any shape or invariant violation yields ErrCorruptSnapshot.
func Decode(data []byte) (State, error) {
	var stored storedSnapshot
	if err := json.Unmarshal(data, &stored); err != nil {
		return Empty(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if stored.Items == nil {
		return Empty(), fmt.Errorf("%w: missing items", ErrCorruptSnapshot)
	}

	seen := make(map[string]struct{}, len(*stored.Items))
	items := make([]models.CartItem, 0, len(*stored.Items))
	for i, item := range *stored.Items {
		if strings.TrimSpace(item.ID) == "" {
			return Empty(), fmt.Errorf("%w: item %d has no id", ErrCorruptSnapshot, i)
		}
		if _, dup := seen[item.ID]; dup {
			return Empty(), fmt.Errorf("%w: duplicate item id %q", ErrCorruptSnapshot, item.ID)
		}
		if item.Quantity < 1 {
			return Empty(), fmt.Errorf("%w: item %q has quantity %d", ErrCorruptSnapshot, item.ID, item.Quantity)
		}
		if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			return Empty(), fmt.Errorf("%w: item %q has invalid price", ErrCorruptSnapshot, item.ID)
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}

	return State{Items: items}, nil
}
