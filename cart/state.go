// Package cart holds the shopping cart state machine.
//
// A cart is a value (State) changed only through Reduce. Totals are derived
// from the line items every time they are read, so a State hydrated from a
// snapshot and a State built by replaying actions always agree.
package cart

import "iwingmobile-store/models"

// State is an ordered list of line items, unique by ID, each with quantity >= 1
type State struct {
	Items []models.CartItem
}

// Empty returns a cart with no items
func Empty() State {
	return State{Items: []models.CartItem{}}
}

// Total returns the sum of price * quantity over all items
func (s State) Total() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.LineTotal()
	}
	return total
}

// ItemCount returns the sum of quantities over all items
func (s State) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Len returns the number of distinct line items
func (s State) Len() int {
	return len(s.Items)
}

// Find returns the line item with the given id
func (s State) Find(id string) (models.CartItem, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Items[i], true
	}
	return models.CartItem{}, false
}

// Contains reports whether a line item with the given id exists
func (s State) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

// Quantity returns the quantity of the given id, or 0 if absent
func (s State) Quantity(id string) int {
	if i := s.indexOf(id); i >= 0 {
		return s.Items[i].Quantity
	}
	return 0
}

// Clone returns a deep copy that can be modified independently
func (s State) Clone() State {
	items := make([]models.CartItem, len(s.Items))
	copy(items, s.Items)
	for i := range items {
		if items[i].Images != nil {
			items[i].Images = append([]models.ProductImage(nil), items[i].Images...)
		}
		if items[i].InStock != nil {
			inStock := *items[i].InStock
			items[i].InStock = &inStock
		}
	}
	return State{Items: items}
}

func (s State) indexOf(id string) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}
