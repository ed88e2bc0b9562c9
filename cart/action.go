package cart

import (
	"math"
	"strings"

	"iwingmobile-store/models"
)

// Action is one of AddItem, RemoveItem, UpdateQuantity or ClearCart.
// The set is closed: no other package can implement it.
type Action interface {
	action()
}

// AddItem adds one unit of Item. Item.Quantity is ignored.
type AddItem struct {
	Item models.CartItem
}

// RemoveItem removes the line with the given ID
type RemoveItem struct {
	ID string
}

// UpdateQuantity sets the quantity of a line; Quantity <= 0 removes it
type UpdateQuantity struct {
	ID       string
	Quantity int
}

// ClearCart removes every line
type ClearCart struct{}

func (AddItem) action()        {}
func (RemoveItem) action()     {}
func (UpdateQuantity) action() {}
func (ClearCart) action()      {}

// Reduce applies a to s and returns the resulting state.
// s is never modified; a nil action returns s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		return addItem(s, a.Item)
	case RemoveItem:
		return removeItem(s, a.ID)
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return removeItem(s, a.ID)
		}
		return updateQuantity(s, a.ID, a.Quantity)
	case ClearCart:
		return Empty()
	default:
		return s
	}
}

// addItem increments an existing line and keeps its original snapshot,
// or appends the payload with quantity 1.
func addItem(s State, item models.CartItem) State {
	if !validPayload(item) {
		return s
	}

	next := s.Clone()
	if i := next.indexOf(item.ID); i >= 0 {
		next.Items[i].Quantity++
		return next
	}

	item.Quantity = 1
	next.Items = append(next.Items, item)
	return next
}

func removeItem(s State, id string) State {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}

	items := make([]models.CartItem, 0, len(s.Items)-1)
	items = append(items, s.Items[:i]...)
	items = append(items, s.Items[i+1:]...)
	return State{Items: items}
}

func updateQuantity(s State, id string, quantity int) State {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}

	next := s.Clone()
	next.Items[i].Quantity = quantity
	return next
}

// validPayload rejects payloads that would break the cart invariants
func validPayload(item models.CartItem) bool {
	if strings.TrimSpace(item.ID) == "" {
		return false
	}
	if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
		return false
	}
	return true
}
