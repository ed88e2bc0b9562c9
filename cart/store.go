package cart

import (
	"sync"

	"iwingmobile-store/models"
)

// Listener is called with the new state after every dispatched action
type Listener func(State)

// Store holds the current cart state for one owner
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []Listener
}

// NewStore creates a store starting from initial
func NewStore(initial State) *Store {
	if initial.Items == nil {
		initial = Empty()
	}
	return &Store{state: initial}
}

// Subscribe registers l to run after every dispatch
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Dispatch applies a and notifies listeners in registration order.
// Listeners run while the store is locked so they observe states in the order
// the actions were applied; they must not call back into the store or modify
// the state they are given.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	for _, l := range s.listeners {
		l(s.state)
	}
	return s.state.Clone()
}

func (s *Store) AddItem(item models.CartItem) State {
	return s.Dispatch(AddItem{Item: item})
}

func (s *Store) RemoveItem(id string) State {
	return s.Dispatch(RemoveItem{ID: id})
}

func (s *Store) UpdateQuantity(id string, quantity int) State {
	return s.Dispatch(UpdateQuantity{ID: id, Quantity: quantity})
}

func (s *Store) Clear() State {
	return s.Dispatch(ClearCart{})
}

// State returns a copy of the current state; changing it does not affect the store
func (s *Store) State() State {
	return s.current().Clone()
}

// current returns the live state for read-only queries
func (s *Store) current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Total() float64 {
	return s.current().Total()
}

func (s *Store) ItemCount() int {
	return s.current().ItemCount()
}

func (s *Store) IsItemInCart(id string) bool {
	return s.current().Contains(id)
}

func (s *Store) GetItem(id string) (models.CartItem, bool) {
	item, ok := s.current().Find(id)
	if ok {
		item.Images = append([]models.ProductImage(nil), item.Images...)
	}
	return item, ok
}

func (s *Store) ItemQuantity(id string) int {
	return s.current().Quantity(id)
}
