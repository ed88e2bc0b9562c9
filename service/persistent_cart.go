package service

import (
	"context"
	"sync"

	"iwingmobile-store/cart"
	"iwingmobile-store/models"
)

// PersistentCart is a cart store that is hydrated from its slot once and
// written back after every mutation.
type PersistentCart struct {
	// mu orders saves the same way as dispatches
	mu          sync.Mutex
	store       *cart.Store
	persistence *CartPersistence
}

// NewPersistentCart loads the stored cart and returns a cart bound to it
func NewPersistentCart(ctx context.Context, persistence *CartPersistence) *PersistentCart {
	return &PersistentCart{
		store:       cart.NewStore(persistence.Load(ctx)),
		persistence: persistence,
	}
}

// dispatch applies a and saves the result. The new state is returned even
// when the write fails.
func (c *PersistentCart) dispatch(ctx context.Context, a cart.Action) cart.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(ctx, a)
}

// apply must be called with mu held
func (c *PersistentCart) apply(ctx context.Context, a cart.Action) cart.State {
	state := c.store.Dispatch(a)
	// the change is already live in memory, so the write must outlive a
	// client that hangs up mid-request
	c.persistence.Save(context.WithoutCancel(ctx), state)
	return state
}

// Subscribe registers l to run after every mutation, before the save
func (c *PersistentCart) Subscribe(l cart.Listener) {
	c.store.Subscribe(l)
}

func (c *PersistentCart) AddItem(ctx context.Context, item models.CartItem) cart.State {
	return c.dispatch(ctx, cart.AddItem{Item: item})
}

func (c *PersistentCart) RemoveItem(ctx context.Context, id string) cart.State {
	return c.dispatch(ctx, cart.RemoveItem{ID: id})
}

func (c *PersistentCart) UpdateQuantity(ctx context.Context, id string, quantity int) cart.State {
	return c.dispatch(ctx, cart.UpdateQuantity{ID: id, Quantity: quantity})
}

// UpdateExisting sets the quantity of a line already in the cart. It reports
// false, and changes nothing, when the line is absent.
func (c *PersistentCart) UpdateExisting(ctx context.Context, id string, quantity int) (cart.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.IsItemInCart(id) {
		return c.store.State(), false
	}
	return c.apply(ctx, cart.UpdateQuantity{ID: id, Quantity: quantity}), true
}

func (c *PersistentCart) Clear(ctx context.Context) cart.State {
	return c.dispatch(ctx, cart.ClearCart{})
}

func (c *PersistentCart) State() cart.State {
	return c.store.State()
}

func (c *PersistentCart) Total() float64 {
	return c.store.Total()
}

func (c *PersistentCart) ItemCount() int {
	return c.store.ItemCount()
}

func (c *PersistentCart) IsItemInCart(id string) bool {
	return c.store.IsItemInCart(id)
}

func (c *PersistentCart) GetItem(id string) (models.CartItem, bool) {
	return c.store.GetItem(id)
}

func (c *PersistentCart) ItemQuantity(id string) int {
	return c.store.ItemQuantity(id)
}
