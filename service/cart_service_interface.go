package service

import (
	"context"

	"iwingmobile-store/cart"
	"iwingmobile-store/models"
)

// CartServiceInterface defines the contract for session cart operations
type CartServiceInterface interface {
	Cart(ctx context.Context, session string) models.CartResponse
	State(ctx context.Context, session string) cart.State
	// AddProduct adds one unit of a catalog product; a product already in the
	// cart has its quantity incremented instead
	AddProduct(ctx context.Context, session string, productType models.ProductType, productID string) (models.CartResponse, error)
	RemoveItem(ctx context.Context, session, id string) models.CartResponse
	// UpdateQuantity returns ErrItemNotInCart when the line is absent
	UpdateQuantity(ctx context.Context, session, id string, quantity int) (models.CartResponse, error)
	Clear(ctx context.Context, session string) models.CartResponse
	GetItem(ctx context.Context, session, id string) (models.CartItem, bool)
	Checkout(ctx context.Context, session string) (models.CheckoutResponse, error)
}

var _ CartServiceInterface = (*CartService)(nil)
