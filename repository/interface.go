package repository

import (
	"context"
	"errors"

	"iwingmobile-store/models"
)

var (
	// ErrSlotNotFound is returned when no value is stored under a slot key
	ErrSlotNotFound = errors.New("slot not found")
	// ErrProductNotFound is returned when a product does not exist or is inactive
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProductID is returned when a product id is not a UUID
	ErrInvalidProductID = errors.New("invalid product id")
	// ErrAlreadyReviewed is returned when an email already reviewed a product
	ErrAlreadyReviewed = errors.New("product already reviewed by this user")
)

// SlotRepositoryInterface defines a durable key-value store of named slots.
// Writes are last-write-wins.
type SlotRepositoryInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ProductRepositoryInterface defines read-only catalog operations
type ProductRepositoryInterface interface {
	Filter(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	Featured(ctx context.Context, productType models.ProductType, limit int) ([]models.Product, error)
	GetByID(ctx context.Context, productType models.ProductType, id string) (*models.Product, error)
	Categories(ctx context.Context, productType models.ProductType) ([]string, error)
}

// ReviewRepositoryInterface defines product review storage
type ReviewRepositoryInterface interface {
	ListApproved(ctx context.Context, productID string) ([]models.Review, error)
	// Create stores a new review; a second review of one product by the same
	// email returns ErrAlreadyReviewed
	Create(ctx context.Context, review models.Review) error
	HasReviewed(ctx context.Context, productID, email string) (bool, error)
}
