package service

import (
	"context"

	"iwingmobile-store/models"
)

// ReviewServiceInterface defines the contract for product reviews
type ReviewServiceInterface interface {
	List(ctx context.Context, productType models.ProductType, productID string) ([]models.Review, error)
	Submit(ctx context.Context, productType models.ProductType, productID string, req models.SubmitReviewRequest) (models.Review, error)
	HasReviewed(ctx context.Context, productType models.ProductType, productID, email string) (bool, error)
}

var _ ReviewServiceInterface = (*ReviewService)(nil)
