package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iwingmobile-store/models"
	"iwingmobile-store/repository"
)

// ReviewSubmittedMessage is returned once a review is stored for approval
const ReviewSubmittedMessage = "Review submitted and awaiting approval"

// ErrInvalidReview wraps review input that fails validation
var ErrInvalidReview = errors.New("invalid review")

// ReviewService lists and accepts product reviews. Approving reviews happens
// outside this service.
type ReviewService struct {
	reviews repository.ReviewRepositoryInterface
	catalog CatalogReader
	log     *zap.Logger
	now     func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews repository.ReviewRepositoryInterface, catalog CatalogReader, log *zap.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		catalog: catalog,
		log:     log.With(zap.String("component", "review_service")),
		now:     time.Now,
	}
}

// List returns a product's approved reviews, newest first
func (s *ReviewService) List(ctx context.Context, productType models.ProductType, productID string) ([]models.Review, error) {
	if _, err := s.catalog.GetProduct(ctx, productType, productID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListApproved(ctx, productID)
	if err != nil {
		s.log.Error("❌ List: Error fetching reviews", zap.String("productId", productID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// Submit validates req and stores it as a pending review of the product.
// Each email may review a product once.
func (s *ReviewService) Submit(ctx context.Context, productType models.ProductType, productID string, req models.SubmitReviewRequest) (models.Review, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return models.Review{}, fmt.Errorf("%w: %v", ErrInvalidReview, err)
	}

	product, err := s.catalog.GetProduct(ctx, productType, productID)
	if err != nil {
		return models.Review{}, err
	}

	now := s.now().UTC()
	review := models.Review{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		ProductType: product.Type,
		ProductName: product.Name,
		Rating:      req.Rating,
		Title:       req.Title,
		Comment:     req.Comment,
		UserName:    req.UserName,
		UserEmail:   req.UserEmail,
		Status:      models.ReviewStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrAlreadyReviewed) {
			return models.Review{}, err
		}
		s.log.Error("❌ Submit: Error storing review", zap.String("productId", productID), zap.Error(err))
		return models.Review{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	s.log.Info("✅ Submit: Review awaiting approval",
		zap.String("id", review.ID),
		zap.String("productId", review.ProductID),
		zap.Int("rating", review.Rating))
	return review, nil
}

// HasReviewed reports whether email has already reviewed the product
func (s *ReviewService) HasReviewed(ctx context.Context, productType models.ProductType, productID, email string) (bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return false, fmt.Errorf("%w: email is required", ErrInvalidReview)
	}
	if _, err := s.catalog.GetProduct(ctx, productType, productID); err != nil {
		return false, err
	}

	has, err := s.reviews.HasReviewed(ctx, productID, email)
	if err != nil {
		s.log.Error("❌ HasReviewed: Error checking review", zap.String("productId", productID), zap.Error(err))
		return false, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return has, nil
}
