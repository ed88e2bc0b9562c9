package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"iwingmobile-store/models"
	"iwingmobile-store/repository"
)

const (
	defaultPage          = 1
	maxPage              = 100000
	defaultPageLimit     = 10
	maxPageLimit         = 100
	defaultFeaturedLimit = 6
)

// ErrCatalogUnavailable is returned when the catalog store cannot be reached
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CatalogReader is the part of the catalog the cart depends on
type CatalogReader interface {
	GetProduct(ctx context.Context, productType models.ProductType, id string) (*models.Product, error)
}

// CatalogService handles read-only catalog queries
type CatalogService struct {
	repository repository.ProductRepositoryInterface
	log        *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo repository.ProductRepositoryInterface, log *zap.Logger) *CatalogService {
	return &CatalogService{
		repository: repo,
		log:        log.With(zap.String("component", "catalog_service")),
	}
}

// normalizeFilter applies paging defaults and drops unknown sort options
func normalizeFilter(filter models.ProductFilter) models.ProductFilter {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	// keeps (page-1)*limit well inside int range for the OFFSET
	if filter.Page > maxPage {
		filter.Page = maxPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	filter.SortOrder = strings.ToLower(strings.TrimSpace(filter.SortOrder))
	if filter.SortOrder != "asc" {
		filter.SortOrder = "desc"
	}
	return filter
}

// totalPages returns ceil(total/limit)
func totalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// List returns one page of active products matching filter
func (s *CatalogService) List(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	if !filter.Type.Valid() {
		return nil, fmt.Errorf("unknown product type %q", filter.Type)
	}
	filter = normalizeFilter(filter)

	products, total, err := s.repository.Filter(ctx, filter)
	if err != nil {
		s.log.Error("❌ List: Error filtering products", zap.String("type", string(filter.Type)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if products == nil {
		products = []models.Product{}
	}

	return &models.ProductPage{
		Success: true,
		Data:    products,
		Pagination: models.Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages(total, filter.Limit),
			TotalItems:   total,
			ItemsPerPage: filter.Limit,
		},
	}, nil
}

// Featured returns featured in-stock products, newest first
func (s *CatalogService) Featured(ctx context.Context, productType models.ProductType, limit int) ([]models.Product, error) {
	if !productType.Valid() {
		return nil, fmt.Errorf("unknown product type %q", productType)
	}
	if limit < 1 {
		limit = defaultFeaturedLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	products, err := s.repository.Featured(ctx, productType, limit)
	if err != nil {
		s.log.Error("❌ Featured: Error fetching featured products", zap.String("type", string(productType)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Categories returns the distinct categories of active products of one type
func (s *CatalogService) Categories(ctx context.Context, productType models.ProductType) ([]string, error) {
	if !productType.Valid() {
		return nil, fmt.Errorf("unknown product type %q", productType)
	}

	categories, err := s.repository.Categories(ctx, productType)
	if err != nil {
		s.log.Error("❌ Categories: Error fetching categories", zap.String("type", string(productType)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// GetProduct returns one active product.
// Unknown ids return repository.ErrProductNotFound, malformed ids
// repository.ErrInvalidProductID.
func (s *CatalogService) GetProduct(ctx context.Context, productType models.ProductType, id string) (*models.Product, error) {
	if !productType.Valid() {
		return nil, fmt.Errorf("unknown product type %q", productType)
	}

	product, err := s.repository.GetByID(ctx, productType, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrInvalidProductID) {
			return nil, err
		}
		s.log.Error("❌ GetProduct: Error fetching product", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return product, nil
}
