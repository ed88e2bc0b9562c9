package service

import (
	"context"

	"iwingmobile-store/models"
)

// CatalogServiceInterface defines the contract for catalog browsing
type CatalogServiceInterface interface {
	CatalogReader
	List(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error)
	Featured(ctx context.Context, productType models.ProductType, limit int) ([]models.Product, error)
	Categories(ctx context.Context, productType models.ProductType) ([]string, error)
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
