package models

import (
	"encoding/json"
	"math"
	"time"
)

// Product represents a phone or accessory in the catalog
type Product struct {
	ID            string         `json:"id"`
	Type          ProductType    `json:"type"`
	Name          string         `json:"name"`
	Brand         string         `json:"brand"`
	Model         string         `json:"model,omitempty"`
	Category      string         `json:"category"`
	Subcategory   string         `json:"subcategory,omitempty"`
	Price         float64        `json:"price"`
	OriginalPrice float64        `json:"originalPrice,omitempty"`
	Description   string         `json:"description"`
	Images        []ProductImage `json:"images"`
	InStock       bool           `json:"inStock"`
	StockQuantity int            `json:"stockQuantity"`
	Featured      bool           `json:"featured"`
	RatingAverage float64        `json:"ratingAverage"`
	RatingCount   int            `json:"ratingCount"`
	Tags          []string       `json:"tags,omitempty"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// PrimaryImage returns the image flagged as primary, falling back to the first image
func (p Product) PrimaryImage() (ProductImage, bool) {
	return primaryImage(p.Images)
}

// DiscountPercentage returns the rounded discount against OriginalPrice, or 0
func (p Product) DiscountPercentage() int {
	if p.OriginalPrice > 0 && p.OriginalPrice > p.Price {
		return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
	}
	return 0
}

// MarshalJSON adds the derived primaryImage and discountPercentage fields
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	out := struct {
		product
		PrimaryImage       *ProductImage `json:"primaryImage,omitempty"`
		DiscountPercentage int           `json:"discountPercentage"`
	}{
		product:            product(p),
		DiscountPercentage: p.DiscountPercentage(),
	}
	if img, ok := p.PrimaryImage(); ok {
		out.PrimaryImage = &img
	}
	return json.Marshal(out)
}

// ToCartItem snapshots the product into an add-to-cart payload.
// Quantity is left at zero; the cart decides it.
func (p Product) ToCartItem() CartItem {
	inStock := p.InStock
	images := make([]ProductImage, len(p.Images))
	copy(images, p.Images)
	return CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Price:    p.Price,
		Images:   images,
		InStock:  &inStock,
		Category: p.Category,
		Type:     p.Type,
	}
}

// ProductFilter represents optional filter parameters for catalog listings
type ProductFilter struct {
	Type      ProductType
	Brand     *string
	Category  *string
	Featured  *bool
	InStock   *bool
	MinPrice  *float64
	MaxPrice  *float64
	Search    *string
	SortBy    string // createdAt, price, name, rating
	SortOrder string // asc, desc
	Page      int
	Limit     int
}

// Pagination describes the page returned by a catalog listing
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// ProductPage represents a page of catalog results
// Example response:
// {
//   "success": true,
//   "data": [{"id": "...", "type": "phone", "name": "iPhone 15", ...}],
//   "pagination": {"currentPage": 1, "totalPages": 3, "totalItems": 25, "itemsPerPage": 10}
// }
type ProductPage struct {
	Success    bool       `json:"success"`
	Data       []Product  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ProductResponse wraps a single product
type ProductResponse struct {
	Success bool    `json:"success"`
	Data    Product `json:"data"`
}

// ProductListResponse wraps an unpaged product list
type ProductListResponse struct {
	Success bool      `json:"success"`
	Data    []Product `json:"data"`
}

// CategoryListResponse lists the distinct categories of active products
// Example response: {"success": true, "data": ["case", "charger", "screen-protector"]}
type CategoryListResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
}
