package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"iwingmobile-store/models"
	"iwingmobile-store/service"
)

// catalogPaths maps URL collection names to product types
var catalogPaths = map[string]models.ProductType{
	"phones":      models.ProductTypePhone,
	"accessories": models.ProductTypeAccessory,
}

// CatalogController handles HTTP requests for the catalog and its reviews
type CatalogController struct {
	catalog service.CatalogServiceInterface
	reviews service.ReviewServiceInterface
	log     *zap.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog service.CatalogServiceInterface, reviews service.ReviewServiceInterface, log *zap.Logger) *CatalogController {
	return &CatalogController{
		catalog: catalog,
		reviews: reviews,
		log:     log.With(zap.String("component", "catalog_controller")),
	}
}

// Catalog handles:
//
//	GET  /catalog/{phones|accessories}
//	GET  /catalog/{phones|accessories}/featured
//	GET  /catalog/{phones|accessories}/categories
//	GET  /catalog/{phones|accessories}/{id}
//	GET  /catalog/{phones|accessories}/{id}/reviews
//	POST /catalog/{phones|accessories}/{id}/reviews
//	GET  /catalog/{phones|accessories}/{id}/reviews/check?email=
func (c *CatalogController) Catalog(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/catalog"), "/"), "/")
	productType, ok := catalogPaths[parts[0]]
	if !ok || len(parts) > 4 {
		writeError(w, c.log, http.StatusNotFound, "Not found")
		return
	}
	for _, p := range parts[1:] {
		if p == "" {
			writeError(w, c.log, http.StatusNotFound, "Not found")
			return
		}
	}

	switch {
	case len(parts) == 1:
		c.onlyGet(w, r, "ListProducts", func() { c.list(w, r, productType) })
	case len(parts) == 2 && parts[1] == "featured":
		c.onlyGet(w, r, "Featured", func() { c.featured(w, r, productType) })
	case len(parts) == 2 && parts[1] == "categories":
		c.onlyGet(w, r, "Categories", func() { c.categories(w, r, productType) })
	case len(parts) == 2:
		c.onlyGet(w, r, "GetProduct", func() { c.get(w, r, productType, parts[1]) })
	case len(parts) == 3 && parts[2] == "reviews":
		switch r.Method {
		case http.MethodGet:
			c.listReviews(w, r, productType, parts[1])
		case http.MethodPost:
			c.submitReview(w, r, productType, parts[1])
		default:
			methodNotAllowed(w, c.log, r, "Reviews")
		}
	case len(parts) == 4 && parts[2] == "reviews" && parts[3] == "check":
		c.onlyGet(w, r, "CheckReview", func() { c.checkReview(w, r, productType, parts[1]) })
	default:
		writeError(w, c.log, http.StatusNotFound, "Not found")
	}
}

func (c *CatalogController) onlyGet(w http.ResponseWriter, r *http.Request, op string, handle func()) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, c.log, r, op)
		return
	}
	handle()
}

// list handles GET /catalog/{type}
// Query params: brand, category, featured, inStock, minPrice, maxPrice, search,
// sortBy (createdAt|price|name|rating), sortOrder (asc|desc), page, limit
func (c *CatalogController) list(w http.ResponseWriter, r *http.Request, productType models.ProductType) {
	filter, err := parseProductFilter(r.URL.Query())
	if err != nil {
		c.log.Warn("❌ ListProducts: Invalid query", zap.Error(err))
		writeError(w, c.log, http.StatusBadRequest, err.Error())
		return
	}
	filter.Type = productType

	page, err := c.catalog.List(r.Context(), filter)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}

	c.log.Debug("✅ ListProducts: Returning products",
		zap.String("type", string(productType)),
		zap.Int("count", len(page.Data)),
		zap.Int("total", page.Pagination.TotalItems))
	writeJSON(w, c.log, http.StatusOK, page)
}

func (c *CatalogController) featured(w http.ResponseWriter, r *http.Request, productType models.ProductType) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, c.log, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	products, err := c.catalog.Featured(r.Context(), productType, limit)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}

	writeJSON(w, c.log, http.StatusOK, models.ProductListResponse{Success: true, Data: products})
}

func (c *CatalogController) get(w http.ResponseWriter, r *http.Request, productType models.ProductType, id string) {
	product, err := c.catalog.GetProduct(r.Context(), productType, id)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}

	writeJSON(w, c.log, http.StatusOK, models.ProductResponse{Success: true, Data: *product})
}

func (c *CatalogController) categories(w http.ResponseWriter, r *http.Request, productType models.ProductType) {
	categories, err := c.catalog.Categories(r.Context(), productType)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}

	writeJSON(w, c.log, http.StatusOK, models.CategoryListResponse{Success: true, Data: categories})
}

func (c *CatalogController) listReviews(w http.ResponseWriter, r *http.Request, productType models.ProductType, id string) {
	reviews, err := c.reviews.List(r.Context(), productType, id)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}

	writeJSON(w, c.log, http.StatusOK, models.ReviewListResponse{Success: true, Data: reviews})
}

// submitReview handles POST /catalog/{type}/{id}/reviews.
// The review is stored as pending and is not listed until approved.
func (c *CatalogController) submitReview(w http.ResponseWriter, r *http.Request, productType models.ProductType, id string) {
	var req models.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.log.Warn("❌ SubmitReview: Failed to decode request body", zap.Error(err))
		writeError(w, c.log, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	c.log.Info("📥 SubmitReview: Received request",
		zap.String("type", string(productType)),
		zap.String("productId", id),
		zap.Int("rating", req.Rating))

	review, err := c.reviews.Submit(r.Context(), productType, id, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReview) {
			writeError(w, c.log, http.StatusBadRequest, err.Error())
			return
		}
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}

	writeJSON(w, c.log, http.StatusCreated, models.ReviewResponse{
		Success: true,
		Message: service.ReviewSubmittedMessage,
		Data:    review,
	})
}

func (c *CatalogController) checkReview(w http.ResponseWriter, r *http.Request, productType models.ProductType, id string) {
	has, err := c.reviews.HasReviewed(r.Context(), productType, id, r.URL.Query().Get("email"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidReview) {
			writeError(w, c.log, http.StatusBadRequest, "email query parameter is required")
			return
		}
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}

	var resp models.ReviewCheckResponse
	resp.Success = true
	resp.Data.HasReviewed = has
	writeJSON(w, c.log, http.StatusOK, resp)
}

// parseProductFilter reads listing filters from the query string.
// Empty parameters are treated as absent.
func parseProductFilter(q url.Values) (models.ProductFilter, error) {
	var filter models.ProductFilter

	if v := strings.TrimSpace(q.Get("brand")); v != "" {
		filter.Brand = &v
	}
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		filter.Category = &v
	}
	if v := strings.TrimSpace(q.Get("search")); v != "" {
		filter.Search = &v
	}

	var err error
	if filter.Featured, err = parseBoolParam(q, "featured"); err != nil {
		return filter, err
	}
	if filter.InStock, err = parseBoolParam(q, "inStock"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = parseFloatParam(q, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parseFloatParam(q, "maxPrice"); err != nil {
		return filter, err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return filter, fmt.Errorf("minPrice cannot be greater than maxPrice")
	}
	if filter.Page, err = parseIntParam(q, "page"); err != nil {
		return filter, err
	}
	if filter.Limit, err = parseIntParam(q, "limit"); err != nil {
		return filter, err
	}

	filter.SortBy = q.Get("sortBy")
	filter.SortOrder = q.Get("sortOrder")
	return filter, nil
}

func parseBoolParam(q url.Values, name string) (*bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", name)
	}
	return &v, nil
}

func parseFloatParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s must be a non-negative number", name)
	}
	return &v, nil
}

func parseIntParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}
