package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iwingmobile-store/models"
	"iwingmobile-store/service"
)

func getCatalog(t *testing.T, c *CatalogController, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Catalog(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestCatalogController_List(t *testing.T) {
	catalog := newFakeCatalog()
	c := NewCatalogController(catalog, newFakeReviews(catalog), zap.NewNop())

	rec := getCatalog(t, c, "/catalog/accessories?brand=Spigen&inStock=true&minPrice=5&maxPrice=50&sortBy=price&sortOrder=asc&page=2&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.ProductPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.True(t, page.Success)
	assert.Len(t, page.Data, 2)

	f := catalog.lastFilter
	assert.Equal(t, models.ProductTypeAccessory, f.Type)
	require.NotNil(t, f.Brand)
	assert.Equal(t, "Spigen", *f.Brand)
	require.NotNil(t, f.InStock)
	assert.True(t, *f.InStock)
	assert.Equal(t, 5.0, *f.MinPrice)
	assert.Equal(t, 50.0, *f.MaxPrice)
	assert.Nil(t, f.Featured)
	assert.Equal(t, "price", f.SortBy)
	assert.Equal(t, "asc", f.SortOrder)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 5, f.Limit)
}

func TestCatalogController_FeaturedAndGet(t *testing.T) {
	catalog := newFakeCatalog()
	c := NewCatalogController(catalog, newFakeReviews(catalog), zap.NewNop())

	rec := getCatalog(t, c, "/catalog/phones/featured?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, catalog.lastLimit)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())

	rec = getCatalog(t, c, "/catalog/phones/"+phoneID)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Galaxy S24", resp.Data["name"])
	assert.Contains(t, resp.Data, "discountPercentage")
}

func TestCatalogController_Errors(t *testing.T) {
	catalog := newFakeCatalog()
	c := NewCatalogController(catalog, newFakeReviews(catalog), zap.NewNop())

	assert.Equal(t, http.StatusNotFound, getCatalog(t, c, "/catalog/tablets").Code)
	assert.Equal(t, http.StatusNotFound, getCatalog(t, c, "/catalog/").Code)
	assert.Equal(t, http.StatusNotFound, getCatalog(t, c, "/catalog/phones/a/b").Code)
	assert.Equal(t, http.StatusBadRequest, getCatalog(t, c, "/catalog/phones/not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, getCatalog(t, c, "/catalog/accessories/"+phoneID).Code)
	assert.Equal(t, http.StatusBadRequest, getCatalog(t, c, "/catalog/phones?page=first").Code)
	assert.Equal(t, http.StatusBadRequest, getCatalog(t, c, "/catalog/phones/featured?limit=x").Code)

	rec := httptest.NewRecorder()
	c.Catalog(rec, httptest.NewRequest(http.MethodPost, "/catalog/phones", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	catalog.err = errors.Join(service.ErrCatalogUnavailable, errors.New("connection refused"))
	rec = getCatalog(t, c, "/catalog/phones")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Catalog is temporarily unavailable"}`, rec.Body.String())
}

func TestCatalogController_Categories(t *testing.T) {
	catalog := newFakeCatalog()
	c := NewCatalogController(catalog, newFakeReviews(catalog), zap.NewNop())

	rec := getCatalog(t, c, "/catalog/accessories/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":["Cases","Wallets"]}`, rec.Body.String())

	rec = getCatalog(t, c, "/catalog/phones/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c.Catalog(rec, httptest.NewRequest(http.MethodPost, "/catalog/phones/categories", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCatalogController_Reviews(t *testing.T) {
	catalog := newFakeCatalog()
	reviews := newFakeReviews(catalog)
	c := NewCatalogController(catalog, reviews, zap.NewNop())
	target := "/catalog/accessories/" + caseID + "/reviews"

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c.Catalog(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
		return rec
	}

	rec := post(`{"rating":5,"title":"Snug fit","comment":"Buttons still click","userName":"Ana","userEmail":"ana@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.ReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, service.ReviewSubmittedMessage, created.Message)
	assert.Equal(t, models.ReviewStatusPending, created.Data.Status)

	rec = post(`{"rating":4,"title":"Again","comment":"Second try","userName":"Ana","userEmail":"ANA@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(`{"rating":9,"title":"x","comment":"y","userName":"z","userEmail":"z@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rating must be between 1 and 5")

	rec = post(`{"rating":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// pending reviews stay hidden
	rec = getCatalog(t, c, target)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())

	rec = getCatalog(t, c, target+"/check?email=Ana@Example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"hasReviewed":true}}`, rec.Body.String())

	rec = getCatalog(t, c, target+"/check")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNotFound, getCatalog(t, c, "/catalog/phones/"+caseID+"/reviews").Code)
	assert.Equal(t, http.StatusNotFound, getCatalog(t, c, target+"/other").Code)
	assert.Equal(t, http.StatusNotFound, getCatalog(t, c, target+"/check/more").Code)

	rec = httptest.NewRecorder()
	c.Catalog(rec, httptest.NewRequest(http.MethodDelete, target, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParseProductFilter(t *testing.T) {
	t.Run("empty values are absent", func(t *testing.T) {
		f, err := parseProductFilter(url.Values{"brand": {" "}, "featured": {""}})
		require.NoError(t, err)
		assert.Nil(t, f.Brand)
		assert.Nil(t, f.Featured)
		assert.Zero(t, f.Page)
	})

	t.Run("search and category", func(t *testing.T) {
		f, err := parseProductFilter(url.Values{"search": {"pro max"}, "category": {"smartphone"}, "featured": {"1"}})
		require.NoError(t, err)
		assert.Equal(t, "pro max", *f.Search)
		assert.Equal(t, "smartphone", *f.Category)
		assert.True(t, *f.Featured)
	})

	invalid := []url.Values{
		{"featured": {"yes please"}},
		{"inStock": {"maybe"}},
		{"minPrice": {"-1"}},
		{"maxPrice": {"NaN"}},
		{"minPrice": {"100"}, "maxPrice": {"10"}},
		{"limit": {"ten"}},
	}
	for _, q := range invalid {
		_, err := parseProductFilter(q)
		assert.Error(t, err, "query %v", q)
	}
}
