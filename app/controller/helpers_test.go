package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"

	"iwingmobile-store/cart"
	"iwingmobile-store/models"
	"iwingmobile-store/repository"
	"iwingmobile-store/service"
)

const (
	phoneID   = "2f1c6a9e-8a55-4a53-9d0e-0d8e7f3b1a01"
	caseID    = "7b3d0c44-1f0e-4e5b-9c52-6a2d8e9f4b02"
	soldOutID = "c9a1e2f3-4b5c-4d6e-8f70-81a2b3c4d503"
)

// fakeCatalog serves a fixed product set
type fakeCatalog struct {
	products   map[string]models.Product
	err        error
	lastFilter models.ProductFilter
	lastLimit  int
}

var _ service.CatalogServiceInterface = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]models.Product{
		phoneID:   {ID: phoneID, Type: models.ProductTypePhone, Name: "Galaxy S24", Brand: "Samsung", Price: 799.99, InStock: true},
		caseID:    {ID: caseID, Type: models.ProductTypeAccessory, Name: "Clear Case", Brand: "Spigen", Category: "Cases", Price: 19.5, InStock: true},
		soldOutID: {ID: soldOutID, Type: models.ProductTypeAccessory, Name: "MagSafe Wallet", Brand: "Apple", Category: "Wallets", Price: 59},
	}}
}

func (f *fakeCatalog) GetProduct(_ context.Context, productType models.ProductType, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !strings.Contains(id, "-") {
		return nil, repository.ErrInvalidProductID
	}
	p, ok := f.products[id]
	if !ok || p.Type != productType {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) List(_ context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	page := &models.ProductPage{Success: true, Data: []models.Product{}}
	for _, p := range f.products {
		if p.Type == filter.Type {
			page.Data = append(page.Data, p)
		}
	}
	page.Pagination = models.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: len(page.Data), ItemsPerPage: 10}
	return page, nil
}

func (f *fakeCatalog) Featured(_ context.Context, productType models.ProductType, limit int) ([]models.Product, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []models.Product{}, nil
}

func (f *fakeCatalog) Categories(_ context.Context, productType models.ProductType) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range f.products {
		if p.Type == productType && p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// fakeReviews keeps submitted reviews in memory behind the real review rules
type fakeReviews struct {
	catalog   service.CatalogReader
	submitted map[string]models.Review
}

var _ service.ReviewServiceInterface = (*fakeReviews)(nil)

func newFakeReviews(catalog service.CatalogReader) *fakeReviews {
	return &fakeReviews{catalog: catalog, submitted: map[string]models.Review{}}
}

func (f *fakeReviews) List(ctx context.Context, productType models.ProductType, id string) ([]models.Review, error) {
	if _, err := f.catalog.GetProduct(ctx, productType, id); err != nil {
		return nil, err
	}
	out := []models.Review{}
	for _, r := range f.submitted {
		if r.ProductID == id && r.Status == models.ReviewStatusApproved {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) Submit(ctx context.Context, productType models.ProductType, id string, req models.SubmitReviewRequest) (models.Review, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return models.Review{}, fmt.Errorf("%w: %v", service.ErrInvalidReview, err)
	}
	product, err := f.catalog.GetProduct(ctx, productType, id)
	if err != nil {
		return models.Review{}, err
	}
	key := id + "|" + req.UserEmail
	if _, ok := f.submitted[key]; ok {
		return models.Review{}, repository.ErrAlreadyReviewed
	}
	review := models.Review{
		ID: key, ProductID: id, ProductType: productType, ProductName: product.Name,
		Rating: req.Rating, Title: req.Title, Comment: req.Comment,
		UserName: req.UserName, UserEmail: req.UserEmail, Status: models.ReviewStatusPending,
	}
	f.submitted[key] = review
	return review, nil
}

func (f *fakeReviews) HasReviewed(ctx context.Context, productType models.ProductType, id, email string) (bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return false, service.ErrInvalidReview
	}
	if _, err := f.catalog.GetProduct(ctx, productType, id); err != nil {
		return false, err
	}
	_, ok := f.submitted[id+"|"+email]
	return ok, nil
}

// fakeSummary records what it was asked to render
type fakeSummary struct {
	rendered cart.State
	pdfErr   error
}

func (f *fakeSummary) RenderHTML(state cart.State) (string, error) {
	f.rendered = state
	return "<html><body>summary</body></html>", nil
}

func (f *fakeSummary) GeneratePDF(_ context.Context, state cart.State) ([]byte, error) {
	f.rendered = state
	if f.pdfErr != nil {
		return nil, f.pdfErr
	}
	return []byte("%PDF-1.4 fake"), nil
}

var errChromeMissing = errors.New("chrome not found")

type cartFixture struct {
	controller *CartController
	carts      *service.CartService
	summary    *fakeSummary
	session    string
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	carts := service.NewCartService(repository.NewMemorySlotRepository(), newFakeCatalog(), "iwingmobile-cart", zap.NewNop())
	summary := &fakeSummary{}
	return &cartFixture{
		controller: NewCartController(carts, summary, zap.NewNop()),
		carts:      carts,
		summary:    summary,
		session:    "6f9b2c1e-3d4a-4b5c-8d7e-9f0a1b2c3d4e",
	}
}

// do sends a request carrying the fixture's session header
func (f *cartFixture) do(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(SessionHeader, f.session)

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}
