package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iwingmobile-store/models"
	"iwingmobile-store/service"
)

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) models.CartResponse {
	t.Helper()
	var resp models.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCartController_AddUpdateRemoveClear(t *testing.T) {
	f := newCartFixture(t)
	c := f.controller

	rec := f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+phoneID+`","type":"phone"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+caseID+`","type":"accessory"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+phoneID+`","type":"phone"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCart(t, rec)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, 3, resp.ItemCount)
	assert.Equal(t, "$1,619.48", resp.FormattedTotal)

	rec = f.do(t, c.Item, http.MethodPut, "/cart/items/"+caseID, `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decodeCart(t, rec).ItemCount)

	rec = f.do(t, c.Item, http.MethodGet, "/cart/items/"+caseID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var item models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, "Clear Case", item.Name)

	rec = f.do(t, c.Item, http.MethodPatch, "/cart/items/"+caseID, `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeCart(t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, phoneID, resp.Items[0].ID)

	rec = f.do(t, c.Item, http.MethodDelete, "/cart/items/"+phoneID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Items)

	f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+caseID+`","type":"accessory"}`)
	rec = f.do(t, c.ClearCart, http.MethodPost, "/cart/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeCart(t, rec)
	assert.Equal(t, 0, resp.ItemCount)
	assert.NotNil(t, resp.Items)
}

func TestCartController_AddItemErrors(t *testing.T) {
	f := newCartFixture(t)
	c := f.controller

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{"productId":`, http.StatusBadRequest},
		{"missing product id", `{"type":"phone"}`, http.StatusBadRequest},
		{"unknown type", `{"productId":"` + phoneID + `","type":"tablet"}`, http.StatusBadRequest},
		{"invalid id", `{"productId":"abc","type":"phone"}`, http.StatusBadRequest},
		{"wrong catalog", `{"productId":"` + phoneID + `","type":"accessory"}`, http.StatusNotFound},
		{"out of stock", `{"productId":"` + soldOutID + `","type":"accessory"}`, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, c.AddItem, http.MethodPost, "/cart/items", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, decodeError(t, rec).Success)
		})
	}

	rec := f.do(t, c.GetCart, http.MethodGet, "/cart", "")
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestCartController_UpdateItemErrors(t *testing.T) {
	f := newCartFixture(t)
	c := f.controller

	rec := f.do(t, c.Item, http.MethodPut, "/cart/items/"+phoneID, `{"quantity":2}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+phoneID+`","type":"phone"}`)

	rec = f.do(t, c.Item, http.MethodPut, "/cart/items/"+phoneID, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity is required", decodeError(t, rec).Message)

	rec = f.do(t, c.Item, http.MethodPut, "/cart/items/"+phoneID, `{"quantity":"two"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, c.Item, http.MethodPost, "/cart/items/"+phoneID, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	c.Item(rec, httptest.NewRequest(http.MethodGet, "/cart/items/a/b", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartController_RemoveMissingItemIsNoOp(t *testing.T) {
	f := newCartFixture(t)
	c := f.controller

	f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+phoneID+`","type":"phone"}`)
	rec := f.do(t, c.Item, http.MethodDelete, "/cart/items/does-not-exist", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeCart(t, rec).ItemCount)
}

func TestCartController_CheckoutPlaceholder(t *testing.T) {
	f := newCartFixture(t)
	c := f.controller

	rec := f.do(t, c.Checkout, http.MethodPost, "/cart/checkout", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+caseID+`","type":"accessory"}`)
	rec = f.do(t, c.Checkout, http.MethodPost, "/cart/checkout", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp models.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, service.CheckoutPlaceholderMessage, resp.Message)
	assert.Equal(t, "$19.50", resp.FormattedTotal)

	rec = f.do(t, c.GetCart, http.MethodGet, "/cart", "")
	assert.Equal(t, 1, decodeCart(t, rec).ItemCount)

	rec = f.do(t, c.Checkout, http.MethodGet, "/cart/checkout", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCartController_Summary(t *testing.T) {
	f := newCartFixture(t)
	c := f.controller
	f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+caseID+`","type":"accessory"}`)

	rec := f.do(t, c.Summary, http.MethodGet, "/cart/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, 1, f.summary.rendered.ItemCount())

	rec = f.do(t, c.Summary, http.MethodGet, "/cart/summary?format=pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "iwingmobile-cart.pdf")
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())

	rec = f.do(t, c.Summary, http.MethodGet, "/cart/summary?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.summary.pdfErr = errChromeMissing
	rec = f.do(t, c.Summary, http.MethodGet, "/cart/summary?format=pdf", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCartController_GetCartRejectsOtherMethods(t *testing.T) {
	f := newCartFixture(t)

	rec := f.do(t, f.controller.GetCart, http.MethodPost, "/cart", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

// racingCarts removes the line just before every quantity update, as a
// concurrent DELETE from another tab would
type racingCarts struct {
	*service.CartService
}

func (r racingCarts) UpdateQuantity(ctx context.Context, session, id string, quantity int) (models.CartResponse, error) {
	r.CartService.RemoveItem(ctx, session, id)
	return r.CartService.UpdateQuantity(ctx, session, id, quantity)
}

func TestCartController_UpdateOfConcurrentlyRemovedItemIsNotFound(t *testing.T) {
	f := newCartFixture(t)
	c := NewCartController(racingCarts{f.carts}, f.summary, zap.NewNop())

	rec := f.do(t, c.AddItem, http.MethodPost, "/cart/items", `{"productId":"`+phoneID+`","type":"phone"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, c.Item, http.MethodPut, "/cart/items/"+phoneID, `{"quantity":4}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Item not found in cart", decodeError(t, rec).Message)

	rec = f.do(t, c.GetCart, http.MethodGet, "/cart", "")
	assert.Empty(t, decodeCart(t, rec).Items)
}
