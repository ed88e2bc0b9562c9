package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"iwingmobile-store/models"
	"iwingmobile-store/service"
)

// CartController handles HTTP requests for the session cart
type CartController struct {
	carts   service.CartServiceInterface
	summary service.CartSummaryServiceInterface
	log     *zap.Logger
}

// NewCartController creates a new CartController
func NewCartController(
	carts service.CartServiceInterface,
	summary service.CartSummaryServiceInterface,
	log *zap.Logger,
) *CartController {
	return &CartController{
		carts:   carts,
		summary: summary,
		log:     log.With(zap.String("component", "cart_controller")),
	}
}

// GetCart handles GET /cart
// Example response:
// {"items": [...], "total": 350, "itemCount": 5, "formattedTotal": "$350.00"}
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, c.log, r, "GetCart")
		return
	}

	session := sessionID(w, r)
	writeJSON(w, c.log, http.StatusOK, c.carts.Cart(r.Context(), session))
}

// ClearCart handles DELETE /cart and POST /cart/clear
func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		methodNotAllowed(w, c.log, r, "ClearCart")
		return
	}

	session := sessionID(w, r)
	c.log.Info("📥 ClearCart: Received request", zap.String("session", session))

	writeJSON(w, c.log, http.StatusOK, c.carts.Clear(r.Context(), session))
}

// AddItem handles POST /cart/items
// Adds one unit of a catalog product to the cart
// Example request body:
// {"productId": "2f1c6a9e-8a55-4a53-9d0e-0d8e7f3b1a01", "type": "phone"}
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, c.log, r, "AddItem")
		return
	}

	session := sessionID(w, r)

	var req models.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.log.Warn("❌ AddItem: Failed to decode request body", zap.Error(err))
		writeError(w, c.log, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		writeError(w, c.log, http.StatusBadRequest, "productId is required")
		return
	}
	if !req.Type.Valid() {
		writeError(w, c.log, http.StatusBadRequest, "type must be 'phone' or 'accessory'")
		return
	}

	c.log.Info("📥 AddItem: Received request",
		zap.String("session", session),
		zap.String("productId", req.ProductID),
		zap.String("type", string(req.Type)))

	resp, err := c.carts.AddProduct(r.Context(), session, req.Type, req.ProductID)
	if err != nil {
		status, message := statusForError(err)
		c.log.Warn("❌ AddItem: Error adding product", zap.Error(err), zap.Int("status", status))
		writeError(w, c.log, status, message)
		return
	}

	writeJSON(w, c.log, http.StatusOK, resp)
}

// Item handles GET, PUT, PATCH and DELETE /cart/items/{id}
func (c *CartController) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/cart/items/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, c.log, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c.getItem(w, r, id)
	case http.MethodPut, http.MethodPatch:
		c.updateItem(w, r, id)
	case http.MethodDelete:
		c.removeItem(w, r, id)
	default:
		methodNotAllowed(w, c.log, r, "Item")
	}
}

func (c *CartController) getItem(w http.ResponseWriter, r *http.Request, id string) {
	session := sessionID(w, r)

	item, ok := c.carts.GetItem(r.Context(), session, id)
	if !ok {
		writeError(w, c.log, http.StatusNotFound, "Item not found in cart")
		return
	}
	writeJSON(w, c.log, http.StatusOK, item)
}

// updateItem sets the quantity of a line; quantity <= 0 removes it
// Example request body: {"quantity": 3}
func (c *CartController) updateItem(w http.ResponseWriter, r *http.Request, id string) {
	session := sessionID(w, r)

	var req models.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.log.Warn("❌ UpdateItem: Failed to decode request body", zap.Error(err))
		writeError(w, c.log, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Quantity == nil {
		writeError(w, c.log, http.StatusBadRequest, "quantity is required")
		return
	}

	c.log.Info("📥 UpdateItem: Received request",
		zap.String("session", session),
		zap.String("id", id),
		zap.Int("quantity", *req.Quantity))

	resp, err := c.carts.UpdateQuantity(r.Context(), session, id, *req.Quantity)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}
	writeJSON(w, c.log, http.StatusOK, resp)
}

// removeItem is idempotent: removing an absent line returns the unchanged cart
func (c *CartController) removeItem(w http.ResponseWriter, r *http.Request, id string) {
	session := sessionID(w, r)
	c.log.Info("📥 RemoveItem: Received request", zap.String("session", session), zap.String("id", id))

	writeJSON(w, c.log, http.StatusOK, c.carts.RemoveItem(r.Context(), session, id))
}

// Checkout handles POST /cart/checkout
// Payment is not implemented; the cart is left untouched.
// Example response:
// {"message": "Checkout functionality coming soon!", "total": 350, "itemCount": 5, "formattedTotal": "$350.00"}
func (c *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, c.log, r, "Checkout")
		return
	}

	session := sessionID(w, r)

	resp, err := c.carts.Checkout(r.Context(), session)
	if err != nil {
		status, message := statusForError(err)
		writeError(w, c.log, status, message)
		return
	}

	writeJSON(w, c.log, http.StatusAccepted, resp)
}

// Summary handles GET /cart/summary?format=html|pdf
func (c *CartController) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, c.log, r, "Summary")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	if format != "html" && format != "pdf" {
		writeError(w, c.log, http.StatusBadRequest, "format must be 'html' or 'pdf'")
		return
	}

	session := sessionID(w, r)
	state := c.carts.State(r.Context(), session)

	if format == "pdf" {
		pdf, err := c.summary.GeneratePDF(r.Context(), state)
		if err != nil {
			c.log.Error("❌ Summary: Error generating PDF", zap.Error(err))
			writeError(w, c.log, http.StatusInternalServerError, "Failed to generate PDF")
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="iwingmobile-cart.pdf"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdf); err != nil {
			c.log.Error("❌ Summary: Error writing PDF", zap.Error(err))
		}
		return
	}

	html, err := c.summary.RenderHTML(state)
	if err != nil {
		c.log.Error("❌ Summary: Error rendering HTML", zap.Error(err))
		writeError(w, c.log, http.StatusInternalServerError, "Failed to render summary")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		c.log.Error("❌ Summary: Error writing HTML", zap.Error(err))
	}
}
