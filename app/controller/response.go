package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"iwingmobile-store/models"
	"iwingmobile-store/repository"
	"iwingmobile-store/service"
)

// writeJSON encodes body with the given status
func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("❌ writeJSON: Error encoding response", zap.Error(err))
	}
}

// writeError sends {"success": false, "message": ...}
func writeError(w http.ResponseWriter, log *zap.Logger, status int, message string) {
	writeJSON(w, log, status, models.ErrorResponse{Success: false, Message: message})
}

// statusForError maps service and repository errors to an HTTP status and message
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrInvalidProductID):
		return http.StatusBadRequest, "Invalid product ID"
	case errors.Is(err, repository.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, service.ErrProductOutOfStock):
		return http.StatusConflict, "Product is out of stock"
	case errors.Is(err, service.ErrItemNotInCart):
		return http.StatusNotFound, "Item not found in cart"
	case errors.Is(err, repository.ErrAlreadyReviewed):
		return http.StatusConflict, "You have already reviewed this product"
	case errors.Is(err, service.ErrInvalidReview):
		return http.StatusBadRequest, "Invalid review"
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest, "Your cart is empty"
	case errors.Is(err, service.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, "Catalog is temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func methodNotAllowed(w http.ResponseWriter, log *zap.Logger, r *http.Request, op string) {
	log.Warn("❌ "+op+": Method not allowed", zap.String("method", r.Method))
	writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed")
}
