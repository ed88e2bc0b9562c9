package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"iwingmobile-store/app/controller"
)

type Controllers struct {
	Cart    *controller.CartController
	Catalog *controller.CatalogController
}

// pingHandler handles GET /ping and GET /health
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","service":"iwingmobile-store"}`))
}

// SetupRoutes registers every endpoint on mux
func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Health endpoints
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/health", pingHandler)

	// Cart routes
	// Get cart (GET) or clear it (DELETE)
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			controllers.Cart.ClearCart(w, r)
			return
		}
		controllers.Cart.GetCart(w, r)
	})

	// Clear cart
	mux.HandleFunc("/cart/clear", controllers.Cart.ClearCart)

	// Add a catalog product
	mux.HandleFunc("/cart/items", controllers.Cart.AddItem)

	// Line item by id - GET, PUT/PATCH (quantity), DELETE
	mux.HandleFunc("/cart/items/", controllers.Cart.Item)

	// Placeholder checkout
	mux.HandleFunc("/cart/checkout", controllers.Cart.Checkout)

	// Printable summary (html or pdf)
	mux.HandleFunc("/cart/summary", controllers.Cart.Summary)

	// Catalog routes
	// /catalog/{phones|accessories}, /catalog/{type}/featured, /catalog/{type}/categories,
	// /catalog/{type}/{id}, /catalog/{type}/{id}/reviews, /catalog/{type}/{id}/reviews/check
	mux.HandleFunc("/catalog/", controllers.Catalog.Catalog)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithRequestLogging logs one line per request
func WithRequestLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info("📥 Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
