// Package server wires the HTTP surface together.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"restaurant-api/internal/auth"
	"restaurant-api/internal/graph"
	"restaurant-api/internal/logger"
	"restaurant-api/internal/services/cart"
	"restaurant-api/internal/services/catalog"
	"restaurant-api/internal/services/order"
	"restaurant-api/internal/services/rating"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger   *logger.Logger
	Auth     auth.Store
	Throttle *auth.Throttle
	Catalog  *catalog.Handler
	Cart     *cart.Handler
	Orders   *order.Handler
	Ratings  *rating.Handler
	Groups   *auth.GroupsHandler
	GraphQL  *graph.Handler
	Health   http.HandlerFunc
}

// NewRouter builds the route table. Identity is attached on every request;
// the protected groups additionally reject anonymous callers.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(withLogging(d.Logger))
	r.Use(auth.Middleware(d.Auth))

	// Public reads; the handlers enforce the per-verb role rules.
	r.HandleFunc("/menu-items/", d.Catalog.MenuItems)
	r.HandleFunc("/menu-items/featured/", d.Catalog.Featured)
	r.HandleFunc("/menu-items/{id}/", d.Catalog.MenuItemDetail)
	r.HandleFunc("/categories/", d.Catalog.Categories)
	r.HandleFunc("/categories/{id}/", d.Catalog.CategoryDetail)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.HandleFunc("/cart-items/", d.Cart.CartItems)
		r.HandleFunc("/cart-items/checkout/", d.Cart.Checkout)
		r.HandleFunc("/cart-items/{id}/", d.Cart.CartItemDetail)
		r.HandleFunc("/orders/", d.Orders.Orders)
		r.HandleFunc("/orders/{id}/", d.Orders.OrderDetail)
		r.HandleFunc("/ratings/", d.Ratings.Ratings)
		r.HandleFunc("/groups/manager/users/", d.Groups.Managers)
		r.With(d.Throttle.Middleware).Get("/throttle-check-auth/", throttleCheck)
	})

	r.Post("/graphql", d.GraphQL.Query)
	r.Get("/health", d.Health)

	return r
}

// throttleCheck exists to exercise the per-user rate limit.
func throttleCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "message for the logged in users only"})
}

// withLogging logs every request and its outcome.
func withLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := logger.GenerateRequestID()

			log.Debug("request_started", r.Method+" "+r.URL.Path, requestID, map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			log.Debug("request_completed", r.Method+" "+r.URL.Path, requestID, map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

// responseWriter captures the status code for the completion log.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
