package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the cart wire contract. /api/cart/products stays outside
// the auth group so anonymous devices can preview their local cart.
func NewRouter(handler *CartHandler, jwtSecret []byte, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Post("/products", handler.ResolveLines)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtSecret))
			r.Get("/", handler.GetCart)
			r.Post("/", handler.StoreLines)
			r.Get("/count", handler.GetCount)
			r.Delete("/items/{productID}/{variantID}", handler.RemoveLine)
			r.Put("/items/{productID}/{variantID}", handler.UpdateQuantity)
		})
	})

	return r
}
