package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/vending-machine/docs"
	"github.com/rogerio-castellano/vending-machine/internal/http/handlers"
	mw "github.com/rogerio-castellano/vending-machine/internal/http/middleware"
	rl "github.com/rogerio-castellano/vending-machine/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires the API routes. A nil visitors disables per-client request
// limiting.
func NewRouter(visitors *rl.Visitors) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logging)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Group(func(r chi.Router) {
		if visitors != nil {
			r.Use(mw.RateLimit(visitors))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.GetProductsHandler)
			r.Post("/", handlers.CreateProductHandler)
			r.Post("/purchase", handlers.PurchaseHandler)
			r.Get("/purchases", handlers.GetPurchasesHandler)
			r.Get("/balance", handlers.GetBalanceHandler)
		})
		r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	})

	return r
}
