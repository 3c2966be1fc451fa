// Package server assembles the storefront HTTP host: routes, middleware and lifecycle.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/server/handlers"
	"github.com/iudanet/shopfront/internal/server/jwt"
	"github.com/iudanet/shopfront/internal/server/metrics"
	"github.com/iudanet/shopfront/internal/server/middleware"
	"github.com/iudanet/shopfront/internal/server/ws"
)

// Deps содержит сервисы, которые обслуживает HTTP слой
type Deps struct {
	Logger      *slog.Logger
	Users       auth.Authenticator
	Tokens      *jwt.Service
	Catalog     *catalog.Service
	Cart        *cart.Service
	Storefront  handlers.Storefront
	Hub         *ws.Hub
	Metrics     *metrics.Metrics
	AuthLimiter *middleware.RateLimiter
}

// NewRouter builds the /api/v1 route tree.
//
//	/api/v1/auth/*      public, rate limited
//	/api/v1/admin/*     admin only
//	/api/v1/products    customers only (storefront)
//	/api/v1/cart, /orders customers only
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RecoveryMiddleware(d.Logger))
	r.Use(middleware.LoggingWithSkip(d.Logger, []string{"/metrics", "/api/v1/health"}))
	r.Use(middleware.MetricsMiddleware(d.Metrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found","message":"route not found"}`))
	})

	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	healthHandler := handlers.NewHealthHandler(d.Logger, d.Storefront)
	authHandler := handlers.NewAuthHandler(d.Logger, d.Users, d.Tokens)
	catalogHandler := handlers.NewCatalogHandler(d.Logger, d.Catalog, d.Metrics)
	storefrontHandler := handlers.NewStorefrontHandler(d.Logger, d.Storefront)
	cartHandler := handlers.NewCartHandler(d.Logger, d.Cart, d.Storefront, d.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ws", d.Hub.ServeWS)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(d.Logger, d.Tokens))

			r.Route("/auth", func(r chi.Router) {
				// вошедший пользователь отправляется на свой домашний маршрут
				r.With(middleware.RequireRoute(d.Logger, auth.RouteRegister), d.AuthLimiter.Middleware).
					Post("/register", authHandler.Register)
				r.With(middleware.RequireRoute(d.Logger, auth.RouteLogin), d.AuthLimiter.Middleware).
					Post("/login", authHandler.Login)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
				r.Get("/gate", authHandler.Gate)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRoute(d.Logger, auth.RouteAdminDashboard))

				r.Route("/brands", func(r chi.Router) {
					r.Get("/", catalogHandler.ListBrands)
					r.Post("/", catalogHandler.CreateBrand)
					r.Get("/{id}", catalogHandler.GetBrand)
					r.Put("/{id}", catalogHandler.UpdateBrand)
					r.Delete("/{id}", catalogHandler.DeleteBrand)
				})
				r.Route("/partners", func(r chi.Router) {
					r.Get("/", catalogHandler.ListPartners)
					r.Post("/", catalogHandler.CreatePartner)
					r.Get("/{id}", catalogHandler.GetPartner)
					r.Put("/{id}", catalogHandler.UpdatePartner)
					r.Delete("/{id}", catalogHandler.DeletePartner)
				})
				r.Route("/collections", func(r chi.Router) {
					r.Get("/", catalogHandler.ListCollections)
					r.Post("/", catalogHandler.CreateCollection)
					r.Get("/{id}", catalogHandler.GetCollection)
					r.Put("/{id}", catalogHandler.UpdateCollection)
					r.Delete("/{id}", catalogHandler.DeleteCollection)
				})
				r.Route("/products", func(r chi.Router) {
					r.Get("/", catalogHandler.ListProducts)
					r.Post("/", catalogHandler.CreateProduct)
					r.Get("/export", catalogHandler.ExportProducts)
					r.Post("/import", catalogHandler.ImportProducts)
					r.Get("/{id}", catalogHandler.GetProduct)
					r.Put("/{id}", catalogHandler.UpdateProduct)
					r.Delete("/{id}", catalogHandler.DeleteProduct)
				})
				r.Get("/orphans", catalogHandler.Orphans)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoute(d.Logger, auth.RouteDashboard))

				r.Get("/products", storefrontHandler.List)
				r.Get("/products/{id}", storefrontHandler.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoute(d.Logger, auth.RouteCart))

				r.Get("/cart", cartHandler.Get)
				r.Post("/cart/items", cartHandler.Add)
				r.Put("/cart/items/{id}", cartHandler.UpdateQuantity)
				r.Delete("/cart/items/{id}", cartHandler.Remove)
				r.Post("/cart/items/{id}/toggle", cartHandler.Toggle)
				r.Post("/cart/selection", cartHandler.SelectAll)
				r.Delete("/cart/selection", cartHandler.ClearSelection)
				r.Get("/cart/checkout", cartHandler.Preview)
				r.Post("/orders", cartHandler.PlaceOrder)
				r.Get("/orders", cartHandler.Orders)
			})
		})
	})

	return r
}
