package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/recipebook/recipebook-go/internal/crypto"
	"github.com/recipebook/recipebook-go/internal/middleware"
	"github.com/recipebook/recipebook-go/internal/service"
)

// APIVersions lists the versions the API is mounted under, as /api/v{n}.
var APIVersions = []string{"1", "2"}

// RouterConfig collects what NewRouter needs to build the HTTP surface.
type RouterConfig struct {
	Recipes  *service.RecipeService
	Products *service.ProductService
	Auth     *service.AuthService
	Tokens   *crypto.TokenIssuer

	AuthRateRPS   float64
	AuthRateBurst int
}

// NewRouter builds the application router. ctx bounds background work
// started by the middleware.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	recipes := NewRecipeHandler(cfg.Recipes)
	products := NewProductHandler(cfg.Products)
	auth := NewAuthHandler(cfg.Auth)
	authLimit := middleware.RateLimit(ctx, cfg.AuthRateRPS, cfg.AuthRateBurst)

	api := chi.NewRouter()
	api.Group(func(r chi.Router) {
		r.Use(authLimit)
		r.Route("/UsersAuth", auth.Routes)
	})
	api.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.Tokens))
		r.Route("/Recipes", recipes.Routes)
		r.Route("/Products", products.Routes)
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, v := range APIVersions {
		r.Mount("/api/v"+v, api)
	}

	return r
}
