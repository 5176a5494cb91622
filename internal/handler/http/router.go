package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mistvale/storefront/internal/auth"
	"github.com/mistvale/storefront/internal/domain"
	"github.com/mistvale/storefront/internal/service"
	"github.com/mistvale/storefront/pkg/health"
	"github.com/mistvale/storefront/pkg/middleware"
)

// Services bundles the application services the router exposes.
type Services struct {
	Catalog   *service.CatalogService
	Inventory *service.InventoryService
	Order     *service.OrderService
	Auth      *service.AuthService
	Affiliate *service.AffiliateService
	Message   *service.MessageService
	Homepage  *service.HomepageService
}

// NewRouter creates a chi router with all storefront and admin routes registered.
func NewRouter(
	services Services,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
	pprofAllowedCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Profiling endpoints, restricted by IP allowlist.
	middleware.RegisterPprof(r, pprofAllowedCIDRs, logger)

	productHandler := NewProductHandler(services.Catalog, logger)
	flavorHandler := NewFlavorHandler(services.Inventory, logger)
	orderHandler := NewOrderHandler(services.Order, logger)
	authHandler := NewAuthHandler(services.Auth, logger)
	affiliateHandler := NewAffiliateHandler(services.Affiliate, logger)
	messageHandler := NewMessageHandler(services.Message, logger)
	homepageHandler := NewHomepageHandler(services.Homepage, logger)

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	// Public storefront endpoints
	r.Route("/api/v1", func(r chi.Router) {
		// Catalog and homepage reads are safe to cache briefly at the edge.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(60))

			r.Get("/catalog", productHandler.ListCatalog)
			r.Get("/catalog/{idOrSlug}", productHandler.GetCatalogProduct)
			r.Get("/homepage/{key}", homepageHandler.GetSection)
		})
		r.Get("/affiliates/{code}", affiliateHandler.GetByCode)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/orders", orderHandler.PlaceOrder)
			r.Post("/contact", messageHandler.Submit)
			r.Post("/affiliates/apply", affiliateHandler.Apply)

			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.RefreshToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))

			r.Get("/auth/me", authHandler.Me)
		})

		// Admin back-office endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Get("/products", productHandler.ListProducts)
			r.Post("/products", productHandler.CreateProduct)
			r.Get("/products/{id}", productHandler.GetProduct)
			r.Put("/products/{id}", productHandler.UpdateProduct)
			r.Delete("/products/{id}", productHandler.DeleteProduct)

			r.Get("/products/{id}/flavors", flavorHandler.ListFlavors)
			r.Post("/products/{id}/flavors", flavorHandler.CreateFlavor)
			r.Get("/flavors/{id}", flavorHandler.GetFlavor)
			r.Put("/flavors/{id}", flavorHandler.UpdateFlavor)
			r.Delete("/flavors/{id}", flavorHandler.DeleteFlavor)
			r.Get("/inventory/low-stock", flavorHandler.ListLowStock)

			r.Get("/sales", orderHandler.ListSales)
			r.Get("/sales/{id}", orderHandler.GetSale)
			r.Put("/sales/{id}/status", orderHandler.UpdateSaleStatus)

			r.Get("/affiliates", affiliateHandler.ListAffiliates)
			r.Put("/affiliates/{id}/status", affiliateHandler.UpdateStatus)

			r.Get("/messages", messageHandler.ListMessages)
			r.Put("/messages/{id}/read", messageHandler.MarkRead)
			r.Delete("/messages/{id}", messageHandler.DeleteMessage)

			r.Get("/homepage", homepageHandler.ListSectionKeys)
			r.Put("/homepage/{key}", homepageHandler.UpsertSection)
		})
	})

	return r
}
