package app

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/barstock/internal/config"
	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/modules/auth"
	"github.com/georgemunganga/barstock/internal/modules/catalog"
	"github.com/georgemunganga/barstock/internal/modules/order"
	"github.com/georgemunganga/barstock/internal/modules/requisition"
	"github.com/georgemunganga/barstock/internal/modules/supplier"
	"github.com/georgemunganga/barstock/internal/modules/user"
	"github.com/georgemunganga/barstock/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *config.Config
	DB      *sql.DB
	Metrics *observability.Metrics

	Authenticator      *auth.Authenticator
	AuthHandler        *auth.Handler
	UserHandler        *user.Handler
	SupplierHandler    *supplier.Handler
	CatalogHandler     *catalog.Handler
	OrderHandler       *order.Handler
	RequisitionHandler *requisition.Handler
}

// NewRouter mounts every API route behind the shared middleware stack.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := params.DB.PingContext(r.Context()); err != nil {
			params.Logger.Error("health check failed", slog.Any("error", err))
			httpx.Fail(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		httpx.OK(w, nil)
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(params.Authenticator.Middleware)

		params.AuthHandler.RegisterRoutes(r)
		params.CatalogHandler.RegisterRoutes(r)
		params.RequisitionHandler.RegisterRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.AdminOnly)
			params.SupplierHandler.RegisterAdminRoutes(r)
			params.CatalogHandler.RegisterAdminRoutes(r)
			params.RequisitionHandler.RegisterAdminRoutes(r)
			params.OrderHandler.RegisterAdminRoutes(r)
			params.UserHandler.RegisterAdminRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "not found")
	})
	return r
}
