// Package app wires configuration, storage and modules into an HTTP server.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/georgemunganga/barstock/internal/config"
	"github.com/georgemunganga/barstock/internal/modules/auth"
	"github.com/georgemunganga/barstock/internal/modules/catalog"
	"github.com/georgemunganga/barstock/internal/modules/order"
	"github.com/georgemunganga/barstock/internal/modules/requisition"
	"github.com/georgemunganga/barstock/internal/modules/supplier"
	"github.com/georgemunganga/barstock/internal/modules/user"
	"github.com/georgemunganga/barstock/internal/observability"
)

// App is the assembled HTTP application.
type App struct {
	Handler http.Handler
	Metrics *observability.Metrics

	closeNotifier func()
}

// New builds every module on top of db. notifier may be nil, in which case
// one is chosen from cfg.
func New(cfg *config.Config, db *sql.DB, logger *slog.Logger, notifier requisition.Notifier) (*App, error) {
	metrics := observability.NewMetrics()
	closeNotifier := func() {}
	if notifier == nil {
		notifier, closeNotifier = NewNotifier(cfg, logger, metrics)
	}

	var sessions *auth.Sessions
	if cfg.SessionSecret != "" {
		var err error
		if sessions, err = auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL); err != nil {
			return nil, fmt.Errorf("app: sessions: %w", err)
		}
	}

	userRepo := user.NewSQLRepository(db)
	userService := user.NewService(userRepo)
	authenticator := auth.NewAuthenticator(cfg, userRepo, sessions, logger)

	supplierService := supplier.NewService(supplier.NewSQLRepository(db))
	catalogService := catalog.NewService(catalog.NewSQLRepository(db), supplierService)
	orderService := order.NewService(order.NewSQLRepository(db))
	requisitionService := requisition.NewService(requisition.NewSQLRepository(db), notifier, logger, metrics.RequisitionsCreated)

	handler := NewRouter(RouterParams{
		Logger:             logger,
		Config:             cfg,
		DB:                 db,
		Metrics:            metrics,
		Authenticator:      authenticator,
		AuthHandler:        auth.NewHandler(sessions, logger),
		UserHandler:        user.NewHandler(userService, logger),
		SupplierHandler:    supplier.NewHandler(supplierService, logger),
		CatalogHandler:     catalog.NewHandler(catalogService, logger),
		OrderHandler:       order.NewHandler(orderService, logger),
		RequisitionHandler: requisition.NewHandler(requisitionService, logger),
	})
	return &App{Handler: handler, Metrics: metrics, closeNotifier: closeNotifier}, nil
}

// Close waits for in-flight notifications and releases their resources.
func (a *App) Close() {
	a.closeNotifier()
}
