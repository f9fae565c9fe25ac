package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/themizzi/swaglabs-e2e/internal/config"
	"github.com/themizzi/swaglabs-e2e/internal/database"
	"github.com/themizzi/swaglabs-e2e/internal/handlers"
	"github.com/themizzi/swaglabs-e2e/internal/metrics"
	"github.com/themizzi/swaglabs-e2e/internal/models"
	"github.com/themizzi/swaglabs-e2e/internal/repository"
	"github.com/themizzi/swaglabs-e2e/internal/services"
	"go.uber.org/zap"
)

// ServerDependencies holds all dependencies needed for the server
type ServerDependencies struct {
	ServerConfig config.ServerConfig
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Sessions     *handlers.Sessions

	LoginHandler        http.Handler
	LogoutHandler       http.Handler
	InventoryHandler    http.Handler
	CartHandler         http.Handler
	CheckoutHandler     http.Handler
	OverviewHandler     http.Handler
	ConfirmationHandler http.Handler
	ImageHandler        http.Handler
	StaticHandler       http.Handler
	APIHandler          http.Handler
}

// BuildDependencies wires services and handlers over an open order store
func BuildDependencies(cfg config.ServerConfig, db *sql.DB, driver string, catalog *models.Catalog, logger *zap.Logger) (ServerDependencies, error) {
	deps := ServerDependencies{
		ServerConfig: cfg,
		Logger:       logger,
		Metrics:      metrics.New(),
	}

	// Create service layer
	orderService := services.NewOrderService(repository.NewOrderRepository(db, driver), catalog, logger)
	authService := services.NewAuthService(catalog, cfg.GlitchDelay, logger)
	deps.Sessions = handlers.NewSessions(authService, cfg.SessionTTL, logger)

	login, err := handlers.NewLoginHandler(catalog, authService, deps.Sessions, deps.Metrics, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create login handler: %w", err)
	}
	deps.LoginHandler = login

	inventory, err := handlers.NewInventoryHandler(catalog, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create inventory handler: %w", err)
	}
	deps.InventoryHandler = inventory

	cart, err := handlers.NewCartHandler(catalog, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create cart handler: %w", err)
	}
	deps.CartHandler = cart

	checkout, err := handlers.NewCheckoutHandler(catalog, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create checkout handler: %w", err)
	}
	deps.CheckoutHandler = checkout

	overview, err := handlers.NewOverviewHandler(catalog, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create overview handler: %w", err)
	}
	deps.OverviewHandler = overview

	confirmation, err := handlers.NewConfirmationHandler(orderService, deps.Metrics, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create confirmation handler: %w", err)
	}
	deps.ConfirmationHandler = confirmation

	deps.LogoutHandler = handlers.NewLogoutHandler(deps.Sessions)
	deps.ImageHandler = handlers.NewImageHandler(catalog)
	deps.StaticHandler = handlers.StaticHandler()
	deps.APIHandler = handlers.NewAPIHandler(catalog, authService, orderService, deps.Metrics, logger)

	return deps, nil
}

// NewRouter maps storefront routes to handlers. Shopping pages require a
// session; every route is instrumented.
func NewRouter(deps ServerDependencies) http.Handler {
	mux := http.NewServeMux()
	handle := func(route string, h http.Handler) {
		mux.Handle(route, deps.Metrics.Instrument(route, h))
	}
	protected := func(route string, h http.Handler) {
		handle(route, deps.Sessions.Require(h))
	}

	handle("/", deps.LoginHandler)
	handle("/logout", deps.LogoutHandler)
	protected("/inventory.html", deps.InventoryHandler)
	protected("/cart.html", deps.CartHandler)
	protected("/checkout-step-one.html", deps.CheckoutHandler)
	protected("/checkout-step-two.html", deps.OverviewHandler)
	protected("/checkout-complete.html", deps.ConfirmationHandler)
	handle("/static/media/", deps.ImageHandler)
	handle("/static/", deps.StaticHandler)
	handle("/api/", deps.APIHandler)
	mux.Handle("/metrics", deps.Metrics.Handler())
	return mux
}

// Storefront is a ready to serve storefront with its order store
type Storefront struct {
	Handler http.Handler
	Deps    ServerDependencies
	db      *sql.DB
}

// NewStorefront opens and migrates the order store, loads the catalog and
// builds the router
func NewStorefront(store *config.StoreConfig, server config.ServerConfig, logger *zap.Logger) (*Storefront, error) {
	catalog, err := models.LoadCatalog()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(store)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, store.Driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("order store ready", zap.String("driver", store.Driver))

	deps, err := BuildDependencies(server, db, store.Driver, catalog, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Storefront{Handler: NewRouter(deps), Deps: deps, db: db}, nil
}

// Close releases the order store
func (s *Storefront) Close() error {
	return s.db.Close()
}

// RunServe starts the storefront web server and blocks until it is signalled
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.Logger)
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If shutdown is nil, a channel is created and registered with signal.Notify.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, logger *zap.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, logger)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logger.Info("shutting down server", zap.Stringer("signal", sig))

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown timed out, closing", zap.Error(err))
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
