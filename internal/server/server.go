// Package server boots the application: configuration, datastores, queue
// workers, the WebSocket hub, and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shoestop/backend/app/controllers"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/app/routes"
	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/config"
	"github.com/shoestop/backend/internal/database"
	"github.com/shoestop/backend/pkg/cache"
	"github.com/shoestop/backend/pkg/logger"
	"github.com/shoestop/backend/pkg/queue"
	"github.com/shoestop/backend/pkg/router"
	"github.com/shoestop/backend/pkg/storage"
	"github.com/shoestop/backend/pkg/ws"
)

const queueWorkers = 4

// Start runs the full application until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelBoot()

	if err := database.Connect(bootCtx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	if err := database.EnsureIndexes(bootCtx); err != nil {
		return err
	}

	var mongoLogs *logger.MongoHandler
	if config.MongoLogEnabled() {
		mongoLogs = logger.NewMongoHandler(database.Collection(database.ColLogs))
		logger.Attach(mongoLogs)
		defer mongoLogs.Close()
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, continuing without redis", "error", err)
	}
	storage.Connect()

	// Queue: redis-backed when the cache is up, in-memory otherwise.
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	} else {
		queue.SetDriver(queue.NewMemoryDriver())
	}
	queue.UseCollection(database.Collection(database.ColFailedJobs))
	services.RegisterJobs()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(runCtx, queueWorkers)

	hub := ws.NewHub()
	go hub.Run()

	r := router.New()
	routes.RegisterAPI(r, buildControllers(hub), hub)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-runCtx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildControllers wires repositories, services and controllers.
func buildControllers(hub *ws.Hub) routes.Controllers {
	userRepo := repositories.NewUserRepository()
	productRepo := repositories.NewProductRepository()
	trendingRepo := repositories.NewTrendingRepository()
	mostSalesRepo := repositories.NewMostSalesRepository()
	featureRepo := repositories.NewFeatureRepository()
	cartRepo := repositories.NewCartRepository()
	orderRepo := repositories.NewOrderRepository()

	txn := services.TxnRunner(database.WithTransaction)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	trendingService := services.NewTrendingService(trendingRepo)
	mostSalesService := services.NewMostSalesService(mostSalesRepo)
	featureService := services.NewFeatureService(featureRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	checkoutService := services.NewCheckoutService(productRepo, cartRepo, orderRepo, txn, hub)
	orderService := services.NewOrderService(orderRepo, productRepo, userRepo, txn, hub)

	return routes.Controllers{
		Auth:      controllers.NewAuthController(authService),
		Users:     controllers.NewUserController(userService),
		Products:  controllers.NewProductController(productService),
		Trending:  controllers.NewBannerController(trendingService, "trending"),
		MostSales: controllers.NewBannerController(mostSalesService, "mostsales"),
		Features:  controllers.NewFeatureController(featureService),
		Cart:      controllers.NewCartController(cartService),
		Orders:    controllers.NewOrderController(checkoutService, orderService, userRepo),
	}
}

// BuildRouter wires the full route table without starting the listener.
// Used by the route:list command; requires a connected database.
func BuildRouter() *router.Router {
	hub := ws.NewHub()
	r := router.New()
	routes.RegisterAPI(r, buildControllers(hub), hub)
	return r
}
