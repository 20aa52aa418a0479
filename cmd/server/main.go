package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	authapp "github.com/ecomm/storefront/internal/application/auth"
	cartapp "github.com/ecomm/storefront/internal/application/cart"
	catalogapp "github.com/ecomm/storefront/internal/application/catalog"
	mediaapp "github.com/ecomm/storefront/internal/application/media"
	"github.com/ecomm/storefront/internal/application/session"
	"github.com/ecomm/storefront/internal/infrastructure/config"
	"github.com/ecomm/storefront/internal/infrastructure/gateway"
	"github.com/ecomm/storefront/internal/infrastructure/logger"
	"github.com/ecomm/storefront/internal/infrastructure/store"
	"github.com/ecomm/storefront/internal/interfaces/http/handler"
	"github.com/ecomm/storefront/internal/interfaces/http/router"
	"github.com/ecomm/storefront/internal/notify"
	"github.com/ecomm/storefront/internal/view"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Local state store for the session pair and the guest cart
	localStore, err := newStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize local store", zap.Error(err))
	}
	defer func() {
		if err := localStore.Close(); err != nil {
			log.Error("Error closing local store", zap.Error(err))
		}
	}()

	sessions := session.NewManager(localStore, log)

	// Outbound clients, one per backend service. All of them attach
	// the stored bearer token when a session exists.
	authToken := gateway.TokenSource(sessions.Token)
	customers := gateway.NewClient(cfg.Services.CustomerURL, cfg.Gateway.Timeout, log,
		gateway.WithTokenSource(authToken),
		gateway.WithMaxResponseSize(cfg.Gateway.MaxResponseSize))
	products := gateway.NewClient(cfg.Services.StorageURL, cfg.Gateway.Timeout, log,
		gateway.WithTokenSource(authToken),
		gateway.WithMaxResponseSize(cfg.Gateway.MaxResponseSize))
	mediaClient := gateway.NewClient(cfg.Services.MediaURL, cfg.Gateway.Timeout, log,
		gateway.WithMaxResponseSize(cfg.Gateway.MaxResponseSize))
	carts := gateway.NewClient(cfg.Services.CartURL, cfg.Gateway.Timeout, log,
		gateway.WithTokenSource(authToken),
		gateway.WithMaxResponseSize(cfg.Gateway.MaxResponseSize))

	// Shared UI state
	notifier := notify.NewCenter(cfg.Notify.DismissDelay)
	views := view.NewController(log)

	// Application services
	authSvc := authapp.NewService(customers, sessions, notifier, log)
	emailChecker := authapp.NewEmailChecker(customers, 0, log)
	catalogSvc := catalogapp.NewService(products, views, notifier, catalogapp.ContextConfirmer, log)
	cartSvc := cartapp.NewService(carts, products, sessions, localStore, log)
	mediaSvc := mediaapp.NewService(mediaClient, log)

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.RequestIDMiddleware())
	engine.Use(logger.GinMiddleware(log))

	router.NewRouter(engine).
		Register(handler.NewAuthHandler(authSvc, emailChecker, cartSvc, log)).
		Register(handler.NewProductHandler(catalogSvc, views, log)).
		Register(handler.NewCartHandler(cartSvc)).
		Register(handler.NewMediaHandler(mediaSvc)).
		Register(handler.NewUIHandler(views, notifier)).
		Register(handler.NewSystemHandler(catalogSvc)).
		Setup()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// newStore builds the configured local state backend
func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.Redis.Addr(),
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		return store.NewRedisStore(client, "storefront:"), nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return store.NewSQLiteStore(cfg.Session.SQLitePath)
	}
}
