package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	cartService "cameroonmark/internal/application/cart"
	catalogService "cameroonmark/internal/application/catalog"
	sessionService "cameroonmark/internal/application/session"
	"cameroonmark/internal/delivery/http/handler"
	"cameroonmark/internal/delivery/http/router"
	"cameroonmark/internal/domain/storage"
	"cameroonmark/internal/infrastructure/api"
	"cameroonmark/internal/infrastructure/config"
	"cameroonmark/internal/infrastructure/logger"
	"cameroonmark/internal/infrastructure/notifier"
	"cameroonmark/internal/infrastructure/repository"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	ctx := context.Background()

	// Durable storage
	store, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer store.Close()
	keys := storage.NewKeys(cfg.StoragePrefix)

	// Remote API client
	opts := []api.Option{
		api.WithTimeout(time.Duration(cfg.APITimeout) * time.Second),
		api.WithLogger(zl),
	}
	if cfg.TracingEnabled {
		opts = append(opts, api.WithTracing())
	}
	client := api.NewClient(cfg.APIBaseURL, opts...)

	// Stores
	notices := notifier.NewQueue(notifier.DefaultCapacity, zl)
	sessionSvc := sessionService.NewService(client, store, keys, zl)
	client.SetCredentials(sessionSvc)

	cartSvc := cartService.NewService(store, keys, notices, zl)
	cartSvc.Load(ctx)

	products, err := repository.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		zl.Fatal("failed to load catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}
	catalogSvc := catalogService.NewService(products)

	go func() {
		if err := sessionSvc.Rehydrate(ctx); err != nil {
			zl.Warn("stored session was not restored", zap.Error(err))
		}
	}()

	// Setup routes
	handlers := router.Handlers{
		Session: handler.NewSessionHandler(sessionSvc),
		Cart:    handler.NewCartHandler(cartSvc, catalogSvc, cfg.ShippingFee),
		Product: handler.NewProductHandler(catalogSvc),
		Notice:  handler.NewNoticeHandler(notices),
		Page:    handler.NewPageHandler(),
	}
	mux := router.Setup(handlers, sessionSvc, router.Options{
		AllowedOrigins: []string{cfg.FrontendURL},
		Logger:         zl,
	})

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	zl.Info("storefront server starting",
		zap.String("addr", addr),
		zap.String("api", cfg.APIBaseURL),
		zap.String("storage", cfg.StorageDriver),
		zap.String("env", cfg.Environment),
	)
	if err := http.ListenAndServe(addr, mux); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
