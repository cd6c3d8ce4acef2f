package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/imagestore"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize image store with S3 and local fallback
	var images imagestore.Store
	if cfg.Images.S3Enabled {
		images, err = imagestore.NewS3Store(ctx, cfg.Images.Bucket, cfg.Images.Region, cfg.Images.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 image store, falling back to local file system")
			images, err = imagestore.NewLocalStore(cfg.Images.LocalDir, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize image store: %w", err)
			}
		}
	} else {
		images, err = imagestore.NewLocalStore(cfg.Images.LocalDir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize image store: %w", err)
		}
		logger.Info().Msg("using local file system for product images (S3 disabled)")
	}

	// Initialize services
	tokenTTL := time.Duration(cfg.Auth.TokenTTLMin) * time.Minute
	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, tokenTTL, logger)
	catalogService := service.NewCatalogService(productRepo, reviewRepo, images, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, userRepo, logger)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	vendorHandler := handler.NewVendorHandler(catalogService, orderService, logger)
	imageHandler := handler.NewImageHandler(images, logger)

	// Initialize router
	mux := router.New(
		authHandler,
		catalogHandler,
		cartHandler,
		orderHandler,
		vendorHandler,
		imageHandler,
		cfg.Auth.JWTSecret,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
