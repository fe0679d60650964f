package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/models"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Store ---
	store, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open product store")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("failed to close product store")
		}
	}()

	// --- Product events (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		events = mqClient
	}

	productService := services.NewProductService(store.Products, events, logger)
	if cfg.SeedDemoData {
		seedProducts(ctx, productService, logger)
	}

	app := server.New(productService, server.Options{CORSAllowOrigins: cfg.CORSAllowOrigins}, logger)

	go func() {
		logger.Info().Str("addr", cfg.AppPort).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Error().Err(err).Msg("server stopped listening")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}
	logger.Info().Msg("server gracefully stopped")
}

// seedProducts inserts a few demo products. Barcodes that already exist are
// reported and skipped by the service, so seeding twice is harmless.
func seedProducts(ctx context.Context, service *services.ProductService, logger zerolog.Logger) {
	products := []models.Product{
		{ProductName: "Wireless Mouse", ProductPrice: 799, ProductBarcode: 890100000001, ProductDescription: "Ergonomic 2.4 GHz mouse", ProductImage: "https://picsum.photos/seed/mouse/400", ProductCategory: "Electronics", ProductSKU: "ELEC-MOU-001"},
		{ProductName: "Cotton T-Shirt", ProductPrice: 499, ProductBarcode: 890100000002, ProductDescription: "Plain crew neck tee", ProductImage: "https://picsum.photos/seed/tshirt/400", ProductCategory: "Clothing", ProductSKU: "CLO-TSH-001"},
		{ProductName: "Go in Practice", ProductPrice: 1250, ProductBarcode: 890100000003, ProductDescription: "Paperback programming book", ProductImage: "https://picsum.photos/seed/book/400", ProductCategory: "Books", ProductSKU: "BOO-GIP-001"},
	}

	for _, product := range products {
		created, err := service.InsertProducts(ctx, []models.Product{product})
		if err != nil {
			logger.Warn().Err(err).Str("name", product.ProductName).Msg("skipped seeding product")
			continue
		}
		logger.Info().Str("name", created[0].ProductName).Str("id", created[0].ID).Msg("seeded product")
	}
}
