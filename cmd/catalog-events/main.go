// Command catalog-events logs every product event published by the catalog
// API to RabbitMQ.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/config"
	"catalog/internal/models"
	"catalog/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(viper.New())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	if cfg.RabbitMQURL == "" {
		logger.Fatal().Msg("RABBITMQ_URL is required")
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
	}
	defer client.Close()

	if err := client.ConsumeProductEvents(logEvent(logger)); err != nil {
		logger.Fatal().Err(err).Msg("failed to start consuming product events")
	}
	logger.Info().Str("queue", cfg.RabbitMQQueue).Msg("waiting for product events")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info().Msg("shutting down event consumer")
}

func logEvent(logger zerolog.Logger) func(models.ProductEvent) error {
	return func(event models.ProductEvent) error {
		logger.Info().
			Str("event", string(event.Type)).
			Str("product_id", event.Product.ID).
			Str("name", event.Product.ProductName).
			Int64("barcode", event.Product.ProductBarcode).
			Time("occurred_at", event.OccurredAt).
			Msg("product event")
		return nil
	}
}
