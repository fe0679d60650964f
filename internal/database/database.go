// Package database opens the product store selected by configuration.
package database

import (
	"context"
	"fmt"

	"catalog/internal/config"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is an opened product repository and the function that releases it.
type Store struct {
	Products repositories.ProductRepository
	Close    func(ctx context.Context) error
}

// Open connects to the configured store driver and prepares it for use.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Store, error) {
	logger = logger.With().Str("component", "database").Str("driver", cfg.StoreDriver).Logger()

	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Info().Msg("using in-memory product store")
		return &Store{
			Products: repositories.NewMemoryProductRepository(cfg.StoreUniqueBarcode),
			Close:    func(context.Context) error { return nil },
		}, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		repo := repositories.NewGORMProductRepository(db)
		if cfg.StoreUniqueBarcode {
			if err := repo.EnsureUniqueBarcode(); err != nil {
				return nil, err
			}
		}
		logger.Info().Msg("connected to SQL product store")
		return &Store{
			Products: repo,
			Close: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case config.DriverMongo:
		client, err := OpenMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		repo := repositories.NewMongoProductRepository(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection))
		if cfg.StoreUniqueBarcode {
			if err := repo.EnsureUniqueBarcode(ctx); err != nil {
				_ = client.Disconnect(ctx)
				return nil, err
			}
		}
		logger.Info().Str("database", cfg.MongoDatabase).Str("collection", cfg.MongoCollection).
			Msg("connected to MongoDB product store")
		return &Store{Products: repo, Close: client.Disconnect}, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

// OpenGORM opens a SQLite or PostgreSQL database and migrates the product
// table. Driver errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey.
func OpenGORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return db, nil
}

// OpenMongo connects to MongoDB and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}
