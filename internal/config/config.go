// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// SQLiteDSNParams make concurrent writers wait for the lock instead of
// failing. Shared-cache mode must not be used: it reports "table is locked"
// without honouring the busy timeout.
const SQLiteDSNParams = "_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

// Config holds everything the catalog service reads at startup.
type Config struct {
	AppPort  string `mapstructure:"app_port"`
	LogLevel string `mapstructure:"log_level"`

	StoreDriver        string `mapstructure:"store_driver"`
	DatabaseDSN        string `mapstructure:"database_dsn"`
	MongoURI           string `mapstructure:"mongo_uri"`
	MongoDatabase      string `mapstructure:"mongo_database"`
	MongoCollection    string `mapstructure:"mongo_collection"`
	StoreUniqueBarcode bool   `mapstructure:"store_unique_barcode"`

	RabbitMQURL   string `mapstructure:"rabbitmq_url"`
	RabbitMQQueue string `mapstructure:"rabbitmq_queue"`

	CORSAllowOrigins string `mapstructure:"cors_allow_origins"`
	SeedDemoData     bool   `mapstructure:"seed_demo_data"`
}

// SetDefaults registers every key with its default value. AutomaticEnv only
// resolves keys viper already knows about, so each key needs one.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "file:catalog.db?"+SQLiteDSNParams)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "catalog")
	v.SetDefault("MONGO_COLLECTION", "products")
	v.SetDefault("STORE_UNIQUE_BARCODE", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("SEED_DEMO_DATA", false)
}

// Load reads the configuration from environment variables.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverMongo:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}
