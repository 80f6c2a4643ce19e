package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config holds every setting the bakery backend reads from the environment.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	GinMode  string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"bakery.db"`

	JWTSecret     string `envconfig:"JWT_SECRET"`
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	CartStore string        `envconfig:"CART_STORE" default:"memory"`
	RedisURL  string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	CartTTL   time.Duration `envconfig:"CART_TTL" default:"24h"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"local"`
	UploadDir     string `envconfig:"UPLOAD_DIR" default:"public/uploads"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	GCSBucket     string `envconfig:"GCS_BUCKET"`

	StoreName           string `envconfig:"STORE_NAME" default:"Liz Verdan Confeitaria"`
	WhatsAppHost        string `envconfig:"WHATSAPP_HOST" default:"wa.me"`
	WhatsAppNumber      string `envconfig:"WHATSAPP_NUMBER" default:"5522998602746"`
	WhatsAppCountryCode string `envconfig:"WHATSAPP_COUNTRY_CODE" default:"55"`
	PickupInfo          string `envconfig:"STORE_PICKUP_INFO" default:"Estr. dos Passageiros, 2915 - São João, São Pedro da Aldeia - RJ, 28942-444, Brasil"`
	Instagram           string `envconfig:"STORE_INSTAGRAM" default:"@lizverdanconfeitaria"`
	TimeZone            string `envconfig:"STORE_TIMEZONE" default:"America/Sao_Paulo"`

	CORSOrigin     string `envconfig:"CORS_ORIGIN" default:"*"`
	TracingEnabled bool   `envconfig:"TRACING_ENABLED" default:"false"`
	ServiceName    string `envconfig:"SERVICE_NAME" default:"bakery-app"`
}

// Load reads .env (when present) and then the process environment.
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Warning: .env file not found, using environment variables or defaults")
		} else {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		}
	} else {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: port=%s db_driver=%s cart_store=%s storage=%s",
		cfg.Port, cfg.DBDriver, cfg.CartStore, cfg.StorageDriver)
	if cfg.JWTSecret == "" {
		logger.Warn("Warning: JWT_SECRET not set, using a random secret; admin sessions end on restart")
	}
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD is not set, admin account will not be seeded")
	}
	return &cfg, nil
}

// Validate rejects driver names the service does not know about and a
// release build without a signing key.
func (c *Config) Validate() error {
	if strings.EqualFold(c.GinMode, "release") && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when GIN_MODE=release")
	}
	switch strings.ToLower(c.DBDriver) {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch strings.ToLower(c.CartStore) {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CART_STORE %q", c.CartStore)
	}
	switch strings.ToLower(c.StorageDriver) {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when STORAGE_DRIVER=gcs")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// Location resolves the store time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
