package api

import (
	"fmt"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"
)

// Cart store backends.
const (
	CartStoreMemory = "memory"
	CartStoreBadger = "badger"
	CartStoreRedis  = "redis"
)

// ConfigFileEnv names an optional YAML/TOML/JSON file read before the environment.
const ConfigFileEnv = "REGISTRY_CONFIG_FILE"

// Config carries environment-driven settings for the registry processes.
type Config struct {
	Port                   string
	PostgresDSN            string
	TemporalAddress        string
	TemporalNamespace      string
	TemporalDisabled       bool
	CartStore              string
	BadgerPath             string
	RedisURL               string
	CartTTL                time.Duration
	CatalogSeedFile        string
	ImageBaseURL           string
	InventoryAllowFallback bool
	ResendAPIKey           string
	ResendBaseURL          string
	AdminEmail             string
	FromEmail              string
	SessionCodeLocation    *time.Location
	Environment            string
	LogLevel               string
}

// EmailEnabled reports whether order emails go to the provider rather than the log.
func (c Config) EmailEnabled() bool {
	return c.ResendAPIKey != ""
}

// LoadConfig reads the optional config file and environment variables, applies defaults, and
// validates basic constraints. Environment variables win over the file.
func LoadConfig() (Config, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (Config, error) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("TEMPORAL_DISABLED", false)
	v.SetDefault("CART_STORE", CartStoreMemory)
	v.SetDefault("CART_TTL", "0s")
	v.SetDefault("INVENTORY_ALLOW_FALLBACK", false)
	v.SetDefault("SESSION_CODE_TIMEZONE", "UTC")
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString(ConfigFileEnv)); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Port:                   strings.TrimSpace(v.GetString("PORT")),
		PostgresDSN:            strings.TrimSpace(v.GetString("POSTGRES_DSN")),
		TemporalAddress:        strings.TrimSpace(v.GetString("TEMPORAL_ADDRESS")),
		TemporalNamespace:      strings.TrimSpace(v.GetString("TEMPORAL_NAMESPACE")),
		TemporalDisabled:       v.GetBool("TEMPORAL_DISABLED"),
		CartStore:              strings.ToLower(strings.TrimSpace(v.GetString("CART_STORE"))),
		BadgerPath:             strings.TrimSpace(v.GetString("BADGER_PATH")),
		RedisURL:               strings.TrimSpace(v.GetString("REDIS_URL")),
		CartTTL:                v.GetDuration("CART_TTL"),
		CatalogSeedFile:        strings.TrimSpace(v.GetString("CATALOG_SEED_FILE")),
		ImageBaseURL:           strings.TrimSpace(v.GetString("IMAGE_BASE_URL")),
		InventoryAllowFallback: v.GetBool("INVENTORY_ALLOW_FALLBACK"),
		ResendAPIKey:           strings.TrimSpace(v.GetString("RESEND_API_KEY")),
		ResendBaseURL:          strings.TrimSpace(v.GetString("RESEND_BASE_URL")),
		AdminEmail:             strings.TrimSpace(v.GetString("ADMIN_EMAIL")),
		FromEmail:              strings.TrimSpace(v.GetString("FROM_EMAIL")),
		Environment:            strings.TrimSpace(v.GetString("ENVIRONMENT")),
		LogLevel:               strings.TrimSpace(v.GetString("LOG_LEVEL")),
	}
	zone := strings.TrimSpace(v.GetString("SESSION_CODE_TIMEZONE"))
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_CODE_TIMEZONE %q: %w", zone, err)
	}
	cfg.SessionCodeLocation = loc
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.CartStore {
	case CartStoreMemory, CartStoreBadger:
	case CartStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CART_STORE=redis")
		}
	default:
		return fmt.Errorf("CART_STORE must be one of memory, badger, redis; got %q", c.CartStore)
	}
	if c.CartTTL < 0 {
		return fmt.Errorf("CART_TTL must not be negative")
	}
	if c.EmailEnabled() && (c.AdminEmail == "" || c.FromEmail == "") {
		return fmt.Errorf("ADMIN_EMAIL and FROM_EMAIL are required when RESEND_API_KEY is set")
	}
	return nil
}
