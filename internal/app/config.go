package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the complete application configuration, loadable from
// environment variables (HOTPOT_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Storage   StorageConfig
	Shop      ShopConfig
	Menu      MenuConfig
	Orders    OrdersConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// StorageConfig selects where orders are persisted.
type StorageConfig struct {
	Driver      string `default:"file" usage:"Order storage driver: memory, file, redis, postgres or sqlite"`
	Key         string `default:"hotpot_orders" usage:"Storage key holding the orders"`
	Path        string `default:"data/hotpot_orders.json" usage:"File path for the file and sqlite drivers"`
	RedisURL    string `usage:"Redis URL (HOTPOT_STORAGE_REDIS_URL or REDIS_URL)" flag:"redis-url"`
	DatabaseURL string `usage:"PostgreSQL URL (HOTPOT_STORAGE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
}

// ShopConfig describes the restaurant.
type ShopConfig struct {
	Name                string `default:"The Hotpot" usage:"Shop name used in order messages"`
	WhatsApp            string `default:"2348012345678" usage:"WhatsApp number receiving orders"`
	FreeDeliveryMinimum int64  `default:"10000" usage:"Order total from which delivery is free"`
}

// MenuConfig points at an optional YAML menu replacing the built-in one.
type MenuConfig struct {
	File string `usage:"YAML menu file (empty uses the built-in menu)" flag:"menu-file"`
}

// OrdersConfig tunes checkout and lookup.
type OrdersConfig struct {
	UniqueCodes int           `default:"0" usage:"Attempts to draw an unused order code (0 disables the check)"`
	LookupDelay time.Duration `default:"0s" usage:"Artificial pause before each order lookup"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window (0 disables)"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

var defaultFiles = []string{"config.yaml", "/etc/hotpot/config.yaml"}

// LoadConfig loads configuration from flags, environment variables and YAML
// config files, then applies platform defaults and validates the storage
// section.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "HOTPOT",
		Files:     defaultFiles,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

// LoadConfigFile is LoadConfig without command line flags, for tools that
// own their flags. A non-empty file replaces the default config files.
func LoadConfigFile(file string) (*Config, error) {
	files := defaultFiles
	if file != "" {
		files = []string{file}
	}
	return loadConfig(aconfig.Config{
		EnvPrefix:          "HOTPOT",
		SkipFlags:          true,
		Files:              files,
		FailOnFileNotFound: file != "",
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(ac aconfig.Config) (*Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, ac).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) such as PORT, DATABASE_URL and REDIS_URL onto the
// HOTPOT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Storage.DatabaseURL == "" {
		c.Storage.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.Storage.RedisURL == "" {
		c.Storage.RedisURL = os.Getenv("REDIS_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if s.Path == "" {
			return errors.Errorf("storage path is required for the %s driver", s.Driver)
		}
	case DriverRedis:
		if s.RedisURL == "" {
			return errors.New("redis URL is required: set HOTPOT_STORAGE_REDIS_URL or REDIS_URL")
		}
	case DriverPostgres:
		if s.DatabaseURL == "" {
			return errors.New("database URL is required: set HOTPOT_STORAGE_DATABASE_URL or DATABASE_URL")
		}
	default:
		return errors.Errorf("unknown storage driver %q", s.Driver)
	}
	if s.Key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
