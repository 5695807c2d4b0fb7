package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Catalog source kinds
const (
	SourceAPI  = "api"
	SourceFile = "file"
	SourceSQL  = "sql"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Calculator CalculatorConfig `mapstructure:"calculator"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects and configures where lenses come from
type CatalogConfig struct {
	Source     string        `mapstructure:"source"` // "api", "file" or "sql"
	BaseURL    string        `mapstructure:"base_url"`
	Token      string        `mapstructure:"token"`
	Path       string        `mapstructure:"path"`
	Driver     string        `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN        string        `mapstructure:"dsn"`
	Table      string        `mapstructure:"table"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit"`
	Burst      int           `mapstructure:"burst"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// CacheConfig holds catalog snapshot cache configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "none"
	TTL  time.Duration `mapstructure:"ttl"`
}

// CalculatorConfig holds conversion defaults
type CalculatorConfig struct {
	DefaultVertexDistance float64 `mapstructure:"default_vertex_distance"`
	Debug                 bool    `mapstructure:"debug"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lensfinder/")

	v.SetEnvPrefix("LENSFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Variables already set win.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("catalog.source", SourceAPI)
	v.SetDefault("catalog.base_url", "http://localhost:3000/api")
	v.SetDefault("catalog.token", "")
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.driver", "sqlite")
	v.SetDefault("catalog.dsn", "")
	v.SetDefault("catalog.table", "contact_lenses")
	v.SetDefault("catalog.timeout", "15s")
	v.SetDefault("catalog.rate_limit", 5.0)
	v.SetDefault("catalog.burst", 10)
	v.SetDefault("catalog.max_retries", 3)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("calculator.default_vertex_distance", 12.0)
	v.SetDefault("calculator.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case SourceAPI:
		if config.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog base URL is required for the api source (set LENSFINDER_CATALOG_BASE_URL)")
		}
	case SourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for the file source (set LENSFINDER_CATALOG_PATH)")
		}
	case SourceSQL:
		switch config.Catalog.Driver {
		case "sqlite", "postgres", "mysql":
		default:
			return fmt.Errorf("catalog driver must be 'sqlite', 'postgres' or 'mysql', got: %s", config.Catalog.Driver)
		}
		if config.Catalog.DSN == "" {
			return fmt.Errorf("catalog DSN is required for the sql source (set LENSFINDER_CATALOG_DSN)")
		}
	default:
		return fmt.Errorf("catalog source must be 'api', 'file' or 'sql', got: %s", config.Catalog.Source)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.Calculator.DefaultVertexDistance <= 0 {
		return fmt.Errorf("default vertex distance must be positive, got: %v", config.Calculator.DefaultVertexDistance)
	}

	return nil
}
