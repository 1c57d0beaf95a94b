package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`

	Database struct {
		Driver     string `yaml:"driver"` // postgres, sqlite
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"name"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Yahoo struct {
		BaseURL      string `yaml:"base_url"`
		SymbolSuffix string `yaml:"symbol_suffix"`
	} `yaml:"yahoo"`

	AI struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"ai"`

	DeepSearch struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"deepsearch"`

	Upstream struct {
		Timeout         time.Duration `yaml:"timeout"`
		MaxConnsPerHost int           `yaml:"max_conns_per_host"`
		FanOutLimit     int           `yaml:"fanout_limit"`
		StreamInterval  time.Duration `yaml:"stream_interval"`
	} `yaml:"upstream"`

	Cleanup struct {
		At           string `yaml:"at"` // HH:MM, local time
		InactiveDays int    `yaml:"inactive_days"`
	} `yaml:"cleanup"`

	MarketTimezone     string `yaml:"market_timezone"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

// Load reads the optional YAML file at path, then .env, then environment overrides,
// and finally fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, using environment variables")
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Environment, "ENVIRONMENT")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")

	setString(&cfg.Yahoo.BaseURL, "YAHOO_BASE_URL")
	setString(&cfg.Yahoo.SymbolSuffix, "YAHOO_SYMBOL_SUFFIX")
	setString(&cfg.AI.BaseURL, "AI_API_BASE_URL")
	setString(&cfg.DeepSearch.BaseURL, "DEEPSEARCH_BASE_URL")
	setString(&cfg.DeepSearch.APIKey, "DEEPSEARCH_API_KEY")

	setDuration(&cfg.Upstream.Timeout, "UPSTREAM_TIMEOUT")
	setInt(&cfg.Upstream.MaxConnsPerHost, "MAX_CONNS_PER_HOST")
	setInt(&cfg.Upstream.FanOutLimit, "FANOUT_LIMIT")
	setDuration(&cfg.Upstream.StreamInterval, "STREAM_INTERVAL")

	setString(&cfg.Cleanup.At, "CLEANUP_AT")
	setInt(&cfg.Cleanup.InactiveDays, "INACTIVE_DAYS")

	setString(&cfg.MarketTimezone, "MARKET_TIMEZONE")
	setInt(&cfg.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
}

func applyDefaults(cfg *Config) {
	defaultString(&cfg.Port, "8080")
	defaultString(&cfg.Environment, "development")

	defaultString(&cfg.Database.Driver, "postgres")
	defaultString(&cfg.Database.Host, "localhost")
	defaultString(&cfg.Database.Port, "5432")
	defaultString(&cfg.Database.User, "postgres")
	defaultString(&cfg.Database.Name, "roboadvisor")
	defaultString(&cfg.Database.SQLitePath, "data/roboadvisor.db")

	defaultString(&cfg.Yahoo.BaseURL, "https://query1.finance.yahoo.com")
	defaultString(&cfg.Yahoo.SymbolSuffix, ".KS")
	defaultString(&cfg.AI.BaseURL, "http://localhost:8000")
	defaultString(&cfg.DeepSearch.BaseURL, "https://api-v2.deepsearch.com")

	if cfg.Upstream.Timeout <= 0 {
		cfg.Upstream.Timeout = 30 * time.Second
	}
	if cfg.Upstream.MaxConnsPerHost <= 0 {
		cfg.Upstream.MaxConnsPerHost = 16
	}
	if cfg.Upstream.FanOutLimit <= 0 {
		cfg.Upstream.FanOutLimit = 8
	}
	if cfg.Upstream.StreamInterval <= 0 {
		cfg.Upstream.StreamInterval = 5 * time.Second
	}

	defaultString(&cfg.Cleanup.At, "04:00")
	if cfg.Cleanup.InactiveDays <= 0 {
		cfg.Cleanup.InactiveDays = 90
	}

	defaultString(&cfg.MarketTimezone, "Asia/Seoul")
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 120
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Yahoo.BaseURL == "" {
		return fmt.Errorf("yahoo.base_url is required")
	}
	if c.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url is required")
	}
	if _, err := time.Parse("15:04", c.Cleanup.At); err != nil {
		return fmt.Errorf("cleanup.at must be HH:MM: %w", err)
	}
	if c.DeepSearch.APIKey == "" {
		log.Println("[WARN] DEEPSEARCH_API_KEY not set, news lookups will return empty results")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location returns the market time zone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.MarketTimezone)
	if err != nil {
		log.Printf("[WARN] unknown market timezone %q, using UTC: %v", c.MarketTimezone, err)
		return time.UTC
	}
	return loc
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func defaultString(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
