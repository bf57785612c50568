package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	BARB           BARBConfig           `yaml:"barb"`
	Cache          CacheConfig          `yaml:"cache"`
	Database       DatabaseConfig       `yaml:"database"`
	Redis          RedisConfig          `yaml:"redis"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BARBConfig holds panel provider API settings. The panel provider is
// reached through a proxy base URL with email/password token auth.
type BARBConfig struct {
	BaseURL        string `yaml:"base_url"`
	Email          string `yaml:"email"`
	Password       string `yaml:"password"`
	PageSize       int    `yaml:"page_size"`
	PageDelayMS    int    `yaml:"page_delay_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	// FallbackWindowStart/End is a known-good historical week substituted
	// when a requested date window cannot be serviced (absent or in the
	// future relative to the measurement panel).
	FallbackWindowStart string `yaml:"fallback_window_start"`
	FallbackWindowEnd   string `yaml:"fallback_window_end"`
}

// CacheConfig holds the two-tier TVR cache settings.
type CacheConfig struct {
	// Backend selects the persistent tier: "postgres", "redis" or "none".
	Backend         string `yaml:"backend"`
	MemoryTTLMin    int    `yaml:"memory_ttl_minutes"`
	StoreTTLMin     int    `yaml:"store_ttl_minutes"`
	CleanupEveryMin int    `yaml:"cleanup_interval_minutes"`
}

// MemoryTTL returns the in-process tier freshness window.
func (c CacheConfig) MemoryTTL() time.Duration { return time.Duration(c.MemoryTTLMin) * time.Minute }

// StoreTTL returns the persistent tier freshness window.
func (c CacheConfig) StoreTTL() time.Duration { return time.Duration(c.StoreTTLMin) * time.Minute }

// DatabaseConfig holds PostgreSQL settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds Redis settings for the alternate cache backend
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ReconciliationConfig holds plan/actual reconciliation settings
type ReconciliationConfig struct {
	// MaxConcurrentStations bounds the per-station fan-out on the slow path.
	MaxConcurrentStations int `yaml:"max_concurrent_stations"`
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Missing file is fine; env vars + defaults carry the config.
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.BARB.PageSize == 0 {
		c.BARB.PageSize = 500
	}
	if c.BARB.PageDelayMS == 0 {
		c.BARB.PageDelayMS = 200
	}
	if c.BARB.TimeoutSeconds == 0 {
		c.BARB.TimeoutSeconds = 30
	}
	if c.BARB.FallbackWindowStart == "" {
		c.BARB.FallbackWindowStart = "2024-12-24"
	}
	if c.BARB.FallbackWindowEnd == "" {
		c.BARB.FallbackWindowEnd = "2024-12-31"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "postgres"
	}
	if c.Cache.MemoryTTLMin == 0 {
		c.Cache.MemoryTTLMin = 5
	}
	if c.Cache.StoreTTLMin == 0 {
		c.Cache.StoreTTLMin = 30
	}
	if c.Cache.CleanupEveryMin == 0 {
		c.Cache.CleanupEveryMin = 60
	}
	if c.Reconciliation.MaxConcurrentStations == 0 {
		c.Reconciliation.MaxConcurrentStations = 5
	}
}

// LoadFromEnv loads configuration from the YAML file, then overrides with
// environment variables where present. A .env file is loaded first if one
// exists.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BARB_BASE_URL"); v != "" {
		cfg.BARB.BaseURL = v
	}
	if v := os.Getenv("BARB_EMAIL"); v != "" {
		cfg.BARB.Email = v
	}
	if v := os.Getenv("BARB_PASSWORD"); v != "" {
		cfg.BARB.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	return cfg, nil
}
