package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port   string
	Env    string // development, staging, production
	Server ServerConfig

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Data providers
	Finnhub    ProviderConfig
	MarketData ProviderConfig
	FRED       ProviderConfig

	// Caching
	Cache CacheConfig

	// Scanner
	Scanner ScannerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// ServerConfig holds HTTP timeouts. POST /api/scan runs inline, so
// WriteTimeout has to cover a full watchlist scan.
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ProviderConfig holds credentials and limits for one upstream data provider
type ProviderConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit float64 // requests per second, 0 disables limiting
	Timeout   time.Duration
}

// CacheConfig holds the two cache tiers
type CacheConfig struct {
	TTL           time.Duration // in-memory fetch cache
	MacroFile     string        // persisted macro series
	MacroTTL      time.Duration
	SharedEnabled bool // mirror the in-memory tier into Redis
}

// ScannerConfig holds watchlist scan settings
type ScannerConfig struct {
	Cron          string
	WatchlistFile string
	StagingDriver string // postgres | sqlite | memory
	SQLitePath    string
	HistoryDays   int
	Timeout       time.Duration // per scheduled scan attempt
}

// Staging drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("ENV", "development"),

		Server: ServerConfig{
			ReadTimeout:     getEnvAsDuration("API_READ_TIMEOUT", "15s"),
			WriteTimeout:    getEnvAsDuration("API_WRITE_TIMEOUT", "10m"),
			IdleTimeout:     getEnvAsDuration("API_IDLE_TIMEOUT", "60s"),
			ShutdownTimeout: getEnvAsDuration("API_SHUTDOWN_TIMEOUT", "30s"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Finnhub: ProviderConfig{
			APIKey:    getEnv("FINNHUB_API_KEY", ""),
			BaseURL:   getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
			RateLimit: getEnvAsFloat("FINNHUB_RATE_LIMIT", 1),
			Timeout:   getEnvAsDuration("FINNHUB_TIMEOUT", "15s"),
		},
		MarketData: ProviderConfig{
			APIKey:    getEnv("MARKETDATA_API_KEY", ""),
			BaseURL:   getEnv("MARKETDATA_BASE_URL", "https://api.marketdata.app/v1"),
			RateLimit: getEnvAsFloat("MARKETDATA_RATE_LIMIT", 5),
			Timeout:   getEnvAsDuration("MARKETDATA_TIMEOUT", "15s"),
		},
		FRED: ProviderConfig{
			APIKey:    getEnv("FRED_API_KEY", ""),
			BaseURL:   getEnv("FRED_BASE_URL", "https://api.stlouisfed.org/fred"),
			RateLimit: getEnvAsFloat("FRED_RATE_LIMIT", 2),
			Timeout:   getEnvAsDuration("FRED_TIMEOUT", "30s"),
		},

		Cache: CacheConfig{
			TTL:           getEnvAsDuration("CACHE_TTL", "10m"),
			MacroFile:     getEnv("MACRO_CACHE_FILE", "data/fred_cache.json"),
			MacroTTL:      getEnvAsDuration("MACRO_CACHE_TTL", "24h"),
			SharedEnabled: getEnvAsBool("CACHE_SHARED", false),
		},

		Scanner: ScannerConfig{
			Cron:          getEnv("SCAN_CRON", "0 0 21 * * 1-5"),
			WatchlistFile: getEnv("WATCHLIST_FILE", ""),
			StagingDriver: getEnv("STAGING_DRIVER", DriverPostgres),
			SQLitePath:    getEnv("SQLITE_PATH", "data/tickergrade.db"),
			HistoryDays:   getEnvAsInt("HISTORY_DAYS", 365),
			Timeout:       getEnvAsDuration("SCAN_TIMEOUT", "30m"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Scanner.StagingDriver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STAGING_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.Scanner.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STAGING_DRIVER=sqlite")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STAGING_DRIVER must be one of: postgres, sqlite, memory")
	}

	if c.Cache.TTL <= 0 || c.Cache.MacroTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("API_WRITE_TIMEOUT and API_SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
