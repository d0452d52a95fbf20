package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	SEC          SECConfig
	AlphaVantage AlphaVantageConfig

	// Analysis
	Analysis AnalysisConfig

	// Logging
	LogLevel  string
	LogFormat string
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

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// SECConfig holds SEC EDGAR API configuration.
// The SEC requires a descriptive User-Agent with a contact address on every
// request and asks automated clients to stay under 10 requests per second.
type SECConfig struct {
	BaseURL      string // data.sec.gov JSON APIs
	ArchivesURL  string // www.sec.gov filing archives
	UserAgent    string
	MaxPerSecond int
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
}

// AnalysisConfig holds analysis pipeline defaults
type AnalysisConfig struct {
	PreferredForm     string // filing form preferred during annual reduction
	Form4LookbackDays int    // insider transaction history window
	OutputDir         string // where rendered reports are written
	TrackedTickers    []string
	RefreshCronSpec   string
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External APIs
		SEC: SECConfig{
			BaseURL:      getEnv("SEC_BASE_URL", "https://data.sec.gov"),
			ArchivesURL:  getEnv("SEC_ARCHIVES_URL", "https://www.sec.gov"),
			UserAgent:    getEnv("SEC_USER_AGENT", ""),
			MaxPerSecond: getEnvAsInt("SEC_MAX_PER_SECOND", 8),
		},

		AlphaVantage: AlphaVantageConfig{
			APIKey:  getEnv("ALPHAVANTAGE_API_KEY", ""),
			BaseURL: getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
		},

		// Analysis
		Analysis: AnalysisConfig{
			PreferredForm:     getEnv("ANALYSIS_PREFERRED_FORM", "10-K"),
			Form4LookbackDays: getEnvAsInt("ANALYSIS_FORM4_LOOKBACK_DAYS", 730),
			OutputDir:         getEnv("ANALYSIS_OUTPUT_DIR", "reports"),
			TrackedTickers:    getEnvAsList("ANALYSIS_TRACKED_TICKERS"),
			RefreshCronSpec:   getEnv("ANALYSIS_REFRESH_CRON", "0 0 6 * * MON-FRI"),
		},

		// Logging
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

	// SEC rejects anonymous clients, so a User-Agent is required outside dev
	if c.SEC.UserAgent == "" && c.Env != "development" {
		return fmt.Errorf("SEC_USER_AGENT is required (e.g., \"FilingSight research@example.com\")")
	}

	if c.SEC.MaxPerSecond <= 0 || c.SEC.MaxPerSecond > 10 {
		return fmt.Errorf("SEC_MAX_PER_SECOND must be between 1 and 10")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
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

func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
