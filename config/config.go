package config

import (
	"fmt"
	"log"
	"time"

	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// the HTTP server, the upstream candle provider and the optional Postgres fetch log.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	FINNHUB_API_KEY=xxxx
//	FETCH_MAX_PARALLEL=8
//	POSTGRES_ENABLED=true
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=quotepulse
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Finnhub  FinnhubConfig  // Upstream candle provider
	Postgres PostgresConfig // PostgreSQL connection settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout     time.Duration // Upper bound for a single inbound request
	RateLimitPerMinute int           // Requests allowed per client IP per minute
}

// FinnhubConfig configures the upstream candle provider.
//
// APIKey may be empty: the server still starts, but every price request
// fails closed with a configuration error.
type FinnhubConfig struct {
	APIKey       string
	BaseURL      string
	FetchTimeout time.Duration // Deadline of one per-symbol fetch
	MaxParallel  int           // Concurrent upstream fetches per request
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Enabled: turns the fetch log on; everything else is ignored when false.
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used by the composition root.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REQUEST_TIMEOUT", "15s")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.SetDefault("FINNHUB_API_KEY", "")
	viper.SetDefault("FINNHUB_BASE_URL", "https://finnhub.io/api/v1")
	viper.SetDefault("FETCH_TIMEOUT", "10s")
	viper.SetDefault("FETCH_MAX_PARALLEL", 8)

	viper.SetDefault("POSTGRES_ENABLED", false)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "quotepulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			RequestTimeout:     viper.GetDuration("REQUEST_TIMEOUT"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Finnhub: FinnhubConfig{
			APIKey:       viper.GetString("FINNHUB_API_KEY"),
			BaseURL:      viper.GetString("FINNHUB_BASE_URL"),
			FetchTimeout: viper.GetDuration("FETCH_TIMEOUT"),
			MaxParallel:  viper.GetInt("FETCH_MAX_PARALLEL"),
		},
		Postgres: PostgresConfig{
			Enabled:  viper.GetBool("POSTGRES_ENABLED"),
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// validateConfig terminates the application when required variables are
// missing. Postgres settings are only required when the fetch log is enabled.
//
// A missing FINNHUB_API_KEY only produces a warning.
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}

	if AppConfig.Finnhub.APIKey == "" {
		logger.L().Warn().Msg("FINNHUB_API_KEY is not set; price requests will fail until it is configured")
	}
}

func missingKeys(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Finnhub.BaseURL == "" {
		missing = append(missing, "FINNHUB_BASE_URL")
	}
	if !cfg.Postgres.Enabled {
		return missing
	}
	if cfg.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if cfg.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if cfg.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	return missing
}
