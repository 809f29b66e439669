// Package config loads settings from the environment, reading a .env file
// first when one exists.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"stock-positions/origin"
)

// Config is the whole application configuration.
type Config struct {
	Origins OriginConfig
	Client  ClientConfig
	Server  ServerConfig
	Web     WebConfig
	Data    DataConfig
	Logging LoggingConfig
}

type OriginConfig struct {
	Local       string
	Production  string
	HostnameEnv string // variable holding a page hostname, see origin.EnvContext
}

type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
}

type ServerConfig struct {
	Addr         string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	QuoteWorkers int
}

type WebConfig struct {
	Addr      string
	StaleTime time.Duration
}

type DataConfig struct {
	CatalogPath    string // CSV of tracked stocks, empty for the built-in list
	ProfilesPath   string // JSON of curated profiles
	BrandsPath     string // JSON of symbol to brand list
	IndexPath      string // bleve index directory, empty for in-memory
	QuoteProviders []string
}

type LoggingConfig struct {
	Level       string
	Format      string
	FileEnabled bool
	FilePath    string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file, using environment variables")
	}

	cfg := &Config{
		Origins: OriginConfig{
			Local:       getEnv("STOCKS_LOCAL_ORIGIN", origin.DefaultLocal),
			Production:  getEnv("STOCKS_PRODUCTION_ORIGIN", origin.DefaultProduction),
			HostnameEnv: origin.DefaultHostnameEnv,
		},
		Client: ClientConfig{
			Timeout:   getDuration("STOCKS_HTTP_TIMEOUT", 10*time.Second),
			UserAgent: getEnv("STOCKS_USER_AGENT", "stock-positions"),
		},
		Server: ServerConfig{
			Addr: getEnv("STOCKS_ADDR", ":8000"),
			CORSOrigins: getList("STOCKS_CORS_ORIGINS", []string{
				"http://localhost:3000",
				"https://localhost:3000",
				"https://*.vercel.app",
				"https://*.netlify.app",
			}),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			QuoteWorkers: getInt("STOCKS_QUOTE_WORKERS", 4),
		},
		Web: WebConfig{
			Addr:      getEnv("STOCKS_WEB_ADDR", ":3000"),
			StaleTime: getDuration("STOCKS_STALE_TIME", 30*time.Second),
		},
		Data: DataConfig{
			CatalogPath:    getEnv("STOCKS_CATALOG", ""),
			ProfilesPath:   getEnv("STOCKS_PROFILES", ""),
			BrandsPath:     getEnv("STOCKS_BRANDS", ""),
			IndexPath:      getEnv("STOCKS_INDEX_PATH", ""),
			QuoteProviders: getList("STOCKS_QUOTE_PROVIDERS", []string{"financego", "yahoo", "mock"}),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "pretty"),
			FileEnabled: getBool("LOG_FILE_ENABLED", false),
			FilePath:    getEnv("LOG_PATH", "logs"),
		},
	}
	return cfg, nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// getList splits a comma separated variable, dropping empty items.
func getList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
