package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (ignores error if not found)
	godotenv.Load()
}

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	FrontendURL string

	// Remote marketplace API
	APIBaseURL     string
	APITimeout     int // seconds
	TracingEnabled bool

	// Durable storage
	StorageDriver string
	StoragePath   string
	StoragePrefix string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogPath string
	ShippingFee float64
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8090"),
		Environment:    getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api"), "/"),
		APITimeout:     int(getEnvAsInt64("API_TIMEOUT_SECONDS", 15)),
		TracingEnabled: getEnvAsBool("TRACING_ENABLED", false),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", DriverSQLite)),
		StoragePath:    getEnv("STORAGE_PATH", "./data/cameroon_mark.db"),
		StoragePrefix:  getEnv("STORAGE_PREFIX", "cameroon_mark"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        int(getEnvAsInt64("REDIS_DB", 0)),
		CatalogPath:    getEnv("CATALOG_PATH", ""),
		ShippingFee:    getEnvAsFloat64("SHIPPING_FEE", 2000),
	}
}

// IsProduction reports whether the process runs with production defaults
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
