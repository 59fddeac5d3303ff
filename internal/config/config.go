package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Duplicate guard. A new report is rejected when MaxIncidentsInArea or more
	// active incidents created within DuplicateWindowMinutes already exist
	// within DuplicateRadiusKm of the proposed location.
	DuplicateRadiusKm      float64       `env:"DUPLICATE_RADIUS_KM" envDefault:"0.5"`
	DuplicateWindowMinutes int           `env:"DUPLICATE_WINDOW_MINUTES" envDefault:"30"`
	MaxIncidentsInArea     int           `env:"MAX_INCIDENTS_IN_AREA" envDefault:"1"`
	StoreQueryTimeout      time.Duration `env:"STORE_QUERY_TIMEOUT" envDefault:"3s"`

	// Map clustering
	ClusterRadiusPx float64 `env:"CLUSTER_RADIUS_PX" envDefault:"75"`
	ClusterMaxZoom  int     `env:"CLUSTER_MAX_ZOOM" envDefault:"20"`

	// Fallback map center when client geolocation is unavailable
	DefaultCenterLat float64 `env:"DEFAULT_CENTER_LAT" envDefault:"37.7749"`
	DefaultCenterLng float64 `env:"DEFAULT_CENTER_LNG" envDefault:"-122.4194"`

	// Alert webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Stats Config
	StatsTimeWindowMinutes int `env:"STATS_TIME_WINDOW_MINUTES" envDefault:"60"`

	// API Keys for authentication of administrative routes
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig loads the configuration from environment variables and an
// optional .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		DuplicateRadiusKm:      getEnvAsFloat("DUPLICATE_RADIUS_KM", 0.5),
		DuplicateWindowMinutes: getEnvAsInt("DUPLICATE_WINDOW_MINUTES", 30),
		MaxIncidentsInArea:     getEnvAsInt("MAX_INCIDENTS_IN_AREA", 1),
		StoreQueryTimeout:      getEnvAsDuration("STORE_QUERY_TIMEOUT", 3*time.Second),
		ClusterRadiusPx:        getEnvAsFloat("CLUSTER_RADIUS_PX", 75),
		ClusterMaxZoom:         getEnvAsInt("CLUSTER_MAX_ZOOM", 20),
		DefaultCenterLat:       getEnvAsFloat("DEFAULT_CENTER_LAT", 37.7749),
		DefaultCenterLng:       getEnvAsFloat("DEFAULT_CENTER_LNG", -122.4194),
		WebhookURL:             os.Getenv("WEBHOOK_URL"),
		WebhookSecret:          os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:         getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:      getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:       getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		StatsTimeWindowMinutes: getEnvAsInt("STATS_TIME_WINDOW_MINUTES", 60),
	}

	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv returns the environment variable value or the default
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the environment variable value as int or the default
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat returns the environment variable value as float64 or the default
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration returns the environment variable value as time.Duration or the default
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
