package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables
// (optionally seeded from a .env file). It is constructed once at process
// start and passed into constructors; core logic never reads the environment.
type Config struct {
	// Warehouse connection.
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Weather API.
	WeatherAPIKey     string
	WeatherAPIBaseURL string
	WeatherAPITimeout time.Duration

	// Pipeline.
	CitiesCSVPath string
	FetchLimit    int // cap on remote lookups per run

	// Scheduling.
	CronSchedule string
	RunOnStart   bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is the normal case in containers; only explicit env matters.
	_ = godotenv.Load()

	timeout, err := parseDuration("WEATHER_API_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchLimit, err := parseFetchLimit()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBHost:     envOrDefault("DB_HOST", "localhost"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBName:     envOrDefault("DB_NAME", "weather_dw"),
		DBUser:     envOrDefault("DB_USER", "postgres"),
		DBPassword: envOrDefault("DB_PASSWORD", "postgres"),
		DBSSLMode:  envOrDefault("DB_SSLMODE", "disable"),

		WeatherAPIKey:     os.Getenv("WEATHER_API_KEY"),
		WeatherAPIBaseURL: envOrDefault("WEATHER_API_BASE_URL", "https://api.weatherapi.com/v1"),
		WeatherAPITimeout: timeout,

		CitiesCSVPath: envOrDefault("CITIES_CSV_PATH", "data/worldcities.csv"),
		FetchLimit:    fetchLimit,

		CronSchedule: envOrDefault("CRON_SCHEDULE", "0 11 * * *"),
		RunOnStart:   os.Getenv("RUN_ON_START") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_API_KEY is required")
	}

	return cfg, nil
}

// DSN returns the lib/pq keyword/value connection string. The keyword form
// avoids URL-escaping issues with passwords containing characters like '@'.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

// parseFetchLimit bounds the per-run remote lookup cap. The default of 100
// respects the free-tier rate limits of the weather service.
func parseFetchLimit() (int, error) {
	s := envOrDefault("FETCH_LIMIT", "100")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 500 {
		return 0, fmt.Errorf("invalid FETCH_LIMIT: %q (must be 1-500)", s)
	}
	return n, nil
}
