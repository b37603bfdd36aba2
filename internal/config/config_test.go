package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "weather_dw", cfg.DBName)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, testAPIKey, cfg.WeatherAPIKey)
	assert.Equal(t, "https://api.weatherapi.com/v1", cfg.WeatherAPIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.WeatherAPITimeout)
	assert.Equal(t, "data/worldcities.csv", cfg.CitiesCSVPath)
	assert.Equal(t, 100, cfg.FetchLimit)
	assert.Equal(t, "0 11 * * *", cfg.CronSchedule)
	assert.False(t, cfg.RunOnStart)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)
	t.Setenv("DB_HOST", "warehouse.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "analytics")
	t.Setenv("DB_USER", "etl")
	t.Setenv("DB_PASSWORD", "s3cret@pass")
	t.Setenv("WEATHER_API_TIMEOUT", "5s")
	t.Setenv("CITIES_CSV_PATH", "/data/cities.csv")
	t.Setenv("FETCH_LIMIT", "25")
	t.Setenv("CRON_SCHEDULE", "30 6 * * *")
	t.Setenv("RUN_ON_START", "true")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warehouse.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "analytics", cfg.DBName)
	assert.Equal(t, "etl", cfg.DBUser)
	assert.Equal(t, 5*time.Second, cfg.WeatherAPITimeout)
	assert.Equal(t, "/data/cities.csv", cfg.CitiesCSVPath)
	assert.Equal(t, 25, cfg.FetchLimit)
	assert.Equal(t, "30 6 * * *", cfg.CronSchedule)
	assert.True(t, cfg.RunOnStart)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_API_KEY")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)
	t.Setenv("WEATHER_API_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_API_TIMEOUT")
}

func TestLoad_InvalidFetchLimit(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)

	for _, bad := range []string{"0", "-5", "501", "lots"} {
		t.Setenv("FETCH_LIMIT", bad)
		_, err := Load()
		require.Error(t, err, "FETCH_LIMIT=%s", bad)
		assert.Contains(t, err.Error(), "FETCH_LIMIT")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBName:     "weather_dw",
		DBUser:     "etl",
		DBPassword: "s3cret@pass",
		DBSSLMode:  "disable",
	}
	assert.Equal(t,
		"host=db port=5432 dbname=weather_dw user=etl password=s3cret@pass sslmode=disable",
		cfg.DSN())
}
