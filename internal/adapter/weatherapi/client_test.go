package weatherapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-key"

func testClient(baseURL string) *Client {
	return NewClient(testKey, baseURL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const parisBody = `{
	"location": {"name": "Paris", "country": "France", "lat": 48.87, "lon": 2.33, "localtime": "2026-03-01 12:00"},
	"current": {
		"temp_c": 14.2,
		"humidity": 60,
		"wind_kph": 11.2,
		"last_updated": "2026-03-01 11:45",
		"condition": {"text": "Cloudy"},
		"air_quality": {"us-epa-index": 2}
	}
}`

func TestClient_Current_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/current.json", r.URL.Path)
		assert.Equal(t, testKey, r.URL.Query().Get("key"))
		assert.Equal(t, "Paris, France", r.URL.Query().Get("q"))
		assert.Equal(t, "yes", r.URL.Query().Get("aqi"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(parisBody))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	cond, err := c.Current(context.Background(), "Paris, France")
	require.NoError(t, err)

	require.NotNil(t, cond.TempC)
	assert.Equal(t, 14.2, *cond.TempC)
	require.NotNil(t, cond.HumidityPct)
	assert.Equal(t, 60, *cond.HumidityPct)
	require.NotNil(t, cond.WindKph)
	assert.Equal(t, 11.2, *cond.WindKph)
	require.NotNil(t, cond.ConditionText)
	assert.Equal(t, "Cloudy", *cond.ConditionText)
	require.NotNil(t, cond.AirQualityIndex)
	assert.Equal(t, 2, *cond.AirQualityIndex)
	assert.Equal(t, "2026-03-01 11:45", cond.LastUpdated)
}

func TestClient_Current_AbsentFieldsStayAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"location": {"name": "Nowhere"}, "current": {"temp_c": 1.5}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	cond, err := c.Current(context.Background(), "Nowhere")
	require.NoError(t, err)

	require.NotNil(t, cond.TempC)
	assert.Equal(t, 1.5, *cond.TempC)
	assert.Nil(t, cond.HumidityPct)
	assert.Nil(t, cond.ConditionText)
	assert.Nil(t, cond.AirQualityIndex)
}

func TestClient_Current_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Current(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "No matching location")
}

func TestClient_Current_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Current(context.Background(), "Paris, France")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Current_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Current(context.Background(), "Paris, France")
	require.Error(t, err)
}
