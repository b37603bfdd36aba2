// Package weatherapi implements domain.WeatherProvider against the
// WeatherAPI.com current-conditions endpoint.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Sujay-155/data-wareshouse/internal/domain"
)

// Client calls the WeatherAPI.com v1 REST API.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a WeatherAPI.com client. The timeout bounds each request;
// a timed-out call surfaces as a transport error and the caller skips the
// entity.
func NewClient(key, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Current fetches current conditions for a free-text location query such as
// "Paris, France". Non-200 responses and undecodable bodies are errors; the
// provider is free to geolocate the query to a nearby place, which is why
// callers must never join results back by name or coordinates.
func (c *Client) Current(ctx context.Context, query string) (domain.CurrentConditions, error) {
	params := url.Values{
		"key": {c.key},
		"q":   {query},
		"aqi": {"yes"},
	}
	fullURL := c.baseURL + "/current.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("current conditions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.CurrentConditions{}, fmt.Errorf("weatherapi error: status %d: %s", resp.StatusCode, body)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("decode response: %w", err)
	}

	cond := domain.CurrentConditions{
		TempC:       apiResp.Current.TempC,
		HumidityPct: apiResp.Current.Humidity,
		WindKph:     apiResp.Current.WindKph,
		LastUpdated: apiResp.Current.LastUpdated,
	}
	if apiResp.Current.Condition.Text != "" {
		text := apiResp.Current.Condition.Text
		cond.ConditionText = &text
	}
	if apiResp.Current.AirQuality != nil {
		cond.AirQualityIndex = apiResp.Current.AirQuality.USEPAIndex
	}
	return cond, nil
}

// WeatherAPI.com response types. Only the substructures the warehouse needs
// are decoded; everything else in the payload is ignored.

type response struct {
	Location location `json:"location"`
	Current  current  `json:"current"`
}

type location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Localtime string  `json:"localtime"`
}

type current struct {
	TempC       *float64    `json:"temp_c"`
	Humidity    *int        `json:"humidity"`
	WindKph     *float64    `json:"wind_kph"`
	LastUpdated string      `json:"last_updated"`
	Condition   condition   `json:"condition"`
	AirQuality  *airQuality `json:"air_quality"`
}

type condition struct {
	Text string `json:"text"`
}

type airQuality struct {
	USEPAIndex *int `json:"us-epa-index"`
}
