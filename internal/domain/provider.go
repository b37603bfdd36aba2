package domain

import "context"

// WeatherProvider fetches current conditions for a free-text location query.
type WeatherProvider interface {
	Current(ctx context.Context, query string) (CurrentConditions, error)
}
