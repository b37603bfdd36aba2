package domain

import (
	"fmt"
	"time"
)

// CityRecord is one row of the reference dataset after normalization and
// deduplication. Records are built once per run and never mutated.
type CityRecord struct {
	ID         int
	Name       string
	Country    string
	Population *int64  // absent when the source cell is empty
	Capital    *string // absent when the source cell is empty
	Lat        float64
	Lon        float64

	// RoundedLat and RoundedLon identify the coarse coordinate cell the
	// city falls into. Used only for pre-fetch deduplication; never a
	// join key.
	RoundedLat int
	RoundedLon int
}

// FetchTarget is the slice of a CityRecord the weather fetch needs.
type FetchTarget struct {
	CityID  int
	City    string
	Country string
}

// Query returns the free-text location string sent to the weather service.
// City and country are combined to disambiguate repeated city names
// (Delhi, Canada vs Delhi, India).
func (t FetchTarget) Query() string {
	return fmt.Sprintf("%s, %s", t.City, t.Country)
}

// CurrentConditions holds the measured attributes parsed from one weather
// service response. Pointer fields are nil when the response omitted them.
type CurrentConditions struct {
	TempC           *float64
	HumidityPct     *int
	WindKph         *float64
	ConditionText   *string
	AirQualityIndex *int // US EPA index, 1 (good) through 6 (hazardous)
	LastUpdated     string
}

// WeatherObservation tags current conditions with the city that triggered
// the fetch. Exactly one observation exists per successful remote call;
// failed calls produce none.
type WeatherObservation struct {
	CityID int
	CurrentConditions
	ObservedAt time.Time // wall-clock time the response was received
}

// CorrelatedRow pairs a city with its observation. Rows exist only where
// both sides matched on CityID.
type CorrelatedRow struct {
	City    CityRecord
	Weather WeatherObservation
}
