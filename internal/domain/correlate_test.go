package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func makeObservation(cityID int, temp float64) WeatherObservation {
	return WeatherObservation{
		CityID: cityID,
		CurrentConditions: CurrentConditions{
			TempC: floatPtr(temp),
		},
		ObservedAt: time.Date(2026, time.March, 1, 11, 0, 0, 0, time.UTC),
	}
}

func TestCorrelate_InnerJoin(t *testing.T) {
	cities := []CityRecord{
		{ID: 1, Name: "Tokyo", Country: "Japan"},
		{ID: 2, Name: "Jakarta", Country: "Indonesia"},
		{ID: 3, Name: "Delhi", Country: "India"},
	}
	// No observation for Jakarta: its fetch failed.
	obs := []WeatherObservation{
		makeObservation(3, 31.5),
		makeObservation(1, 14.2),
	}

	rows := Correlate(cities, obs)
	require.Len(t, rows, 2)

	// Output follows observation order, and each row pairs on the id.
	assert.Equal(t, "Delhi", rows[0].City.Name)
	assert.Equal(t, 3, rows[0].Weather.CityID)
	assert.Equal(t, "Tokyo", rows[1].City.Name)
	assert.Equal(t, 1, rows[1].Weather.CityID)
}

// Two cities rounding into the same whole-degree cell must still pair only
// with the observation carrying their own id. Coordinates never participate
// in the join.
func TestCorrelate_NoCoordinateLeakage(t *testing.T) {
	cities := []CityRecord{
		{ID: 10, Name: "Alpha", Country: "X", Lat: 40.2, Lon: 10.3, RoundedLat: 40, RoundedLon: 10},
		{ID: 20, Name: "Beta", Country: "X", Lat: 40.4, Lon: 10.1, RoundedLat: 40, RoundedLon: 10},
	}
	obs := []WeatherObservation{
		makeObservation(20, 5.0),
		makeObservation(10, 25.0),
	}

	rows := Correlate(cities, obs)
	require.Len(t, rows, 2)

	assert.Equal(t, "Beta", rows[0].City.Name)
	assert.Equal(t, 5.0, *rows[0].Weather.TempC)
	assert.Equal(t, "Alpha", rows[1].City.Name)
	assert.Equal(t, 25.0, *rows[1].Weather.TempC)
}

func TestCorrelate_DropsUnknownObservation(t *testing.T) {
	cities := []CityRecord{{ID: 1, Name: "Tokyo", Country: "Japan"}}
	obs := []WeatherObservation{
		makeObservation(99, 12.0), // id not in the reference set
		makeObservation(1, 14.2),
	}

	rows := Correlate(cities, obs)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].City.ID)
}

func TestCorrelate_EmptyInputs(t *testing.T) {
	assert.Empty(t, Correlate(nil, nil))
	assert.Empty(t, Correlate([]CityRecord{{ID: 1}}, nil))
	assert.Empty(t, Correlate(nil, []WeatherObservation{makeObservation(1, 0)}))
}

func TestFetchTarget_Query(t *testing.T) {
	target := FetchTarget{CityID: 7, City: "Paris", Country: "France"}
	assert.Equal(t, "Paris, France", target.Query())
}
