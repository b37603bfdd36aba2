package domain

// Correlate joins cities and observations on the stable city id.
//
// The join is a keyed lookup, never positional: per-entity fetch failures
// mean the observation sequence does not line up with the city sequence.
// Semantics are inner-join — a city with no observation (fetch failed) and
// an observation with no city (should not occur when ids are sourced from
// the reference set) both produce no output row.
//
// Output follows observation order. Callers must not depend on row order
// across runs.
func Correlate(cities []CityRecord, observations []WeatherObservation) []CorrelatedRow {
	byID := make(map[int]CityRecord, len(cities))
	for _, c := range cities {
		byID[c.ID] = c
	}

	rows := make([]CorrelatedRow, 0, len(observations))
	for _, obs := range observations {
		city, ok := byID[obs.CityID]
		if !ok {
			continue
		}
		rows = append(rows, CorrelatedRow{City: city, Weather: obs})
	}
	return rows
}
