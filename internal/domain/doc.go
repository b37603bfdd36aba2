// Package domain models the city reference dataset and the weather
// observations joined against it.
//
// # Reference Dataset
//
// The city catalog is the SimpleMaps "worldcities" CSV (the Kaggle mirror of
// it). The columns this pipeline requires are:
//
//	id          stable numeric identifier, unique per city
//	city        city name
//	country     country name
//	population  optional, may be empty
//	capital     optional categorical marker ("primary", "admin", "minor", ...)
//	lat, lng    coordinates in decimal degrees
//
// "lng" is renamed to "lon" internally. Coordinates are additionally rounded
// to the nearest whole degree to form a coarse cell; when several rows fall
// into the same cell only the first in file order is kept. The coarse cell
// exists purely to thin the fetch batch before hitting the remote API.
//
// # Join Strategy
//
// Observations are paired with cities by the stable "id" column and nothing
// else. Coordinate-based joins are unreliable here twice over: distinct
// cities can round into the same whole-degree cell, and the weather service
// may geolocate a free-text query to a neighboring city. Each observation
// therefore carries the id of the city that triggered its fetch, and
// [Correlate] performs a keyed inner join on that id.
//
// # Warehouse Shape
//
// Correlated rows land in a two-table dimensional schema: dim_city, a
// slowly-changing dimension upserted per city id, and fact_weather, an
// append-only measurement table stamped with a single per-run observation
// time.
package domain
