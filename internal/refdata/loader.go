// Package refdata loads and normalizes the static city reference dataset.
package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Sujay-155/data-wareshouse/internal/domain"
)

// requiredColumns is the case-sensitive header set the dataset must carry.
// "lng" is renamed to "lon" internally; extra columns are ignored.
var requiredColumns = []string{"id", "country", "city", "population", "capital", "lat", "lng"}

// SchemaError reports required columns missing from the dataset header.
// It is fatal: the run aborts before any remote call is made.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "reference dataset missing required columns: " + strings.Join(e.Missing, ", ")
}

// Loader reads the city CSV into normalized, deduplicated CityRecords.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load opens path and reads it via Read.
func (l *Loader) Load(path string) ([]domain.CityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference dataset: %w", err)
	}
	defer f.Close()
	return l.Read(f)
}

// Read parses the dataset, validates the header, normalizes each row, and
// deduplicates by coarse coordinate cell keeping the first row in file order.
// Rows with an unparseable id or coordinates are skipped and counted; only a
// missing column is a schema failure. The input is never mutated.
func (l *Loader) Read(r io.Reader) ([]domain.CityRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read reference dataset header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := colIdx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var (
		records []domain.CityRecord
		seen    = make(map[[2]int]struct{})
		skipped int
		duped   int
	)

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Ragged rows are data defects, not run failures.
			if errors.Is(err, csv.ErrFieldCount) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("read reference dataset row: %w", err)
		}

		rec, ok := parseRow(row, colIdx)
		if !ok {
			skipped++
			continue
		}

		cell := [2]int{rec.RoundedLat, rec.RoundedLon}
		if _, dup := seen[cell]; dup {
			duped++
			continue
		}
		seen[cell] = struct{}{}
		records = append(records, rec)
	}

	l.logger.Info("reference dataset loaded",
		"cities", len(records),
		"deduplicated", duped,
		"skipped_rows", skipped,
	)
	return records, nil
}

// parseRow converts one CSV row into a CityRecord. Returns false when id,
// lat, or lng cannot be parsed.
func parseRow(row []string, colIdx map[string]int) (domain.CityRecord, bool) {
	field := func(name string) string {
		return strings.TrimSpace(row[colIdx[name]])
	}

	id, err := strconv.Atoi(field("id"))
	if err != nil {
		return domain.CityRecord{}, false
	}
	lat, err := strconv.ParseFloat(field("lat"), 64)
	if err != nil {
		return domain.CityRecord{}, false
	}
	lon, err := strconv.ParseFloat(field("lng"), 64)
	if err != nil {
		return domain.CityRecord{}, false
	}

	rec := domain.CityRecord{
		ID:         id,
		Name:       field("city"),
		Country:    field("country"),
		Lat:        lat,
		Lon:        lon,
		RoundedLat: int(math.Round(lat)),
		RoundedLon: int(math.Round(lon)),
	}

	if s := field("population"); s != "" {
		// Population appears as "1234567" or "1234567.0" depending on the
		// dataset export; accept both.
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 {
			p := int64(v)
			rec.Population = &p
		}
	}
	if s := field("capital"); s != "" {
		rec.Capital = &s
	}

	return rec, true
}
