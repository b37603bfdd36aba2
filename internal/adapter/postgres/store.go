// Package postgres persists correlated rows into the dimensional warehouse
// schema: dim_city (slowly-changing dimension) and fact_weather (append-only
// fact).
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Sujay-155/data-wareshouse/internal/domain"
)

const upsertDimCity = `
	INSERT INTO dim_city (city_id, city_name, country, population, capital, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (city_id) DO UPDATE SET
		city_name = EXCLUDED.city_name,
		country = EXCLUDED.country,
		population = EXCLUDED.population,
		capital = EXCLUDED.capital,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude`

const insertFactWeather = `
	INSERT INTO fact_weather (city_id, obs_time, temp_c, humidity, condition_text)
	VALUES ($1, $2, $3, $4, $5)`

// Store implements pipeline.BatchWriter over a Postgres warehouse.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore wraps an open database handle. Used directly by tests; production
// code goes through Connect.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Connect opens and pings the warehouse database.
func Connect(dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open warehouse database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping warehouse database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	return NewStore(db, logger), nil
}

// EnsureSchema creates the warehouse tables when absent. Bootstrap only;
// versioned migrations are out of scope for this service.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS dim_city (
		city_id    BIGINT PRIMARY KEY,
		city_name  TEXT NOT NULL,
		country    TEXT NOT NULL,
		population BIGINT,
		capital    TEXT,
		latitude   DOUBLE PRECISION,
		longitude  DOUBLE PRECISION
	);
	CREATE TABLE IF NOT EXISTS fact_weather (
		city_id        BIGINT NOT NULL REFERENCES dim_city (city_id),
		obs_time       TIMESTAMPTZ NOT NULL,
		temp_c         DOUBLE PRECISION,
		humidity       INTEGER,
		condition_text TEXT
	);`

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure warehouse schema: %w", err)
	}
	return nil
}

// WriteBatch persists a batch of correlated rows inside one transaction:
// upsert the dimension row for every city, then append one fact row per
// observation stamped with the shared observedAt. Any failure rolls the whole
// batch back; a half-written batch would leave dim and fact inconsistent for
// the run.
func (s *Store) WriteBatch(ctx context.Context, rows []domain.CorrelatedRow, observedAt time.Time) (dimRows, factRows int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin warehouse transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, row := range rows {
		c := row.City
		if _, err = tx.ExecContext(ctx, upsertDimCity,
			c.ID, c.Name, c.Country, c.Population, c.Capital, c.Lat, c.Lon,
		); err != nil {
			return 0, 0, fmt.Errorf("upsert dim_city city_id=%d: %w", c.ID, err)
		}
		dimRows++
	}

	for _, row := range rows {
		w := row.Weather
		if _, err = tx.ExecContext(ctx, insertFactWeather,
			w.CityID, observedAt, w.TempC, w.HumidityPct, w.ConditionText,
		); err != nil {
			return 0, 0, fmt.Errorf("insert fact_weather city_id=%d: %w", w.CityID, err)
		}
		factRows++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit warehouse transaction: %w", err)
	}

	s.logger.Debug("warehouse batch committed", "dim_rows", dimRows, "fact_rows", factRows)
	return dimRows, factRows, nil
}

// DB exposes the underlying handle for verification queries in tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
