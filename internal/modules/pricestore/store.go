// Package pricestore is the ingestion side of hindsight: it imports CSV
// price files into a local sqlite database and materializes the immutable
// price table the engine consumes.
package pricestore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"github.com/aristath/hindsight/internal/series"
)

// Store provides access to the historical price database.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS prices (
	date   TEXT NOT NULL,
	ticker TEXT NOT NULL,
	close  REAL NOT NULL,
	PRIMARY KEY (date, ticker)
);
CREATE INDEX IF NOT EXISTS idx_prices_ticker ON prices(ticker);
`

// Open opens (creating if necessary) the price database at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize price schema: %w", err)
	}

	return &Store{
		db:  db,
		log: log.With().Str("component", "pricestore").Logger(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// upsert writes one price observation.
func (s *Store) upsert(tx *sql.Tx, date time.Time, ticker string, close float64) error {
	_, err := tx.Exec(`
		INSERT INTO prices (date, ticker, close) VALUES (?, ?, ?)
		ON CONFLICT(date, ticker) DO UPDATE SET close = excluded.close
	`, date.Format("2006-01-02"), ticker, close)
	return err
}

// Table materializes the full price table, one row per date in ascending
// order. The result is safe to share read-only between simulations.
func (s *Store) Table() (*series.PriceTable, error) {
	rows, err := s.db.Query(`
		SELECT date, ticker, close
		FROM prices
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var out []series.PriceRow
	var current *series.PriceRow

	for rows.Next() {
		var dateStr, ticker string
		var close float64
		if err := rows.Scan(&dateStr, &ticker, &close); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			s.log.Warn().Str("date", dateStr).Msg("Skipping unparseable date")
			continue
		}

		if current == nil || !current.Date.Equal(date) {
			out = append(out, series.PriceRow{Date: date, Prices: map[string]float64{}})
			current = &out[len(out)-1]
		}
		current.Prices[ticker] = close
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}

	return series.NewPriceTable(out)
}

// Tickers returns the distinct tickers present in the store.
func (s *Store) Tickers() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT ticker FROM prices ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}
