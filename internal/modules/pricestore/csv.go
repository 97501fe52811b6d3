package pricestore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{"2006-01-02", "02.01.2006", "01/02/2006"}

// ImportCSV loads one price file into the store. The expected layout is a
// header row of "date" followed by one column per ticker, with `,` or `;`
// as the delimiter (detected from the header line). Cells that do not parse
// as a positive number are skipped, matching the engine's "no data that
// day" semantics.
func (s *Store) ImportCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	delimiter, err := detectDelimiter(f)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(f)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return 0, fmt.Errorf("%s has no data rows", path)
	}

	header := records[0]
	if len(header) < 2 {
		return 0, fmt.Errorf("%s needs a date column plus at least one ticker", path)
	}
	tickers := make([]string, len(header))
	for i := 1; i < len(header); i++ {
		tickers[i] = strings.TrimSpace(header[i])
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}

		date, ok := parseDate(strings.TrimSpace(record[0]))
		if !ok {
			s.log.Debug().Str("cell", record[0]).Msg("Skipping row with unparseable date")
			continue
		}

		for i := 1; i < len(record) && i < len(tickers); i++ {
			if tickers[i] == "" {
				continue
			}
			price, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(record[i], ",", ".")), 64)
			if err != nil || price <= 0 {
				continue
			}
			if err := s.upsert(tx, date, tickers[i], price); err != nil {
				return 0, fmt.Errorf("failed to store price: %w", err)
			}
			imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	s.log.Info().
		Str("file", filepath.Base(path)).
		Int("prices", imported).
		Msg("Imported price file")

	return imported, nil
}

// ImportDir imports every .csv file in a directory.
func (s *Store) ImportDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read data directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		if _, err := s.ImportCSV(filepath.Join(dir, entry.Name())); err != nil {
			s.log.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to import price file")
		}
	}

	return nil
}

// detectDelimiter inspects the header line and rewinds the file.
func detectDelimiter(f *os.File) (rune, error) {
	buf := make([]byte, 4096)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}

	header := string(buf[:n])
	if idx := strings.IndexByte(header, '\n'); idx >= 0 {
		header = header[:idx]
	}

	if _, err := f.Seek(0, 0); err != nil {
		return 0, fmt.Errorf("failed to rewind: %w", err)
	}

	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';', nil
	}
	return ',', nil
}

func parseDate(cell string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
