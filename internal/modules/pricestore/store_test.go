package pricestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hindsight/pkg/logger"
)

var testLog = logger.New(logger.Config{Level: "error"})

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "prices.db"), testLog)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportCSVCommaDelimited(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()

	path := writeFile(t, dir, "prices.csv", ""+
		"date,SPY,AGG\n"+
		"2020-01-31,100.5,80\n"+
		"2020-02-28,102,81.25\n"+
		"garbage-date,1,2\n"+
		"2020-03-31,99,-5\n") // negative AGG cell skipped

	imported, err := store.ImportCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 5, imported)

	table, err := store.Table()
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	first := table.Rows()[0]
	assert.Equal(t, time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), first.Date)
	p, ok := first.Price("SPY")
	require.True(t, ok)
	assert.Equal(t, 100.5, p)

	// the negative cell never made it into the store
	last := table.Rows()[2]
	_, ok = last.Price("AGG")
	assert.False(t, ok)
}

func TestImportCSVSemicolonWithDecimalCommas(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()

	path := writeFile(t, dir, "prices.csv", ""+
		"date;SPY\n"+
		"31.01.2020;100,5\n"+
		"28.02.2020;102,25\n")

	imported, err := store.ImportCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	table, err := store.Table()
	require.NoError(t, err)
	p, ok := table.Rows()[0].Price("SPY")
	require.True(t, ok)
	assert.Equal(t, 100.5, p)
}

func TestImportCSVUpsertsOnReimport(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()

	path := writeFile(t, dir, "prices.csv", "date,SPY\n2020-01-31,100\n")
	_, err := store.ImportCSV(path)
	require.NoError(t, err)

	// re-import with a corrected close
	path = writeFile(t, dir, "prices.csv", "date,SPY\n2020-01-31,101\n")
	_, err = store.ImportCSV(path)
	require.NoError(t, err)

	table, err := store.Table()
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	p, _ := table.Rows()[0].Price("SPY")
	assert.Equal(t, 101.0, p)
}

func TestImportDirAndTickers(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()

	writeFile(t, dir, "us.csv", "date,SPY\n2020-01-31,100\n")
	writeFile(t, dir, "bonds.csv", "date,AGG\n2020-01-31,80\n")
	writeFile(t, dir, "notes.txt", "not a csv")

	require.NoError(t, store.ImportDir(dir))

	tickers, err := store.Tickers()
	require.NoError(t, err)
	assert.Equal(t, []string{"AGG", "SPY"}, tickers)
}
