package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maraisdata/seatmap/internal/site"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func sampleSites() []site.Site {
	return []site.Site{
		{
			ID: 1, Slug: "bib-a", Name: "Bibliothèque A",
			Street: "1 Rue de Rivoli", City: "Paris", PostalCode: "75001", Region: "Île-de-France",
			Latitude: f64(48.86), Longitude: f64(2.34),
			Seats: i(120), Occupancy: i(45),
			DetailURL: "https://affluences.com/bib-a",
		},
		{
			ID: 2, Slug: "bib-b", Name: "Bibliothèque B",
			City: "Versailles", Region: "Île-de-France",
			Latitude: f64(48.80), Longitude: f64(2.13),
			// Seats and Occupancy unreported.
		},
		{
			ID: 3, Slug: "bib-c", Name: "Bibliothèque C",
			Region: "Île-de-France",
			// No coordinates at all.
			Seats: i(60),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(sampleSites(), path))

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)

	// Header plus one row per site.
	require.Len(t, records, 4)
	assert.Equal(t, csvColumns, records[0])

	urlIdx := columnIndex(t, "url")
	seatsIdx := columnIndex(t, "seats")
	occIdx := columnIndex(t, "occupancy_percent")
	latIdx := columnIndex(t, "latitude")

	for _, row := range records[1:] {
		assert.NotEmpty(t, row[urlIdx], "url column must never be empty")
	}

	assert.Equal(t, "120", records[1][seatsIdx])
	assert.Equal(t, "45", records[1][occIdx])
	assert.Equal(t, "https://affluences.com/bib-a", records[1][urlIdx])

	// Unreported numerics export as empty fields, not zeros.
	assert.Empty(t, records[2][seatsIdx])
	assert.Empty(t, records[2][occIdx])
	assert.Empty(t, records[3][latIdx])

	// Fallback URL built from the slug.
	assert.Equal(t, "https://affluences.com/site/bib-b", records[2][urlIdx])
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV(nil, path))

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func columnIndex(t *testing.T, name string) int {
	t.Helper()
	for i, col := range csvColumns {
		if col == name {
			return i
		}
	}
	t.Fatalf("unknown column %s", name)
	return -1
}
