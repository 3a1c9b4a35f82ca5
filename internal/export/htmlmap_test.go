package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMarkersSkipsSitesWithoutCoordinates(t *testing.T) {
	markers := buildMarkers(sampleSites())

	// bib-c has no coordinates and gets no marker.
	require.Len(t, markers, 2)
	assert.Equal(t, "Bibliothèque A", markers[0].Name)
	assert.Equal(t, "Bibliothèque B", markers[1].Name)
}

func TestMapCenter(t *testing.T) {
	markers := buildMarkers(sampleSites())
	lat, lon := mapCenter(markers)
	assert.InDelta(t, 48.83, lat, 1e-9)
	assert.InDelta(t, 2.235, lon, 1e-9)
}

func TestMapCenterFallsBackToParis(t *testing.T) {
	lat, lon := mapCenter(nil)
	assert.InDelta(t, parisLat, lat, 1e-9)
	assert.InDelta(t, parisLon, lon, 1e-9)
}

func TestOccupancyColor(t *testing.T) {
	n := func(v int) *int { return &v }

	tests := []struct {
		name      string
		occupancy *int
		want      string
	}{
		{name: "unknown", occupancy: nil, want: "#3388ff"},
		{name: "low", occupancy: n(10), want: "#2ca02c"},
		{name: "boundary 49", occupancy: n(49), want: "#2ca02c"},
		{name: "mid", occupancy: n(50), want: "#ff7f0e"},
		{name: "boundary 80", occupancy: n(80), want: "#ff7f0e"},
		{name: "high", occupancy: n(95), want: "#d62728"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, occupancyColor(tc.occupancy))
		})
	}
}

func TestWriteMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.html")
	require.NoError(t, WriteMap(sampleSites(), "Île-de-France libraries", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<title>Île-de-France libraries</title>")
	assert.Contains(t, html, "leaflet")

	// Exactly one marker entry per site with coordinates.
	assert.Equal(t, 2, strings.Count(html, `"lat":`))
	assert.Contains(t, html, "Bibliothèque A")
	assert.NotContains(t, html, "Bibliothèque C")
}

func TestWriteMapNoCoordinates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.html")
	sites := sampleSites()[2:3] // only the site without coordinates
	require.NoError(t, WriteMap(sites, "empty", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Falls back to the Paris center with zero markers.
	assert.Contains(t, string(data), "48.8566")
	assert.Equal(t, 0, strings.Count(string(data), `"lat":`))
}
