// Package export serializes enriched site snapshots to CSV, an
// interactive HTML map, and XLSX. All writers are pure functions of the
// site slice.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/maraisdata/seatmap/internal/site"
)

// csvColumns defines the ordered CSV output columns.
var csvColumns = []string{
	"id",
	"slug",
	"name",
	"address",
	"city",
	"postal_code",
	"latitude",
	"longitude",
	"seats",
	"occupancy_percent",
	"estimated_distance_m",
	"url",
}

// WriteCSV writes one row per site to path, with a header row.
func WriteCSV(sites []site.Site, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := writeCSV(sites, f); err != nil {
		return err
	}
	return eris.Wrapf(f.Sync(), "export: sync %s", path)
}

func writeCSV(sites []site.Site, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, s := range sites {
		if err := cw.Write(csvRow(s)); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", s.Slug)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// csvRow maps a Site to a CSV row. Absent numerics render as empty fields.
func csvRow(s site.Site) []string {
	return []string{
		strconv.Itoa(s.ID),
		s.Slug,
		s.Name,
		s.Street,
		s.City,
		s.PostalCode,
		floatField(s.Latitude),
		floatField(s.Longitude),
		intField(s.Seats),
		intField(s.Occupancy),
		floatField(s.EstimatedDistanceM),
		s.URL(),
	}
}

func floatField(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intField(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
