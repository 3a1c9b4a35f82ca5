// Package site holds the enriched library site model and the detail
// enrichment phase.
package site

import (
	"github.com/maraisdata/seatmap/pkg/affluences"
)

// Site is one enriched library location. Built once from API responses,
// never mutated afterwards.
type Site struct {
	ID                 int      `json:"id"`
	Slug               string   `json:"slug"`
	Name               string   `json:"name"`
	Street             string   `json:"street"`
	City               string   `json:"city"`
	PostalCode         string   `json:"postal_code"`
	Region             string   `json:"region"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	Seats              *int     `json:"seats"`
	Occupancy          *int     `json:"occupancy_percent"`
	EstimatedDistanceM *float64 `json:"estimated_distance_m"`
	DetailURL          string   `json:"url"`
}

// HasCoordinates reports whether the site carries a usable position.
func (s Site) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// URL returns the detail URL, falling back to the public site page.
func (s Site) URL() string {
	if s.DetailURL != "" {
		return s.DetailURL
	}
	return "https://affluences.com/site/" + s.Slug
}

// Build assembles a Site from a listing summary and an optional detail
// record. A nil detail means the per-site fetch failed or was skipped:
// the site keeps its listing-level fields and nil Seats/Occupancy unless
// the listing itself carried seat infos.
func Build(summary affluences.SiteSummary, detail *affluences.SiteDetail) Site {
	s := Site{
		ID:                 summary.ID,
		Slug:               summary.Slug,
		Name:               summary.Name(),
		Street:             summary.Location.Address.Street,
		City:               summary.Location.Address.City,
		PostalCode:         summary.Location.Address.PostalCode,
		Region:             summary.Location.Address.Region,
		EstimatedDistanceM: summary.EstimatedDistance,
	}

	if c := summary.Location.Coordinates; c != nil {
		lat, lon := c.Latitude, c.Longitude
		s.Latitude, s.Longitude = &lat, &lon
	}

	infos := summary.Infos
	if detail != nil {
		s.DetailURL = detail.URL
		if len(detail.Infos) > 0 {
			infos = detail.Infos
		}
		if detail.CurrentForecast != nil {
			s.Occupancy = detail.CurrentForecast.Occupancy
		}
	}
	s.Seats = ExtractSeats(infos)

	return s
}
