package export

import (
	"encoding/json"
	"html/template"
	"os"

	"github.com/rotisserie/eris"

	"github.com/maraisdata/seatmap/internal/site"
)

// parisLat/parisLon center the map when no site carries coordinates.
const (
	parisLat = 48.8566
	parisLon = 2.3522
)

// marker is the JSON payload for one map marker.
type marker struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Seats     *int    `json:"seats"`
	Occupancy *int    `json:"occupancy"`
	URL       string  `json:"url"`
	Color     string  `json:"color"`
}

// WriteMap writes a self-contained Leaflet map with one marker per site
// that has coordinates. Markers are colored by occupancy band.
func WriteMap(sites []site.Site, title, path string) error {
	markers := buildMarkers(sites)

	lat, lon := mapCenter(markers)

	payload, err := json.Marshal(markers)
	if err != nil {
		return eris.Wrap(err, "export: marshal markers")
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	data := struct {
		Title       string
		CenterLat   float64
		CenterLon   float64
		MarkersJSON template.JS
	}{
		Title:       title,
		CenterLat:   lat,
		CenterLon:   lon,
		MarkersJSON: template.JS(payload),
	}
	if err := mapTemplate.Execute(f, data); err != nil {
		return eris.Wrapf(err, "export: render map %s", path)
	}
	return nil
}

// buildMarkers always returns a non-nil slice so the embedded JSON is an
// array even when no site has coordinates.
func buildMarkers(sites []site.Site) []marker {
	markers := []marker{}
	for _, s := range sites {
		if !s.HasCoordinates() {
			continue
		}
		markers = append(markers, marker{
			Name:      s.Name,
			Address:   joinAddress(s),
			Latitude:  *s.Latitude,
			Longitude: *s.Longitude,
			Seats:     s.Seats,
			Occupancy: s.Occupancy,
			URL:       s.URL(),
			Color:     occupancyColor(s.Occupancy),
		})
	}
	return markers
}

// mapCenter returns the mean marker coordinate, falling back to Paris.
func mapCenter(markers []marker) (lat, lon float64) {
	if len(markers) == 0 {
		return parisLat, parisLon
	}
	for _, m := range markers {
		lat += m.Latitude
		lon += m.Longitude
	}
	n := float64(len(markers))
	return lat / n, lon / n
}

// occupancyColor bands occupancy into marker colors: green below 50%,
// orange up to 80%, red above, blue when unreported.
func occupancyColor(occupancy *int) string {
	switch {
	case occupancy == nil:
		return "#3388ff"
	case *occupancy < 50:
		return "#2ca02c"
	case *occupancy <= 80:
		return "#ff7f0e"
	default:
		return "#d62728"
	}
}

func joinAddress(s site.Site) string {
	addr := s.Street
	if s.City != "" {
		if addr != "" {
			addr += ", "
		}
		addr += s.City
	}
	return addr
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .popup-name { font-weight: bold; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 10);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var sites = {{.MarkersJSON}};

sites.forEach(function (s) {
  var seats = s.seats === null ? 'unknown' : s.seats;
  var occupancy = s.occupancy === null ? 'unknown' : s.occupancy + '%';

  var m = L.circleMarker([s.lat, s.lon], {
    radius: 8,
    color: s.color,
    fillColor: s.color,
    fillOpacity: 0.8
  }).addTo(map);

  var el = document.createElement('div');
  var name = document.createElement('span');
  name.className = 'popup-name';
  name.textContent = s.name;
  el.appendChild(name);
  el.appendChild(document.createElement('br'));
  el.appendChild(document.createTextNode(s.address));
  el.appendChild(document.createElement('br'));
  el.appendChild(document.createTextNode('Available seats: ' + seats));
  el.appendChild(document.createElement('br'));
  el.appendChild(document.createTextNode('Occupancy: ' + occupancy));
  el.appendChild(document.createElement('br'));
  var link = document.createElement('a');
  link.href = s.url;
  link.target = '_blank';
  link.rel = 'noopener';
  link.textContent = 'Site detail';
  el.appendChild(link);

  m.bindPopup(el, { maxWidth: 300 });
  m.bindTooltip(s.name);
});
</script>
</body>
</html>
`))
