package affluences

// listRequest is the JSON body for the site listing endpoint.
type listRequest struct {
	SelectedCategories []int `json:"selected_categories"`
	Page               int   `json:"page"`
}

// listResponse is the paginated listing envelope.
type listResponse struct {
	Data struct {
		Results []SiteSummary `json:"results"`
	} `json:"data"`
}

// detailResponse is the per-site detail envelope.
type detailResponse struct {
	Data SiteDetail `json:"data"`
}

// SiteSummary is one site record from the listing endpoint.
type SiteSummary struct {
	ID                int      `json:"id"`
	Slug              string   `json:"slug"`
	PrimaryName       string   `json:"primary_name"`
	ConcatName        string   `json:"concat_name"`
	EstimatedDistance *float64 `json:"estimated_distance"`
	Location          Location `json:"location"`
	Infos             []Info   `json:"infos"`
}

// Name returns the display name, preferring the primary name.
func (s SiteSummary) Name() string {
	if s.PrimaryName != "" {
		return s.PrimaryName
	}
	return s.ConcatName
}

// Location holds a site's address and coordinates.
type Location struct {
	Address     Address      `json:"address"`
	Coordinates *Coordinates `json:"coordinates"`
}

// Address is the postal address of a site.
type Address struct {
	Street     string `json:"route"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Info is one free-form information entry on a site (title/description pairs
// such as opening hours or available seat counts).
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SiteDetail is the enriched record from the per-site detail endpoint.
type SiteDetail struct {
	ID              int       `json:"id"`
	Slug            string    `json:"slug"`
	PrimaryName     string    `json:"primary_name"`
	URL             string    `json:"url"`
	Location        Location  `json:"location"`
	Infos           []Info    `json:"infos"`
	CurrentForecast *Forecast `json:"current_forecast"`
}

// Forecast holds the current crowd forecast for a site.
type Forecast struct {
	Occupancy *int `json:"occupancy"`
}
