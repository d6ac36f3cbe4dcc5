package model

import "time"

// UnknownLocation is stored for any location field the resolver could not fill.
const UnknownLocation = "Unknown"

// UnknownUserAgent is recorded when a redirect request carries no User-Agent.
const UnknownUserAgent = "Unknown"

// Location is the geographic origin of a click.
type Location struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// UnknownLocationValue returns a Location with every field set to "Unknown".
func UnknownLocationValue() Location {
	return Location{Country: UnknownLocation, Region: UnknownLocation, City: UnknownLocation}
}

// WithDefaults replaces empty fields with "Unknown".
func (l Location) WithDefaults() Location {
	if l.Country == "" {
		l.Country = UnknownLocation
	}
	if l.Region == "" {
		l.Region = UnknownLocation
	}
	if l.City == "" {
		l.City = UnknownLocation
	}
	return l
}

// ClickRecord is one redirect event. Records are append-only.
type ClickRecord struct {
	ID        string    `json:"id"`         // ULID (time-sortable)
	ViewerID  string    `json:"viewer_id"`  // Empty for anonymous redirects
	ShortURL  string    `json:"short_url"`  // Join key to Alias.ShortURL
	UserAgent string    `json:"user_agent"` // Raw header value
	IPAddress string    `json:"ip_address"`
	Timestamp time.Time `json:"timestamp"`
	Location  Location  `json:"location"`
}
