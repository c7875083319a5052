package domain

import "time"

// Feed is the USGS GeoJSON FeatureCollection as published.
type Feed struct {
	Type     string       `json:"type"`
	Metadata FeedMetadata `json:"metadata"`
	Features []Feature    `json:"features"`
}

// FeedMetadata describes the feed document itself.
type FeedMetadata struct {
	Generated int64  `json:"generated"` // epoch milliseconds
	URL       string `json:"url"`
	Title     string `json:"title"`
	Count     int    `json:"count"`
}

// Feature is a single feed entry. Fields the encoders depend on are pointers
// so a null or absent value can be told apart from zero.
type Feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Properties FeatureProperties `json:"properties"`
	Geometry   FeatureGeometry   `json:"geometry"`
}

// FeatureProperties holds the subset of USGS feature properties the map uses.
type FeatureProperties struct {
	Place *string  `json:"place"`
	Time  *int64   `json:"time"` // epoch milliseconds
	Mag   *float64 `json:"mag"`
	URL   string   `json:"url,omitempty"`
}

// FeatureGeometry is a GeoJSON Point: [longitude, latitude, depth-km].
type FeatureGeometry struct {
	Type        string     `json:"type"`
	Coordinates []*float64 `json:"coordinates"`
}

// Event is one validated earthquake record.
type Event struct {
	ID        string    `json:"id,omitempty"`
	Place     string    `json:"place"`
	Time      time.Time `json:"time"`
	Magnitude float64   `json:"magnitude"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Depth     float64   `json:"depth"` // kilometers
	URL       string    `json:"url,omitempty"`
}

// Popup is the descriptive text attached to a marker.
type Popup struct {
	Title string `json:"title"`
	Time  string `json:"time"`
}

// Text joins the popup title and time on separate lines.
func (p Popup) Text() string {
	return p.Title + "\n" + p.Time
}

// Marker is the renderable circle derived from one Event.
type Marker struct {
	EventID     string  `json:"event_id,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Radius      float64 `json:"radius"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
	Color       string  `json:"color"` // outline
	Popup       Popup   `json:"popup"`
}

// LegendEntry pairs a depth range label with its representative depth and swatch color.
type LegendEntry struct {
	Label string  `json:"label"`
	Depth float64 `json:"depth"`
	Color string  `json:"color"`
}
